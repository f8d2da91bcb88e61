package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayType enum
type PayType string

const (
	PayTypeHourly   PayType = "hourly"
	PayTypeFlatRate PayType = "flat_rate"
)

// UserType enum
type UserType string

const (
	UserTypeStaff      UserType = "staff"
	UserTypeWhiteLabel UserType = "white_label"
)

// StaffUser - payroll-relevant projection of a user record
type StaffUser struct {
	ID              string
	FirstName       string
	LastName        string
	UserType        UserType
	PayType         *PayType
	PayRate         decimal.Decimal
	DefaultFlatRate decimal.Decimal
	MileageEnabled  bool
	MileageRate     decimal.Decimal
	HomeLatitude    *float64
	HomeLongitude   *float64
}

// EventDate - one calendar occurrence of an event, with its own timing
type EventDate struct {
	ID        string
	EventDate time.Time
	SetupTime *string
	StartTime *string
	EndTime   *string
}

// ShiftAssignment - one staff member's participation in one event occurrence.
// Joined event/event-date/user fields are normalized here at the repository
// boundary so the calculation core never sees raw row shapes.
type ShiftAssignment struct {
	ID              string
	EventID         string
	UserID          string
	EventDateID     string
	ArrivalTime     *string
	StartTime       *string
	EndTime         *string
	PayTypeOverride *PayType
	FlatRateAmount  *decimal.Decimal

	// Joined fields
	EventTitle string
	EventDate  EventDate
	User       *StaffUser // nil when the user row is missing (referential gap)
}

// Location - geocoded venue tied to an event date
type Location struct {
	ID        string
	Name      string
	Latitude  *float64
	Longitude *float64
}

// Period - a Monday-Sunday payroll week. Payout falls five calendar days
// after the period ends.
type Period struct {
	StartDate  time.Time
	EndDate    time.Time
	PayoutDate time.Time
	Label      string
}
