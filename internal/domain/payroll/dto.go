package payroll

import (
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type ComputePayrollRequest struct {
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
}

func (r *ComputePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodStart != nil {
		if _, ok := validator.IsValidDate(*r.PeriodStart); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.PeriodEnd != nil {
		if _, ok := validator.IsValidDate(*r.PeriodEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if (r.PeriodStart == nil) != (r.PeriodEnd == nil) {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "period_start and period_end must be supplied together"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type PeriodResponse struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	PayoutDate string `json:"payout_date"`
	Label      string `json:"label"`
}

// EventPayrollDetail - one line item per assignment, for drilldown
type EventPayrollDetail struct {
	AssignmentID   string          `json:"assignment_id"`
	EventID        string          `json:"event_id"`
	EventTitle     string          `json:"event_title"`
	EventDate      string          `json:"event_date"`
	LocationName   string          `json:"location_name,omitempty"`
	PayType        string          `json:"pay_type"`
	Hours          float64         `json:"hours"`
	Miles          float64         `json:"miles"`
	HourlyPay      decimal.Decimal `json:"hourly_pay"`
	MileagePay     decimal.Decimal `json:"mileage_pay"`
	FlatRateAmount decimal.Decimal `json:"flat_rate_amount"`
}

// StaffPayrollEntry - all line items for one user within the period
type StaffPayrollEntry struct {
	UserID              string               `json:"user_id"`
	FirstName           string               `json:"first_name"`
	LastName            string               `json:"last_name"`
	UserType            string               `json:"user_type"`
	EventCount          int                  `json:"event_count"`
	TotalHours          float64              `json:"total_hours"`
	TotalMiles          float64              `json:"total_miles"`
	TotalFlatRateAmount decimal.Decimal      `json:"total_flat_rate_amount"`
	HourlyRate          decimal.Decimal      `json:"hourly_rate"`
	MileageRate         decimal.Decimal      `json:"mileage_rate"`
	MileageEnabled      bool                 `json:"mileage_enabled"`
	HourlyPay           decimal.Decimal      `json:"hourly_pay"`
	MileagePay          decimal.Decimal      `json:"mileage_pay"`
	FlatRatePay         decimal.Decimal      `json:"flat_rate_pay"`
	Reimbursements      decimal.Decimal      `json:"reimbursements"`
	TotalPay            decimal.Decimal      `json:"total_pay"`
	Events              []EventPayrollDetail `json:"events"`
}

// PayrollTotals - aggregate across all staff entries.
// EventCount counts assignments, not distinct events; a staff member with two
// assignments on the same event counts twice.
type PayrollTotals struct {
	StaffCount          int             `json:"staff_count"`
	EventCount          int             `json:"event_count"`
	TotalHours          float64         `json:"total_hours"`
	TotalMiles          float64         `json:"total_miles"`
	TotalHourlyPay      decimal.Decimal `json:"total_hourly_pay"`
	TotalMileagePay     decimal.Decimal `json:"total_mileage_pay"`
	TotalFlatRatePay    decimal.Decimal `json:"total_flat_rate_pay"`
	TotalReimbursements decimal.Decimal `json:"total_reimbursements"`
	TotalPay            decimal.Decimal `json:"total_pay"`
}

type PayrollResult struct {
	Period PeriodResponse      `json:"period"`
	Staff  []StaffPayrollEntry `json:"staff"`
	Totals PayrollTotals       `json:"totals"`
}
