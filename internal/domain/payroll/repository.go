package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access methods for the payroll computation.
// All methods include companyID parameter to prevent cross-company data access.
type PayrollRepository interface {
	// GetAssignmentsInPeriod returns all shift assignments whose event date
	// falls inside [start, end], with event, event-date and user rows joined
	// and normalized. Assignments whose user row is missing are returned with
	// a nil User; the service decides how to treat them.
	GetAssignmentsInPeriod(ctx context.Context, companyID string, start, end time.Time) ([]ShiftAssignment, error)

	// GetLocationsByEventDateIDs returns venue locations keyed by event_date_id.
	GetLocationsByEventDateIDs(ctx context.Context, companyID string, eventDateIDs []string) (map[string]Location, error)

	// GetAdjustmentsForPeriod returns manual adjustment amounts keyed by
	// user_id, pre-filtered to the exact period boundaries. Multiple rows for
	// the same user are summed into one amount.
	GetAdjustmentsForPeriod(ctx context.Context, companyID string, start, end time.Time) (map[string]decimal.Decimal, error)
}
