package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// GetAssignmentsInPeriod returns assignments whose event date falls inside
// [start, end], with event, event-date and user rows joined. The user join is
// a LEFT JOIN on purpose: an assignment pointing at a deleted user comes back
// with a nil User and the service drops it instead of failing the run.
func (r *payrollRepository) GetAssignmentsInPeriod(ctx context.Context, companyID string, start, end time.Time) ([]payroll.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sa.id, sa.event_id, sa.user_id, sa.event_date_id,
			   sa.arrival_time, sa.start_time, sa.end_time,
			   sa.pay_type_override, sa.flat_rate_amount,
			   e.title,
			   ed.event_date, ed.setup_time, ed.start_time, ed.end_time,
			   u.id, u.first_name, u.last_name, u.user_type, u.pay_type,
			   u.pay_rate, u.default_flat_rate, u.mileage_enabled, u.mileage_rate,
			   u.home_latitude, u.home_longitude
		FROM shift_assignments sa
		JOIN events e ON e.id = sa.event_id
		JOIN event_dates ed ON ed.id = sa.event_date_id
		LEFT JOIN users u ON u.id = sa.user_id
		WHERE e.company_id = $1
		  AND ed.event_date >= $2 AND ed.event_date <= $3
		ORDER BY ed.event_date, sa.id
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []payroll.ShiftAssignment
	for rows.Next() {
		var (
			a               payroll.ShiftAssignment
			payTypeOverride *string

			userID          *string
			firstName       *string
			lastName        *string
			userType        *string
			userPayType     *string
			payRate         *decimal.Decimal
			defaultFlatRate *decimal.Decimal
			mileageEnabled  *bool
			mileageRate     *decimal.Decimal
			homeLat         *float64
			homeLon         *float64
		)

		err := rows.Scan(
			&a.ID, &a.EventID, &a.UserID, &a.EventDateID,
			&a.ArrivalTime, &a.StartTime, &a.EndTime,
			&payTypeOverride, &a.FlatRateAmount,
			&a.EventTitle,
			&a.EventDate.EventDate, &a.EventDate.SetupTime, &a.EventDate.StartTime, &a.EventDate.EndTime,
			&userID, &firstName, &lastName, &userType, &userPayType,
			&payRate, &defaultFlatRate, &mileageEnabled, &mileageRate,
			&homeLat, &homeLon,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}

		a.EventDate.ID = a.EventDateID
		a.PayTypeOverride = toPayType(payTypeOverride)

		if userID != nil {
			user := payroll.StaffUser{
				ID:            *userID,
				UserType:      payroll.UserTypeStaff,
				PayType:       toPayType(userPayType),
				HomeLatitude:  homeLat,
				HomeLongitude: homeLon,
			}
			if firstName != nil {
				user.FirstName = *firstName
			}
			if lastName != nil {
				user.LastName = *lastName
			}
			if userType != nil {
				user.UserType = payroll.UserType(*userType)
			}
			if payRate != nil {
				user.PayRate = *payRate
			}
			if defaultFlatRate != nil {
				user.DefaultFlatRate = *defaultFlatRate
			}
			if mileageEnabled != nil {
				user.MileageEnabled = *mileageEnabled
			}
			if mileageRate != nil {
				user.MileageRate = *mileageRate
			}
			a.User = &user
		}

		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignment rows: %w", err)
	}

	return assignments, nil
}

func (r *payrollRepository) GetLocationsByEventDateIDs(ctx context.Context, companyID string, eventDateIDs []string) (map[string]payroll.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ed.id, l.id, l.name, l.latitude, l.longitude
		FROM event_dates ed
		JOIN locations l ON l.id = ed.location_id
		WHERE l.company_id = $1 AND ed.id = ANY($2)
	`

	rows, err := q.Query(ctx, query, companyID, eventDateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := make(map[string]payroll.Location)
	for rows.Next() {
		var eventDateID string
		var l payroll.Location
		if err := rows.Scan(&eventDateID, &l.ID, &l.Name, &l.Latitude, &l.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations[eventDateID] = l
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location rows: %w", err)
	}

	return locations, nil
}

// GetAdjustmentsForPeriod returns one amount per user for adjustments scoped
// to the exact period boundaries; multiple rows for a user are summed.
func (r *payrollRepository) GetAdjustmentsForPeriod(ctx context.Context, companyID string, start, end time.Time) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, SUM(amount)
		FROM payroll_adjustments
		WHERE company_id = $1 AND period_start = $2 AND period_end = $3
		GROUP BY user_id
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll adjustments: %w", err)
	}
	defer rows.Close()

	adjustments := make(map[string]decimal.Decimal)
	for rows.Next() {
		var userID string
		var amount decimal.Decimal
		if err := rows.Scan(&userID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment row: %w", err)
		}
		adjustments[userID] = amount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate adjustment rows: %w", err)
	}

	return adjustments, nil
}

func toPayType(s *string) *payroll.PayType {
	if s == nil || *s == "" {
		return nil
	}
	pt := payroll.PayType(*s)
	return &pt
}
