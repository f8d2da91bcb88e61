package payroll

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// calculator folds normalized period records into per-staff payroll entries.
// One instance serves one computation; its distance cache must not be shared
// across requests.
type calculator struct {
	distances *distanceCache
	logger    *slog.Logger
}

func newCalculator(distances *distanceCache, logger *slog.Logger) *calculator {
	return &calculator{distances: distances, logger: logger}
}

func coalesceTime(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return c
		}
	}
	return nil
}

// buildEntries groups assignments by user and prices each one according to
// its effective pay type, returning one entry per staff member sorted by
// last name then first name, case-insensitive.
func (c *calculator) buildEntries(
	ctx context.Context,
	assignments []payroll.ShiftAssignment,
	locations map[string]payroll.Location,
	adjustments map[string]decimal.Decimal,
) []payroll.StaffPayrollEntry {
	byUser := make(map[string]*payroll.StaffPayrollEntry)

	for _, a := range assignments {
		if a.User == nil {
			// Referential gap upstream; drop the assignment rather than fail
			// the whole run.
			c.logger.WarnContext(ctx, "dropping assignment with missing user record",
				slog.String("assignment_id", a.ID),
				slog.String("user_id", a.UserID),
			)
			continue
		}
		user := a.User

		entry, ok := byUser[user.ID]
		if !ok {
			entry = &payroll.StaffPayrollEntry{
				UserID:         user.ID,
				FirstName:      user.FirstName,
				LastName:       user.LastName,
				UserType:       string(user.UserType),
				HourlyRate:     user.PayRate,
				MileageRate:    user.MileageRate,
				MileageEnabled: user.MileageEnabled,
				Events:         []payroll.EventPayrollDetail{},
			}
			byUser[user.ID] = entry
		}

		detail := c.priceAssignment(ctx, a, locations)

		entry.EventCount++
		entry.TotalHours += detail.Hours
		entry.TotalMiles += detail.Miles
		entry.HourlyPay = entry.HourlyPay.Add(detail.HourlyPay)
		entry.MileagePay = entry.MileagePay.Add(detail.MileagePay)
		entry.FlatRatePay = entry.FlatRatePay.Add(detail.FlatRateAmount)
		entry.TotalFlatRateAmount = entry.TotalFlatRateAmount.Add(detail.FlatRateAmount)
		entry.Events = append(entry.Events, detail)
	}

	entries := make([]payroll.StaffPayrollEntry, 0, len(byUser))
	for _, entry := range byUser {
		if amount, ok := adjustments[entry.UserID]; ok {
			// Flat reimbursement for the whole period, not distributed
			// per event.
			entry.Reimbursements = amount
		}
		entry.TotalPay = entry.HourlyPay.
			Add(entry.MileagePay).
			Add(entry.FlatRatePay).
			Add(entry.Reimbursements)
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		li, lj := strings.ToLower(entries[i].LastName), strings.ToLower(entries[j].LastName)
		if li != lj {
			return li < lj
		}
		fi, fj := strings.ToLower(entries[i].FirstName), strings.ToLower(entries[j].FirstName)
		if fi != fj {
			return fi < fj
		}
		// Distinct users can share a name; break the tie on ID so the
		// ordering never depends on map iteration order.
		return entries[i].UserID < entries[j].UserID
	})

	return entries
}

// priceAssignment builds the audit line item for one assignment.
func (c *calculator) priceAssignment(
	ctx context.Context,
	a payroll.ShiftAssignment,
	locations map[string]payroll.Location,
) payroll.EventPayrollDetail {
	user := a.User
	location, hasLocation := locations[a.EventDateID]

	detail := payroll.EventPayrollDetail{
		AssignmentID: a.ID,
		EventID:      a.EventID,
		EventTitle:   a.EventTitle,
		EventDate:    a.EventDate.EventDate.Format("2006-01-02"),
	}
	if hasLocation {
		detail.LocationName = location.Name
	}

	payType := effectivePayType(user.PayType, user.UserType, a.PayTypeOverride)
	detail.PayType = string(payType)

	if payType == payroll.PayTypeFlatRate {
		amount := user.DefaultFlatRate
		if a.FlatRateAmount != nil {
			amount = *a.FlatRateAmount
		}
		detail.FlatRateAmount = amount
		return detail
	}

	// Hourly: assignment times win, event-date times fill the gaps.
	start := coalesceTime(a.ArrivalTime, a.StartTime, a.EventDate.SetupTime, a.EventDate.StartTime)
	end := coalesceTime(a.EndTime, a.EventDate.EndTime)

	detail.Hours = workedHours(start, end)
	detail.HourlyPay = user.PayRate.Mul(decimal.NewFromFloat(detail.Hours))

	if user.MileageEnabled && user.HomeLatitude != nil && user.HomeLongitude != nil &&
		hasLocation && location.Latitude != nil && location.Longitude != nil {
		oneWay := c.distances.oneWayMiles(ctx,
			*user.HomeLatitude, *user.HomeLongitude,
			*location.Latitude, *location.Longitude,
		)
		if oneWay != nil {
			// Round trip home -> venue -> home.
			detail.Miles = 2 * *oneWay
			detail.MileagePay = user.MileageRate.Mul(decimal.NewFromFloat(detail.Miles))
		}
	}

	return detail
}

// summarize reduces staff entries into grand totals across the period.
func summarize(entries []payroll.StaffPayrollEntry) payroll.PayrollTotals {
	totals := payroll.PayrollTotals{StaffCount: len(entries)}

	for _, e := range entries {
		totals.EventCount += e.EventCount
		totals.TotalHours += e.TotalHours
		totals.TotalMiles += e.TotalMiles
		totals.TotalHourlyPay = totals.TotalHourlyPay.Add(e.HourlyPay)
		totals.TotalMileagePay = totals.TotalMileagePay.Add(e.MileagePay)
		totals.TotalFlatRatePay = totals.TotalFlatRatePay.Add(e.FlatRatePay)
		totals.TotalReimbursements = totals.TotalReimbursements.Add(e.Reimbursements)
		totals.TotalPay = totals.TotalPay.Add(e.TotalPay)
	}

	return totals
}
