package payroll

import (
	"fmt"
	"time"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
)

const (
	// Period boundaries are always resolved in Eastern US time so that
	// "today" means the same calendar day for every caller, wherever the
	// server runs.
	referenceTimezone = "America/New_York"

	payoutLagDays       = 5
	periodLookbackWeeks = 12
)

func referenceLocation() *time.Location {
	loc, err := time.LoadLocation(referenceTimezone)
	if err != nil {
		loc = time.UTC
	}
	return loc
}

// weekStart returns the Monday of the week containing t, normalized to
// midnight UTC so period dates compare and format consistently.
func weekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	d := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func newPeriod(start, end time.Time) payroll.Period {
	return payroll.Period{
		StartDate:  start,
		EndDate:    end,
		PayoutDate: end.AddDate(0, 0, payoutLagDays),
		Label:      periodLabel(start, end),
	}
}

func periodLabel(start, end time.Time) string {
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), end.Year())
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// lastCompletedWeek returns the most recent Monday-Sunday week that has fully
// elapsed as of now.
func lastCompletedWeek(now time.Time) payroll.Period {
	start := weekStart(now.In(referenceLocation())).AddDate(0, 0, -7)
	return newPeriod(start, start.AddDate(0, 0, 6))
}

// resolvePeriod builds the payroll period from explicit ISO dates when both
// are supplied, defaulting to the last completed week otherwise. Request
// validation catches malformed dates earlier, but a caller that skips it
// still gets ErrInvalidPeriod rather than a zero-value period.
func resolvePeriod(startStr, endStr *string, now time.Time) (payroll.Period, error) {
	if startStr == nil || endStr == nil {
		return lastCompletedWeek(now), nil
	}
	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		return payroll.Period{}, payroll.ErrInvalidPeriod
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		return payroll.Period{}, payroll.ErrInvalidPeriod
	}
	return newPeriod(start, end), nil
}

// periodOptions enumerates recent weekly periods for the period picker,
// most recent first, beginning with the last completed week.
func periodOptions(now time.Time) []payroll.Period {
	options := make([]payroll.Period, 0, periodLookbackWeeks)
	start := weekStart(now.In(referenceLocation())).AddDate(0, 0, -7)
	for i := 0; i < periodLookbackWeeks; i++ {
		options = append(options, newPeriod(start, start.AddDate(0, 0, 6)))
		start = start.AddDate(0, 0, -7)
	}
	return options
}

func periodResponse(p payroll.Period) payroll.PeriodResponse {
	return payroll.PeriodResponse{
		StartDate:  p.StartDate.Format("2006-01-02"),
		EndDate:    p.EndDate.Format("2006-01-02"),
		PayoutDate: p.PayoutDate.Format("2006-01-02"),
		Label:      p.Label,
	}
}
