package payroll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FIXTURES =====

type fakePayrollRepo struct {
	assignments []payroll.ShiftAssignment
	locations   map[string]payroll.Location
	adjustments map[string]decimal.Decimal
}

func (f *fakePayrollRepo) GetAssignmentsInPeriod(_ context.Context, _ string, _, _ time.Time) ([]payroll.ShiftAssignment, error) {
	return f.assignments, nil
}

func (f *fakePayrollRepo) GetLocationsByEventDateIDs(_ context.Context, _ string, _ []string) (map[string]payroll.Location, error) {
	if f.locations == nil {
		return map[string]payroll.Location{}, nil
	}
	return f.locations, nil
}

func (f *fakePayrollRepo) GetAdjustmentsForPeriod(_ context.Context, _ string, _, _ time.Time) (map[string]decimal.Decimal, error) {
	if f.adjustments == nil {
		return map[string]decimal.Decimal{}, nil
	}
	return f.adjustments, nil
}

type stubResolver struct {
	miles float64
	err   error
}

func (r *stubResolver) DrivingDistanceMiles(_ context.Context, _, _, _, _ float64) (float64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.miles, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"company_id": companyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(repo *fakePayrollRepo, resolver *stubResolver) payroll.PayrollService {
	svc := NewPayrollService(repo, resolver, testLogger()).(*PayrollServiceImpl)
	svc.now = func() time.Time {
		return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func floatPtr(f float64) *float64 { return &f }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func hourlyStaff(id, first, last string, rate int64) *payroll.StaffUser {
	return &payroll.StaffUser{
		ID:        id,
		FirstName: first,
		LastName:  last,
		UserType:  payroll.UserTypeStaff,
		PayType:   payTypePtr(payroll.PayTypeHourly),
		PayRate:   decimal.NewFromInt(rate),
	}
}

func flatWhiteLabel(id, first, last string, defaultFlat int64) *payroll.StaffUser {
	return &payroll.StaffUser{
		ID:              id,
		FirstName:       first,
		LastName:        last,
		UserType:        payroll.UserTypeWhiteLabel,
		DefaultFlatRate: decimal.NewFromInt(defaultFlat),
	}
}

func shift(id, eventID, eventDateID string, user *payroll.StaffUser, arrival, end *string) payroll.ShiftAssignment {
	a := payroll.ShiftAssignment{
		ID:          id,
		EventID:     eventID,
		EventDateID: eventDateID,
		EventTitle:  "Test Event",
		ArrivalTime: arrival,
		EndTime:     end,
		EventDate: payroll.EventDate{
			ID:        eventDateID,
			EventDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		User: user,
	}
	if user != nil {
		a.UserID = user.ID
	}
	return a
}

func explicitPeriodRequest() payroll.ComputePayrollRequest {
	return payroll.ComputePayrollRequest{
		PeriodStart: strPtr("2025-01-06"),
		PeriodEnd:   strPtr("2025-01-12"),
	}
}

// ===== SCENARIOS =====

func TestComputePayroll_MixedPayTypes(t *testing.T) {
	t.Parallel()
	alice := hourlyStaff("u1", "Alice", "Anderson", 20)
	bob := flatWhiteLabel("u2", "Bob", "Baker", 0)

	bobShift := shift("a2", "e2", "ed2", bob, nil, nil)
	bobShift.FlatRateAmount = decPtr(decimal.NewFromInt(150))

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", alice, strPtr("09:00"), strPtr("13:00")),
			bobShift,
		},
	}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 2)
	assert.Equal(t, "Anderson", result.Staff[0].LastName)
	assert.Equal(t, "Baker", result.Staff[1].LastName)

	assert.InDelta(t, 4.0, result.Staff[0].TotalHours, 1e-9)
	assert.Equal(t, "80", result.Staff[0].TotalPay.String())
	assert.Equal(t, "150", result.Staff[1].TotalPay.String())
	assert.Equal(t, "230", result.Totals.TotalPay.String())
	assert.Equal(t, 2, result.Totals.StaffCount)
}

func TestComputePayroll_AdjustmentApplied(t *testing.T) {
	t.Parallel()
	carol := flatWhiteLabel("u3", "Carol", "Carter", 100)

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{shift("a1", "e1", "ed1", carol, nil, nil)},
		adjustments: map[string]decimal.Decimal{"u3": decimal.NewFromInt(25)},
	}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 1)
	assert.Equal(t, "100", result.Staff[0].FlatRatePay.String())
	assert.Equal(t, "25", result.Staff[0].Reimbursements.String())
	assert.Equal(t, "125", result.Staff[0].TotalPay.String())
	assert.Equal(t, "25", result.Totals.TotalReimbursements.String())
}

func TestComputePayroll_EmptyPeriod(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakePayrollRepo{}, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	assert.NotNil(t, result.Staff)
	assert.Len(t, result.Staff, 0)
	assert.Equal(t, 0, result.Totals.StaffCount)
	assert.Equal(t, 0, result.Totals.EventCount)
	assert.Zero(t, result.Totals.TotalHours)
	assert.Zero(t, result.Totals.TotalMiles)
	assert.True(t, result.Totals.TotalPay.IsZero())
	assert.Equal(t, "2025-01-06", result.Period.StartDate)
	assert.Equal(t, "2025-01-12", result.Period.EndDate)
	assert.Equal(t, "2025-01-17", result.Period.PayoutDate)
}

func TestComputePayroll_MileageRoundTrip(t *testing.T) {
	t.Parallel()
	dana := hourlyStaff("u4", "Dana", "Diaz", 20)
	dana.MileageEnabled = true
	dana.MileageRate = decimal.NewFromFloat(0.5)
	dana.HomeLatitude = floatPtr(40.7128)
	dana.HomeLongitude = floatPtr(-74.0060)

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", dana, strPtr("09:00"), strPtr("13:00")),
		},
		locations: map[string]payroll.Location{
			"ed1": {ID: "l1", Name: "Venue One", Latitude: floatPtr(40.758), Longitude: floatPtr(-73.9855)},
		},
	}
	svc := newTestService(repo, &stubResolver{miles: 7.5})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 1)
	entry := result.Staff[0]

	// Round trip is always twice the one-way distance
	assert.InDelta(t, 15.0, entry.TotalMiles, 1e-9)
	assert.Equal(t, "7.5", entry.MileagePay.String())
	assert.Equal(t, "80", entry.HourlyPay.String())
	assert.Equal(t, "87.5", entry.TotalPay.String())
	assert.Equal(t, "Venue One", entry.Events[0].LocationName)
}

func TestComputePayroll_MileageSkippedWithoutHomeCoordinates(t *testing.T) {
	t.Parallel()
	evan := hourlyStaff("u5", "Evan", "Ellis", 20)
	evan.MileageEnabled = true
	evan.MileageRate = decimal.NewFromFloat(0.5)
	// No home coordinates: mileage simply not computed, no error.

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", evan, strPtr("09:00"), strPtr("13:00")),
		},
		locations: map[string]payroll.Location{
			"ed1": {ID: "l1", Name: "Venue One", Latitude: floatPtr(40.758), Longitude: floatPtr(-73.9855)},
		},
	}
	svc := newTestService(repo, &stubResolver{miles: 7.5})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 1)
	assert.Zero(t, result.Staff[0].TotalMiles)
	assert.True(t, result.Staff[0].MileagePay.IsZero())
	assert.Equal(t, "80", result.Staff[0].TotalPay.String())
}

func TestComputePayroll_MileageLookupFailureDegrades(t *testing.T) {
	t.Parallel()
	fran := hourlyStaff("u6", "Fran", "Field", 20)
	fran.MileageEnabled = true
	fran.MileageRate = decimal.NewFromFloat(0.5)
	fran.HomeLatitude = floatPtr(40.7128)
	fran.HomeLongitude = floatPtr(-74.0060)

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", fran, strPtr("09:00"), strPtr("13:00")),
		},
		locations: map[string]payroll.Location{
			"ed1": {ID: "l1", Name: "Venue One", Latitude: floatPtr(40.758), Longitude: floatPtr(-73.9855)},
		},
	}
	svc := newTestService(repo, &stubResolver{err: errors.New("routing timeout")})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err, "a failed distance lookup must never fail the payroll run")

	require.Len(t, result.Staff, 1)
	assert.Zero(t, result.Staff[0].TotalMiles)
	assert.Equal(t, "80", result.Staff[0].TotalPay.String())
}

func TestComputePayroll_MissingTimesContributeZeroHours(t *testing.T) {
	t.Parallel()
	gina := hourlyStaff("u7", "Gina", "Grant", 20)

	// No arrival time and no event-date fallback times at all
	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{shift("a1", "e1", "ed1", gina, nil, nil)},
	}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 1)
	assert.Zero(t, result.Staff[0].TotalHours)
	assert.True(t, result.Staff[0].HourlyPay.IsZero())
	assert.True(t, result.Staff[0].TotalPay.IsZero())
}

func TestComputePayroll_EventDateTimesFillGaps(t *testing.T) {
	t.Parallel()
	hugo := hourlyStaff("u8", "Hugo", "Hale", 10)

	a := shift("a1", "e1", "ed1", hugo, nil, nil)
	a.EventDate.SetupTime = strPtr("08:00")
	a.EventDate.StartTime = strPtr("09:00")
	a.EventDate.EndTime = strPtr("16:00")

	repo := &fakePayrollRepo{assignments: []payroll.ShiftAssignment{a}}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	// Setup time wins over start time as the fallback window opening
	require.Len(t, result.Staff, 1)
	assert.InDelta(t, 8.0, result.Staff[0].TotalHours, 1e-9)
	assert.Equal(t, "80", result.Staff[0].HourlyPay.String())
}

func TestComputePayroll_MissingUserDropped(t *testing.T) {
	t.Parallel()
	iris := hourlyStaff("u9", "Iris", "Ivers", 20)

	orphan := shift("a2", "e1", "ed1", nil, strPtr("09:00"), strPtr("13:00"))
	orphan.UserID = "gone"

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", iris, strPtr("09:00"), strPtr("13:00")),
			orphan,
		},
	}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err, "a referential gap must not fail the computation")

	require.Len(t, result.Staff, 1)
	assert.Equal(t, "u9", result.Staff[0].UserID)
	assert.Equal(t, 1, result.Totals.EventCount)
}

func TestComputePayroll_EventCountCountsAssignments(t *testing.T) {
	t.Parallel()
	jane := hourlyStaff("u10", "Jane", "Jones", 20)

	// Two assignments on the SAME event: event_count is 2, mirroring the
	// assignment-counting behavior callers already rely on. Deduplicating by
	// event would be a product decision, not a bug fix.
	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", jane, strPtr("09:00"), strPtr("11:00")),
			shift("a2", "e1", "ed2", jane, strPtr("13:00"), strPtr("15:00")),
		},
	}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 1)
	assert.Equal(t, 2, result.Staff[0].EventCount)
	assert.Equal(t, 2, result.Totals.EventCount)
}

func TestComputePayroll_StaffSortedByLastThenFirstName(t *testing.T) {
	t.Parallel()
	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", hourlyStaff("u1", "Zoe", "brown", 20), strPtr("09:00"), strPtr("10:00")),
			shift("a2", "e1", "ed1", hourlyStaff("u2", "Amy", "Brown", 20), strPtr("09:00"), strPtr("10:00")),
			shift("a3", "e1", "ed1", hourlyStaff("u3", "Cal", "Adams", 20), strPtr("09:00"), strPtr("10:00")),
		},
	}
	svc := newTestService(repo, &stubResolver{})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	require.Len(t, result.Staff, 3)
	assert.Equal(t, "u3", result.Staff[0].UserID) // Adams
	assert.Equal(t, "u2", result.Staff[1].UserID) // Amy Brown
	assert.Equal(t, "u1", result.Staff[2].UserID) // Zoe brown (case-insensitive)
}

func TestComputePayroll_SameNameStaffOrderedByID(t *testing.T) {
	t.Parallel()
	// Two distinct users sharing a full name must come back in a fixed
	// order no matter how the per-user map iterates.
	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", hourlyStaff("u2", "John", "Smith", 20), strPtr("09:00"), strPtr("10:00")),
			shift("a2", "e1", "ed1", hourlyStaff("u1", "John", "Smith", 20), strPtr("09:00"), strPtr("10:00")),
		},
	}
	svc := newTestService(repo, &stubResolver{})

	for run := 0; run < 20; run++ {
		result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
		require.NoError(t, err)
		require.Len(t, result.Staff, 2)
		assert.Equal(t, "u1", result.Staff[0].UserID, "run %d", run)
		assert.Equal(t, "u2", result.Staff[1].UserID, "run %d", run)
	}
}

func TestComputePayroll_Deterministic(t *testing.T) {
	t.Parallel()
	kate := hourlyStaff("u1", "Kate", "Kim", 22)
	kate.MileageEnabled = true
	kate.MileageRate = decimal.NewFromFloat(0.655)
	kate.HomeLatitude = floatPtr(40.7128)
	kate.HomeLongitude = floatPtr(-74.0060)

	leo := flatWhiteLabel("u2", "Leo", "Lane", 175)

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", kate, strPtr("08:30"), strPtr("16:15")),
			shift("a2", "e2", "ed2", leo, nil, nil),
		},
		locations: map[string]payroll.Location{
			"ed1": {ID: "l1", Name: "Venue One", Latitude: floatPtr(40.758), Longitude: floatPtr(-73.9855)},
		},
		adjustments: map[string]decimal.Decimal{"u2": decimal.NewFromInt(-10)},
	}
	svc := newTestService(repo, &stubResolver{miles: 9.25})

	first, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)
	second, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputePayroll_Invariants(t *testing.T) {
	t.Parallel()
	mia := hourlyStaff("u1", "Mia", "Moss", 18)
	mia.MileageEnabled = true
	mia.MileageRate = decimal.NewFromFloat(0.5)
	mia.HomeLatitude = floatPtr(40.7128)
	mia.HomeLongitude = floatPtr(-74.0060)

	repo := &fakePayrollRepo{
		assignments: []payroll.ShiftAssignment{
			shift("a1", "e1", "ed1", mia, strPtr("09:00"), strPtr("12:30")),
			shift("a2", "e2", "ed1", mia, strPtr("14:00"), strPtr("18:00")),
		},
		locations: map[string]payroll.Location{
			"ed1": {ID: "l1", Name: "Venue One", Latitude: floatPtr(40.758), Longitude: floatPtr(-73.9855)},
		},
		adjustments: map[string]decimal.Decimal{"u1": decimal.NewFromInt(12)},
	}
	svc := newTestService(repo, &stubResolver{miles: 4})

	result, err := svc.ComputePayroll(authedContext(t, "c1"), explicitPeriodRequest())
	require.NoError(t, err)
	require.Len(t, result.Staff, 1)
	entry := result.Staff[0]

	// hourlyPay == totalHours * hourlyRate
	expectedHourly := entry.HourlyRate.Mul(decimal.NewFromFloat(entry.TotalHours))
	assert.True(t, entry.HourlyPay.Equal(expectedHourly), "hourlyPay %s != hours*rate %s", entry.HourlyPay, expectedHourly)

	// totalPay == hourlyPay + mileagePay + flatRatePay + reimbursements
	expectedTotal := entry.HourlyPay.Add(entry.MileagePay).Add(entry.FlatRatePay).Add(entry.Reimbursements)
	assert.True(t, entry.TotalPay.Equal(expectedTotal))

	// totals.totalPay == sum of staff totalPay
	assert.True(t, result.Totals.TotalPay.Equal(entry.TotalPay))
}

// ===== SERVICE PLUMBING =====

func TestComputePayroll_RequiresCompanyClaim(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakePayrollRepo{}, &stubResolver{})

	_, err := svc.ComputePayroll(context.Background(), explicitPeriodRequest())
	assert.Error(t, err)
}

func TestComputePayroll_ValidatesPeriodDates(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakePayrollRepo{}, &stubResolver{})

	req := payroll.ComputePayrollRequest{
		PeriodStart: strPtr("not-a-date"),
		PeriodEnd:   strPtr("2025-01-12"),
	}
	_, err := svc.ComputePayroll(authedContext(t, "c1"), req)
	assert.Error(t, err)
}

func TestGetPeriodOptions(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakePayrollRepo{}, &stubResolver{})

	options, err := svc.GetPeriodOptions(authedContext(t, "c1"))
	require.NoError(t, err)

	require.Len(t, options, periodLookbackWeeks)
	assert.Equal(t, "2025-01-06", options[0].StartDate)
	assert.Equal(t, "2025-01-12", options[0].EndDate)
	assert.Equal(t, "2025-01-17", options[0].PayoutDate)
	assert.Equal(t, "2024-12-30", options[1].StartDate)
}
