package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/routing"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	distances   routing.DistanceResolver
	logger      *slog.Logger

	// now is swappable for tests; defaults to time.Now
	now func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	distances routing.DistanceResolver,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		distances:   distances,
		logger:      logger,
		now:         time.Now,
	}
}

// Helper to get company_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", payroll.ErrCompanyIDRequired
	}

	return companyID, nil
}

// ComputePayroll implements payroll.PayrollService. The computation is a pure
// fold over records fetched fresh for this request; running it twice on the
// same inputs yields identical results.
func (s *PayrollServiceImpl) ComputePayroll(ctx context.Context, req payroll.ComputePayrollRequest) (payroll.PayrollResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResult{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResult{}, err
	}

	period, err := resolvePeriod(req.PeriodStart, req.PeriodEnd, s.now())
	if err != nil {
		return payroll.PayrollResult{}, err
	}

	assignments, err := s.payrollRepo.GetAssignmentsInPeriod(ctx, companyID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to get assignments for period: %w", err)
	}

	eventDateIDs := make([]string, 0, len(assignments))
	seen := make(map[string]bool)
	for _, a := range assignments {
		if !seen[a.EventDateID] {
			seen[a.EventDateID] = true
			eventDateIDs = append(eventDateIDs, a.EventDateID)
		}
	}

	locations := map[string]payroll.Location{}
	if len(eventDateIDs) > 0 {
		locations, err = s.payrollRepo.GetLocationsByEventDateIDs(ctx, companyID, eventDateIDs)
		if err != nil {
			return payroll.PayrollResult{}, fmt.Errorf("failed to get locations: %w", err)
		}
	}

	adjustments, err := s.payrollRepo.GetAdjustmentsForPeriod(ctx, companyID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to get adjustments: %w", err)
	}

	// Tag every log line from this run so concurrent computations stay
	// distinguishable.
	runLogger := s.logger.With(slog.String("payroll_run_id", uuid.NewString()))

	calc := newCalculator(newDistanceCache(s.distances), runLogger)
	entries := calc.buildEntries(ctx, assignments, locations, adjustments)

	return payroll.PayrollResult{
		Period: periodResponse(period),
		Staff:  entries,
		Totals: summarize(entries),
	}, nil
}

// GetPeriodOptions implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriodOptions(ctx context.Context) ([]payroll.PeriodResponse, error) {
	if _, err := getClaimsFromContext(ctx); err != nil {
		return nil, err
	}

	options := periodOptions(s.now())
	result := make([]payroll.PeriodResponse, 0, len(options))
	for _, p := range options {
		result = append(result, periodResponse(p))
	}
	return result, nil
}
