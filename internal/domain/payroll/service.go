package payroll

import "context"

type PayrollService interface {
	// ComputePayroll runs the full payroll computation for the requesting
	// company over the given period (or the last completed week when no
	// explicit period is supplied). Recomputed on every call; nothing is
	// persisted.
	ComputePayroll(ctx context.Context, req ComputePayrollRequest) (PayrollResult, error)

	// GetPeriodOptions lists recent selectable weekly periods, most recent
	// first, for the period-picker UI.
	GetPeriodOptions(ctx context.Context) ([]PeriodResponse, error)
}
