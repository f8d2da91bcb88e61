package http

import (
	"net/http"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
	"github.com/eventstaffhq/crm-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// ComputePayroll returns the full payroll statement for a period
	ComputePayroll(w http.ResponseWriter, r *http.Request)

	// ListPeriods returns selectable payroll periods, most recent first
	ListPeriods(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.ComputePayrollRequest

	if v := r.URL.Query().Get("period_start"); v != "" {
		req.PeriodStart = &v
	}
	if v := r.URL.Query().Get("period_end"); v != "" {
		req.PeriodEnd = &v
	}

	result, err := h.payrollService.ComputePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPeriodOptions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
