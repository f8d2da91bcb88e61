package payroll

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrCompanyIDRequired = errors.New("company_id claim is missing or invalid")
)
