package payroll

import "github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"

// effectivePayType resolves the pay type for one assignment. Precedence,
// highest first: assignment-level override, user's configured default, then
// the user-type fallback (staff pays hourly, white-label pays flat-rate).
func effectivePayType(userDefault *payroll.PayType, userType payroll.UserType, override *payroll.PayType) payroll.PayType {
	if override != nil {
		return *override
	}
	if userDefault != nil {
		return *userDefault
	}
	if userType == payroll.UserTypeWhiteLabel {
		return payroll.PayTypeFlatRate
	}
	return payroll.PayTypeHourly
}
