package dto

import "github.com/contaflow/tax_compliance_app/internal/core/domain"

// RecordViewRequest registers one view or download event.
type RecordViewRequest struct {
	Action domain.ViewAction `json:"action" binding:"required,oneof=VIEW DOWNLOAD"`
}

// LedgerFilterQuery is the query-string filter for ledger endpoints.
// Dates are RFC 3339.
type LedgerFilterQuery struct {
	CompanyID *string `form:"companyId"`
	StartDate *string `form:"startDate"`
	EndDate   *string `form:"endDate"`
}
