package domain

// Company is a client of the accounting firm, or the firm itself
// (IsAccountingFirm). The firm record's email is the default sender address
// for outbound notifications.
type Company struct {
	CompanyID        string    `json:"companyID"`
	Name             string    `json:"name"`
	Code             string    `json:"code"` // short internal code, e.g. "C042"
	CNPJ             string    `json:"cnpj"`
	Email            *string   `json:"email,omitempty"`
	Regime           TaxRegime `json:"regime"`
	IsAccountingFirm bool      `json:"isAccountingFirm"`
	AuditFields
}
