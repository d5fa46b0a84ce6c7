package domain

// CompanyTaxProfile declares one tax type a company is expected to file.
// Uniqueness is (CompanyID, TaxType); removal is a soft deactivation so the
// history of what was once expected survives.
type CompanyTaxProfile struct {
	ProfileID string `json:"profileID"`
	CompanyID string `json:"companyID"`
	TaxType   string `json:"taxType"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}
