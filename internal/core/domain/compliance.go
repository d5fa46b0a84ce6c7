package domain

// MonthlyControlObligation is an obligation annotated with whether it has at
// least one attached file, as surfaced by the monthly control report.
type MonthlyControlObligation struct {
	Obligation
	HasFile bool `json:"hasFile"`
}

// MonthlyControlResult is the outcome of comparing a company's expected tax
// types against its actual obligations for a reference month. CompletionRate
// is always in [0,1] and is 1 when nothing is expected.
type MonthlyControlResult struct {
	CompanyID      string                     `json:"companyID"`
	CompanyName    *string                    `json:"companyName,omitempty"`
	ReferenceMonth string                     `json:"referenceMonth"`
	ExpectedTaxes  []string                   `json:"expectedTaxes"`
	Obligations    []MonthlyControlObligation `json:"obligations"`
	Missing        []string                   `json:"missing"`
	CompletionRate float64                    `json:"completionRate"`
}
