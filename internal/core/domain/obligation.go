package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ObligationStatus indicates the filing state of a tax obligation.
// Statuses are set explicitly by users; the system never derives them from the
// due date after creation. NOT_APPLICABLE is the only automatic override path
// and requires an accounting-role actor plus a reason.
type ObligationStatus string

const (
	StatusPending       ObligationStatus = "PENDING"
	StatusSubmitted     ObligationStatus = "SUBMITTED"
	StatusLate          ObligationStatus = "LATE"
	StatusPaid          ObligationStatus = "PAID"
	StatusCanceled      ObligationStatus = "CANCELED"
	StatusNotApplicable ObligationStatus = "NOT_APPLICABLE"
)

// TaxRegime is the fiscal regime the obligation was filed under.
type TaxRegime string

const (
	RegimeSimplesNacional TaxRegime = "SIMPLES_NACIONAL"
	RegimeLucroPresumido  TaxRegime = "LUCRO_PRESUMIDO"
	RegimeLucroReal       TaxRegime = "LUCRO_REAL"
	RegimeMEI             TaxRegime = "MEI"
)

// Obligation is one expected or actual tax filing for a company in a period.
type Obligation struct {
	ObligationID        string              `json:"obligationID"`
	CompanyID           string              `json:"companyID"`
	TaxType             *string             `json:"taxType,omitempty"`
	Title               string              `json:"title"`
	Regime              TaxRegime           `json:"regime"`
	PeriodStart         time.Time           `json:"periodStart"`
	PeriodEnd           time.Time           `json:"periodEnd"`
	DueDate             time.Time           `json:"dueDate"`
	Status              ObligationStatus    `json:"status"`
	Amount              decimal.NullDecimal `json:"amount"`
	Notes               *string             `json:"notes,omitempty"`
	NotApplicableReason *string             `json:"notApplicableReason,omitempty"`
	ReferenceMonth      string              `json:"referenceMonth"` // YYYY-MM
	AuditFields
}

// ObligationMeta is the structured display payload carried on the notes
// side-channel. All fields default to empty strings when the payload is
// absent or malformed.
type ObligationMeta struct {
	CompanyCode string `json:"companyCode"`
	CompanyName string `json:"companyName"`
	DocType     string `json:"docType"`
	Competence  string `json:"competence"`
}

// DecodeObligationMeta decodes the notes side-channel into an ObligationMeta.
// Malformed or missing JSON yields a zero-valued struct, never an error.
func DecodeObligationMeta(notes *string) ObligationMeta {
	var meta ObligationMeta
	if notes == nil || *notes == "" {
		return meta
	}
	if err := json.Unmarshal([]byte(*notes), &meta); err != nil {
		return ObligationMeta{}
	}
	return meta
}

// IsTerminal reports whether the status ends the obligation lifecycle.
func (s ObligationStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusNotApplicable
}

// ValidObligationStatus reports whether s is a known status value.
func ValidObligationStatus(s ObligationStatus) bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusLate, StatusPaid, StatusCanceled, StatusNotApplicable:
		return true
	}
	return false
}
