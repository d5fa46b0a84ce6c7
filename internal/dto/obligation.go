package dto

import (
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateObligationRequest is the payload for registering a new obligation.
type CreateObligationRequest struct {
	CompanyID      string           `json:"companyID" binding:"required"`
	TaxType        *string          `json:"taxType"`
	Title          string           `json:"title" binding:"required"`
	Regime         domain.TaxRegime `json:"regime" binding:"required,oneof=SIMPLES_NACIONAL LUCRO_PRESUMIDO LUCRO_REAL MEI"`
	PeriodStart    time.Time        `json:"periodStart" binding:"required"`
	PeriodEnd      time.Time        `json:"periodEnd" binding:"required"`
	DueDate        time.Time        `json:"dueDate" binding:"required"`
	Amount         *decimal.Decimal `json:"amount"`
	Notes          *string          `json:"notes"`
	ReferenceMonth string           `json:"referenceMonth" binding:"required,refmonth"`
}

// UpdateObligationRequest carries the mutable obligation fields. Status is
// explicitly set by the caller, never derived from the due date.
type UpdateObligationRequest struct {
	Title   *string                  `json:"title"`
	DueDate *time.Time               `json:"dueDate"`
	Status  *domain.ObligationStatus `json:"status" binding:"omitempty,oneof=PENDING SUBMITTED LATE PAID CANCELED"`
	Amount  *decimal.Decimal         `json:"amount"`
	Notes   *string                  `json:"notes"`
}

// SetNotApplicableRequest marks an obligation NOT_APPLICABLE; the reason is mandatory.
type SetNotApplicableRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ObligationResponse is the API shape of an obligation.
type ObligationResponse struct {
	ObligationID        string                  `json:"obligationID"`
	CompanyID           string                  `json:"companyID"`
	TaxType             *string                 `json:"taxType,omitempty"`
	Title               string                  `json:"title"`
	Regime              domain.TaxRegime        `json:"regime"`
	PeriodStart         time.Time               `json:"periodStart"`
	PeriodEnd           time.Time               `json:"periodEnd"`
	DueDate             time.Time               `json:"dueDate"`
	Status              domain.ObligationStatus `json:"status"`
	Amount              *decimal.Decimal        `json:"amount,omitempty"`
	Meta                domain.ObligationMeta   `json:"meta"`
	NotApplicableReason *string                 `json:"notApplicableReason,omitempty"`
	ReferenceMonth      string                  `json:"referenceMonth"`
	CreatedAt           time.Time               `json:"createdAt"`
}

// ToObligationResponse maps a domain obligation to its API shape.
func ToObligationResponse(o *domain.Obligation) ObligationResponse {
	resp := ObligationResponse{
		ObligationID:        o.ObligationID,
		CompanyID:           o.CompanyID,
		TaxType:             o.TaxType,
		Title:               o.Title,
		Regime:              o.Regime,
		PeriodStart:         o.PeriodStart,
		PeriodEnd:           o.PeriodEnd,
		DueDate:             o.DueDate,
		Status:              o.Status,
		Meta:                domain.DecodeObligationMeta(o.Notes),
		NotApplicableReason: o.NotApplicableReason,
		ReferenceMonth:      o.ReferenceMonth,
		CreatedAt:           o.CreatedAt,
	}
	if o.Amount.Valid {
		amt := o.Amount.Decimal
		resp.Amount = &amt
	}
	return resp
}
