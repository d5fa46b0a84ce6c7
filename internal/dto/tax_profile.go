package dto

import (
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// AddTaxProfileRequest activates one expected tax type for a company.
type AddTaxProfileRequest struct {
	TaxType string `json:"taxType" binding:"required"`
}

// ReplaceTaxProfilesRequest swaps the whole expected set of a company.
type ReplaceTaxProfilesRequest struct {
	TaxTypes []string `json:"taxTypes" binding:"required,dive,required"`
}

// TaxProfileResponse is the API shape of a tax-profile row.
type TaxProfileResponse struct {
	ProfileID string    `json:"profileID"`
	CompanyID string    `json:"companyID"`
	TaxType   string    `json:"taxType"`
	IsActive  bool      `json:"isActive"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToTaxProfileResponse maps a domain tax profile to its API shape.
func ToTaxProfileResponse(p domain.CompanyTaxProfile) TaxProfileResponse {
	return TaxProfileResponse{
		ProfileID: p.ProfileID,
		CompanyID: p.CompanyID,
		TaxType:   p.TaxType,
		IsActive:  p.IsActive,
		UpdatedAt: p.LastUpdatedAt,
	}
}
