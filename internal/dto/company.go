package dto

import "github.com/contaflow/tax_compliance_app/internal/core/domain"

// CreateCompanyRequest registers a client company.
type CreateCompanyRequest struct {
	Name   string           `json:"name" binding:"required"`
	Code   string           `json:"code" binding:"required"`
	CNPJ   string           `json:"cnpj" binding:"required"`
	Email  *string          `json:"email" binding:"omitempty,email"`
	Regime domain.TaxRegime `json:"regime" binding:"required,oneof=SIMPLES_NACIONAL LUCRO_PRESUMIDO LUCRO_REAL MEI"`
}
