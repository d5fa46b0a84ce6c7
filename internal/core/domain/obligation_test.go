package domain_test

import (
	"testing"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecodeObligationMeta(t *testing.T) {
	valid := `{"companyCode":"C042","companyName":"Acme Ltda","docType":"DAS","competence":"06/2025"}`
	malformed := `{invalid-json`
	empty := ""

	t.Run("valid payload", func(t *testing.T) {
		meta := domain.DecodeObligationMeta(&valid)
		assert.Equal(t, "C042", meta.CompanyCode)
		assert.Equal(t, "Acme Ltda", meta.CompanyName)
		assert.Equal(t, "DAS", meta.DocType)
		assert.Equal(t, "06/2025", meta.Competence)
	})

	t.Run("malformed payload yields zero meta", func(t *testing.T) {
		meta := domain.DecodeObligationMeta(&malformed)
		assert.Equal(t, domain.ObligationMeta{}, meta)
	})

	t.Run("empty and nil notes yield zero meta", func(t *testing.T) {
		assert.Equal(t, domain.ObligationMeta{}, domain.DecodeObligationMeta(&empty))
		assert.Equal(t, domain.ObligationMeta{}, domain.DecodeObligationMeta(nil))
	})

	t.Run("partial payload keeps decoded fields", func(t *testing.T) {
		partial := `{"docType":"FGTS"}`
		meta := domain.DecodeObligationMeta(&partial)
		assert.Equal(t, "FGTS", meta.DocType)
		assert.Empty(t, meta.CompanyCode)
	})
}

func TestObligationStatus(t *testing.T) {
	assert.True(t, domain.StatusCanceled.IsTerminal())
	assert.True(t, domain.StatusNotApplicable.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusPaid.IsTerminal())

	assert.True(t, domain.ValidObligationStatus(domain.StatusSubmitted))
	assert.False(t, domain.ValidObligationStatus(domain.ObligationStatus("BOGUS")))
}
