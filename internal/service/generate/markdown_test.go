package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"curriculos/internal/domain"
)

func TestFormatYearMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"2024", "2024"},
		{"2024-01", "Jan/2024"},
		{"2023-12", "Dez/2023"},
		{"2020-05", "Mai/2020"},
		{"not-a-date", "not-a-date"},
		{"2024-13", "2024-13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatYearMonth(tt.in), "input %q", tt.in)
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", renderHistory(nil, nil, nil, nil))
}

func TestRenderHistory_AllSections(t *testing.T) {
	t.Parallel()

	got := renderHistory(
		[]*domain.Experience{{
			Role: "Backend Dev", Company: "Acme", Location: "Remoto",
			StartDate: "2020-01", Current: true,
			Stack:       []string{"Go", "SQL"},
			Description: "APIs internas.",
		}},
		[]*domain.Education{{
			Degree: "BSc Computação", Institution: "UFMG",
			StartDate: "2015-02", EndDate: "2019-12",
		}},
		[]*domain.Certification{{
			Name: "CKA", Issuer: "CNCF", Date: "2023-06", CredentialID: "abc123",
		}},
		[]*domain.Language{{Language: "Inglês", Proficiency: "Avançado"}},
	)

	assert.Contains(t, got, "## Experiência Profissional")
	assert.Contains(t, got, "### Backend Dev — Acme")
	assert.Contains(t, got, "Período: Jan/2020 – Atual")
	assert.Contains(t, got, "Stack: Go, SQL")
	assert.Contains(t, got, "## Formação Acadêmica")
	assert.Contains(t, got, "Período: Fev/2015 – Dez/2019")
	assert.Contains(t, got, "## Certificações")
	assert.Contains(t, got, "- CKA — CNCF (Jun/2023) [Credencial: abc123]")
	assert.Contains(t, got, "## Idiomas")
	assert.Contains(t, got, "- Inglês — Avançado")

	// Fixed section order.
	exp := "## Experiência Profissional"
	edu := "## Formação Acadêmica"
	cert := "## Certificações"
	lang := "## Idiomas"
	assert.Less(t, strings.Index(got, exp), strings.Index(got, edu))
	assert.Less(t, strings.Index(got, edu), strings.Index(got, cert))
	assert.Less(t, strings.Index(got, cert), strings.Index(got, lang))
}

func TestRenderHistory_OptionalFieldsOmitted(t *testing.T) {
	t.Parallel()

	got := renderHistory(
		[]*domain.Experience{{Role: "Dev", Company: "Acme"}},
		nil, nil, nil,
	)

	assert.Contains(t, got, "### Dev — Acme")
	assert.NotContains(t, got, "Período:")
	assert.NotContains(t, got, "Local:")
	assert.NotContains(t, got, "Stack:")
	assert.NotContains(t, got, "## Formação Acadêmica")
}
