package domain

import (
	"encoding/json"
	"time"
)

// VagaStatus is the lifecycle state of a tracked job listing.
type VagaStatus string

const (
	StatusCreated     VagaStatus = "created"
	StatusApplied     VagaStatus = "applied"
	StatusInterview   VagaStatus = "interview"
	StatusRejected    VagaStatus = "rejected"
	StatusWithdrew    VagaStatus = "withdrew"
	StatusNotSelected VagaStatus = "not_selected"
)

// Valid reports whether s is one of the known statuses.
func (s VagaStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusApplied, StatusInterview, StatusRejected,
		StatusWithdrew, StatusNotSelected:
		return true
	}
	return false
}

// Vaga is a tracked job listing. The UUID is generated client-side at
// creation time and never changes; it is also the natural key linking the
// listing to its generated curriculo.
type Vaga struct {
	UUID      string     `json:"uuid"`
	Empresa   string     `json:"empresa"`
	Cargo     string     `json:"cargo"`
	Descricao string     `json:"descricao"`
	Status    VagaStatus `json:"status"`

	// Eligibility caches the last eligibility assessment produced during
	// curriculo generation, so list views don't need to load the curriculo.
	Eligibility json.RawMessage `json:"_eligibility,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// VagaPatch is a partial update to a Vaga. Nil fields are left unchanged.
type VagaPatch struct {
	Empresa     *string
	Cargo       *string
	Descricao   *string
	Status      *VagaStatus
	Eligibility json.RawMessage
}

// Apply merges the patch into v field by field.
func (p VagaPatch) Apply(v *Vaga) {
	if p.Empresa != nil {
		v.Empresa = *p.Empresa
	}
	if p.Cargo != nil {
		v.Cargo = *p.Cargo
	}
	if p.Descricao != nil {
		v.Descricao = *p.Descricao
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.Eligibility != nil {
		v.Eligibility = p.Eligibility
	}
}

// Validate checks patch fields that carry constraints.
func (p VagaPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status", "unknown status value")
	}
	return nil
}

// Curriculo is the generated resume document for one vaga. It has no
// lifecycle of its own: it shares the vaga's UUID and is removed when the
// vaga is deleted. Eligibility and Body are opaque LLM output.
type Curriculo struct {
	VagaUUID    string          `json:"vaga_uuid"`
	Eligibility json.RawMessage `json:"elegibilidade,omitempty"`
	Body        json.RawMessage `json:"curriculo,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitzero"`
}
