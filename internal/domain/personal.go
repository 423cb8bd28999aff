package domain

import "time"

// Personal holds the user's profile. Exactly one instance exists once saved
// (singleton key "data" in the store) and it is encrypted at rest.
//
// The Include* flags control which fields the generated resume exposes;
// name and email are always included.
type Personal struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Remote    bool   `json:"remote,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`

	IncludeName      bool `json:"include_name"`
	IncludeEmail     bool `json:"include_email"`
	IncludePhone     bool `json:"include_phone"`
	IncludeCity      bool `json:"include_city"`
	IncludeState     bool `json:"include_state"`
	IncludeRemote    bool `json:"include_remote"`
	IncludeLinkedIn  bool `json:"include_linkedin"`
	IncludeGitHub    bool `json:"include_github"`
	IncludePortfolio bool `json:"include_portfolio"`

	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Validate checks the required profile fields.
func (p *Personal) Validate() error {
	var errs []FieldError
	if p.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	}
	if p.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "is required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
