package domain

import "time"

// History items carry a surrogate integer ID assigned by the store on first
// insert. A zero ID means "not yet stored". Date fields are "YYYY-MM" strings
// as entered by the user; they are compared lexically, never parsed into
// time.Time, so partial or empty values stay harmless.

// Experience is one professional history entry.
type Experience struct {
	ID          int64    `json:"id,omitempty"`
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Current     bool     `json:"current,omitempty"`
	Stack       []string `json:"stack,omitempty"`
	Description string   `json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// NaturalKey identifies the same real-world experience across devices.
// Empty when both company and role are blank; such items cannot be matched.
func (e *Experience) NaturalKey() string {
	if e.Company == "" && e.Role == "" {
		return ""
	}
	return e.Company + "|" + e.Role + "|" + e.StartDate
}

// Education is one academic history entry.
type Education struct {
	ID          int64  `json:"id,omitempty"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Notes       string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (e *Education) NaturalKey() string {
	if e.Institution == "" && e.Degree == "" {
		return ""
	}
	return e.Institution + "|" + e.Degree
}

// Certification is one certification entry.
type Certification struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	Date         string `json:"date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (c *Certification) NaturalKey() string {
	if c.Name == "" {
		return ""
	}
	return c.Name + "|" + c.Issuer
}

// Language is one language proficiency entry.
type Language struct {
	ID          int64  `json:"id,omitempty"`
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (l *Language) NaturalKey() string {
	return l.Language
}
