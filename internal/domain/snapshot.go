package domain

import "time"

// FormatVersion is the current backup envelope version. Version 1 envelopes
// (written before structured history existed) decode the same way, their
// history sections are simply empty.
const FormatVersion = 2

// Snapshot is the full dataset as carried by a backup file. The profile is
// held decrypted here; at-rest encryption is applied to the envelope as a
// whole, or not at all, by the backup codec.
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt,omitzero"`

	Personal       *Personal        `json:"personal"`
	Vagas          []*Vaga          `json:"vagas"`
	Curriculos     []*Curriculo     `json:"curriculos"`
	Experiences    []*Experience    `json:"experiences"`
	Education      []*Education     `json:"education"`
	Certifications []*Certification `json:"certifications"`
	Languages      []*Language      `json:"languages"`
	Settings       *Settings        `json:"settings"`
}
