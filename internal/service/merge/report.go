package merge

// Tally counts what happened to one entity kind during reconciliation.
type Tally struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Report summarizes a reconciliation run, one tally per entity kind.
// It is surfaced to the user after an import.
type Report struct {
	Personal       Tally `json:"personal"`
	Settings       Tally `json:"settings"`
	Vagas          Tally `json:"vagas"`
	Curriculos     Tally `json:"curriculos"`
	Experiences    Tally `json:"experiences"`
	Education      Tally `json:"education"`
	Certifications Tally `json:"certifications"`
	Languages      Tally `json:"languages"`
}
