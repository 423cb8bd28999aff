package generate

import (
	"fmt"
	"strconv"
	"strings"

	"curriculos/internal/domain"
)

var monthNames = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// formatYearMonth renders a "YYYY-MM" date as "Mai/2023". A bare year is
// returned as-is, anything unparseable is returned unchanged.
func formatYearMonth(s string) string {
	if s == "" {
		return ""
	}
	if len(s) == 4 {
		return s
	}
	year, month, ok := strings.Cut(s, "-")
	if !ok {
		return s
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return s
	}
	return monthNames[m-1] + "/" + year
}

// renderHistory flattens the structured history into the markdown document
// fed to the resume generator. Sections appear in fixed order; a kind with
// no items contributes nothing, and an entirely empty history yields "".
func renderHistory(
	experiences []*domain.Experience,
	education []*domain.Education,
	certifications []*domain.Certification,
	languages []*domain.Language,
) string {
	var b strings.Builder

	if len(experiences) > 0 {
		b.WriteString("## Experiência Profissional\n\n")
		for _, e := range experiences {
			fmt.Fprintf(&b, "### %s — %s\n", e.Role, e.Company)
			if period := experiencePeriod(e); period != "" {
				fmt.Fprintf(&b, "Período: %s\n", period)
			}
			if e.Location != "" {
				fmt.Fprintf(&b, "Local: %s\n", e.Location)
			}
			if len(e.Stack) > 0 {
				fmt.Fprintf(&b, "Stack: %s\n", strings.Join(e.Stack, ", "))
			}
			if e.Description != "" {
				b.WriteString(e.Description + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(education) > 0 {
		b.WriteString("## Formação Acadêmica\n\n")
		for _, e := range education {
			fmt.Fprintf(&b, "### %s — %s\n", e.Degree, e.Institution)
			if period := datePeriod(e.StartDate, e.EndDate); period != "" {
				fmt.Fprintf(&b, "Período: %s\n", period)
			}
			if e.Notes != "" {
				b.WriteString(e.Notes + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(certifications) > 0 {
		b.WriteString("## Certificações\n\n")
		for _, c := range certifications {
			line := "- " + c.Name
			if c.Issuer != "" {
				line += " — " + c.Issuer
			}
			if c.Date != "" {
				line += " (" + formatYearMonth(c.Date) + ")"
			}
			if c.CredentialID != "" {
				line += " [Credencial: " + c.CredentialID + "]"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(languages) > 0 {
		b.WriteString("## Idiomas\n\n")
		for _, l := range languages {
			line := "- " + l.Language
			if l.Proficiency != "" {
				line += " — " + l.Proficiency
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func experiencePeriod(e *domain.Experience) string {
	start := formatYearMonth(e.StartDate)
	if e.Current {
		if start == "" {
			return ""
		}
		return start + " – Atual"
	}
	return datePeriod(e.StartDate, e.EndDate)
}

func datePeriod(startDate, endDate string) string {
	start := formatYearMonth(startDate)
	end := formatYearMonth(endDate)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	}
	return start + " – " + end
}
