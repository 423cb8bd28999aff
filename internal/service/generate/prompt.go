package generate

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed master-prompt.md
var defaultPromptTemplate string

const (
	historyPlaceholder = "{{PROFESSIONAL_HISTORY}}"
	jobPlaceholder     = "{{JOB_DESCRIPTION}}"
)

// loadPromptTemplate returns the prompt template: the file at path when
// given, the embedded default otherwise. The template's structure is not
// validated beyond placeholder substitution at build time.
func loadPromptTemplate(path string) (string, error) {
	if path == "" {
		return defaultPromptTemplate, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("prompt template: %w", err)
	}
	return string(raw), nil
}

// buildPrompt interpolates the history document and the job description
// into the template.
func buildPrompt(template, history, jobDescription string) string {
	prompt := strings.Replace(template, historyPlaceholder, history, 1)
	return strings.Replace(prompt, jobPlaceholder, jobDescription, 1)
}
