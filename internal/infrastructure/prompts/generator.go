package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"goalhk/internal/domain/entity"
)

type AnalysisPromptData struct {
	Input    string
	Scenario string
	Category string
	Modes    []entity.ServiceMode
}

func GenerateAnalysisPrompt(baseTemplate string, data AnalysisPromptData) (string, error) {
	data.Input = strings.ReplaceAll(data.Input, `"`, `'`)

	tmpl, err := template.New("analysis").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
