package prompts

import (
	_ "embed"
)

//go:embed system.txt
var AssistantSystemPrompt string

//go:embed analysis.txt
var AnalysisPrompt string
