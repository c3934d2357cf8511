package gemini

import "google.golang.org/genai"

// BuildPrompt embeds message verbatim in the analysis instruction.
func BuildPrompt(message string) string {
	return "Analyze the following contact form message from a potential client for a digital agency. \n" +
		"          Message: \"" + message + "\""
}

// ResponseSchema declares the four required string fields of a
// model.Classification, with descriptions steering the vocabulary.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {
				Type:        genai.TypeString,
				Description: "The category of the inquiry (e.g., New Project, Job Application, Support, Partnership)",
			},
			"priority": {
				Type:        genai.TypeString,
				Description: "Estimated priority: High, Medium, Low",
			},
			"sentiment": {
				Type:        genai.TypeString,
				Description: "Tone of the message: Professional, Urgent, Casual, Angry",
			},
			"suggestedAction": {
				Type:        genai.TypeString,
				Description: "Brief recommended next step for the agency team.",
			},
		},
		Required:         []string{"category", "priority", "sentiment", "suggestedAction"},
		PropertyOrdering: []string{"category", "priority", "sentiment", "suggestedAction"},
	}
}
