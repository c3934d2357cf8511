package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedClassification is returned by ParseClassification when the body
// is not a JSON object carrying all four string fields.
var ErrMalformedClassification = errors.New("malformed classification")

// Classification is the four-field judgment produced about an inbound contact
// message. Field names on the wire match the response schema declared to the
// model.
type Classification struct {
	Category        string `json:"category"`
	Priority        string `json:"priority"`
	Sentiment       string `json:"sentiment"`
	SuggestedAction string `json:"suggestedAction"`
}

// ClassificationFields lists the required keys in schema order.
var ClassificationFields = []string{"category", "priority", "sentiment", "suggestedAction"}

// NoCredentialClassification is returned when no API key can be resolved.
func NoCredentialClassification() Classification {
	return Classification{
		Category:        "General Inquiry",
		Priority:        "Normal",
		Sentiment:       "Neutral",
		SuggestedAction: "Reply within 24 hours.",
	}
}

// FailureClassification is returned when the model call or its response fails.
func FailureClassification() Classification {
	return Classification{
		Category:        "Unknown",
		Priority:        "Medium",
		Sentiment:       "Neutral",
		SuggestedAction: "Manual review required.",
	}
}

// ParseClassification decodes a model response body. The body must be a JSON
// object in which every field of ClassificationFields is present and holds a
// JSON string; unknown fields are ignored.
func ParseClassification(body []byte) (Classification, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Classification{}, fmt.Errorf("%w: %w", ErrMalformedClassification, err)
	}
	if raw == nil {
		return Classification{}, fmt.Errorf("%w: not an object", ErrMalformedClassification)
	}

	values := make(map[string]string, len(ClassificationFields))
	for _, field := range ClassificationFields {
		v, ok := raw[field]
		if !ok {
			return Classification{}, fmt.Errorf("%w: missing field %q", ErrMalformedClassification, field)
		}
		s, ok := v.(string)
		if !ok {
			return Classification{}, fmt.Errorf("%w: field %q is %T, want string", ErrMalformedClassification, field, v)
		}
		values[field] = s
	}

	return Classification{
		Category:        values["category"],
		Priority:        values["priority"],
		Sentiment:       values["sentiment"],
		SuggestedAction: values["suggestedAction"],
	}, nil
}
