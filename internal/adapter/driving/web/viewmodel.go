package web

import (
	"strings"

	vm "github.com/ericfisherdev/contacttriage/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/contacttriage/internal/application"
	"github.com/ericfisherdev/contacttriage/internal/domain/model"
)

// toCredentialFormViewModel converts the form state to its view model.
func toCredentialFormViewModel(view application.FormView) vm.CredentialFormViewModel {
	return vm.CredentialFormViewModel{
		Open:        view.Open,
		Input:       view.Input,
		Saved:       view.Status == application.FormStatusSaved,
		ShowClear:   view.ShowClear,
		CanSave:     view.CanSave,
		SettleDelay: application.SavedResetDelay.String(),
	}
}

// toCredentialStatusViewModel describes where the authoritative credential
// comes from without exposing it.
func toCredentialStatusViewModel(source model.CredentialSource) vm.CredentialStatusViewModel {
	label := "No API key"
	switch source {
	case model.CredentialSourceStore:
		label = "API key saved"
	case model.CredentialSourceEnv:
		label = "API key from environment"
	}

	configured := source != model.CredentialSourceNone
	badge := "badge-missing"
	if configured {
		badge = "badge-ok"
	}

	return vm.CredentialStatusViewModel{
		Configured: configured,
		Source:     string(source),
		Label:      label,
		BadgeClass: badge,
	}
}

// toClassificationViewModel converts a classification for display. The
// suggested action is rendered as sanitized markdown.
func toClassificationViewModel(message string, c model.Classification) vm.ClassificationViewModel {
	return vm.ClassificationViewModel{
		Message:             message,
		Category:            c.Category,
		Priority:            c.Priority,
		PriorityClass:       priorityClass(c.Priority),
		Sentiment:           c.Sentiment,
		SuggestedAction:     c.SuggestedAction,
		SuggestedActionHTML: RenderMarkdown(c.SuggestedAction),
	}
}

func priorityClass(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return "priority-high"
	case "low":
		return "priority-low"
	default:
		return "priority-medium"
	}
}
