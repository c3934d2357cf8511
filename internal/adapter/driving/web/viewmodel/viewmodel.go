// Package viewmodel defines the view models rendered by the web templates.
package viewmodel

// CredentialFormViewModel is the credential entry modal.
type CredentialFormViewModel struct {
	Open      bool
	Input     string
	Saved     bool
	ShowClear bool
	CanSave   bool
	// SettleDelay is the htmx delay before the settle endpoint is polled, e.g. "1s".
	SettleDelay string
}

// CredentialStatusViewModel is the header badge describing the active credential.
type CredentialStatusViewModel struct {
	Configured bool
	// Source is "store", "env" or "none".
	Source     string
	Label      string
	BadgeClass string
}

// ClassificationViewModel is a rendered classification result.
type ClassificationViewModel struct {
	Message             string
	Category            string
	Priority            string
	PriorityClass       string
	Sentiment           string
	SuggestedAction     string
	SuggestedActionHTML string
}

// DashboardViewModel is the main page.
type DashboardViewModel struct {
	Status CredentialStatusViewModel
}
