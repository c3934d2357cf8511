// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/contacttriage/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/contacttriage/internal/adapter/driving/web/templates/components"
	"github.com/ericfisherdev/contacttriage/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/contacttriage/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/contacttriage/internal/application"
)

// credentialChangedEvent is triggered on the client whenever the active
// credential may have changed, so dependent fragments re-fetch themselves.
const credentialChangedEvent = "credential-changed"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	creds      *application.CredentialService
	form       *application.CredentialForm
	classifier *application.ClassifierService
	logger     *slog.Logger

	// settled is set by the form's settled hook and consumed by the next
	// settle poll, which announces the change to the page exactly once.
	settled atomic.Bool
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	creds *application.CredentialService,
	form *application.CredentialForm,
	classifier *application.ClassifierService,
	logger *slog.Logger,
) *Handler {
	h := &Handler{
		creds:      creds,
		form:       form,
		classifier: classifier,
		logger:     logger,
	}
	form.OnSettled(func() {
		logger.Info("credential form settled")
		h.settled.Store(true)
	})

	return h
}

// Dashboard renders the main dashboard page with the full HTML layout.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	csrfToken(w, r)

	_, source := h.creds.ResolveWithSource(r.Context())
	component := pages.Dashboard(vm.DashboardViewModel{
		Status: toCredentialStatusViewModel(source),
	})
	h.render(w, r, templates.Layout("Contact Triage", component), "dashboard")
}

// OpenCredentialForm opens the credential modal populated with the stored key.
func (h *Handler) OpenCredentialForm(w http.ResponseWriter, r *http.Request) {
	h.form.Open(r.Context())
	h.renderForm(w, r)
}

// SaveCredential stores the submitted key. Blank input re-renders the form
// unchanged.
func (h *Handler) SaveCredential(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	h.form.SetInput(r.FormValue("api_key"))
	if _, err := h.form.Save(r.Context()); err != nil {
		h.logger.Error("failed to save credential", "error", err)
		http.Error(w, "failed to save credential", http.StatusInternalServerError)
		return
	}

	h.renderForm(w, r)
}

// ClearCredential deletes the stored key and resets the form.
func (h *Handler) ClearCredential(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	if err := h.form.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear credential", "error", err)
		http.Error(w, "failed to clear credential", http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Trigger", credentialChangedEvent)
	h.renderForm(w, r)
}

// CloseCredentialForm hides the modal without saving.
func (h *Handler) CloseCredentialForm(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	h.form.Close()
	h.renderForm(w, r)
}

// SettleCredentialForm is polled by the saved fragment. Once the form has
// settled, it returns the closed form and signals the change to the rest of
// the page; until then it re-renders the saved form, which polls again.
func (h *Handler) SettleCredentialForm(w http.ResponseWriter, r *http.Request) {
	if h.settled.CompareAndSwap(true, false) {
		w.Header().Set("HX-Trigger", credentialChangedEvent)
	}
	h.renderForm(w, r)
}

// CredentialStatus renders the header badge.
func (h *Handler) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	_, source := h.creds.ResolveWithSource(r.Context())
	h.render(w, r, components.CredentialStatus(toCredentialStatusViewModel(source)), "credential status")
}

// Classify classifies the submitted message and renders the result card.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	message := r.FormValue("message")
	result := h.classifier.Classify(r.Context(), message)
	h.render(w, r, components.ClassificationCard(toClassificationViewModel(message, result)), "classification")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, components.CredentialModal(toCredentialFormViewModel(h.form.View())), "credential form")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render "+name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
