package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Dashboard)

	// Credential modal fragments.
	mux.HandleFunc("GET /app/credential", h.OpenCredentialForm)
	mux.HandleFunc("POST /app/credential", h.SaveCredential)
	mux.HandleFunc("DELETE /app/credential", h.ClearCredential)
	mux.HandleFunc("POST /app/credential/close", h.CloseCredentialForm)
	mux.HandleFunc("GET /app/credential/settle", h.SettleCredentialForm)
	mux.HandleFunc("GET /app/credential/status", h.CredentialStatus)

	// Classification.
	mux.HandleFunc("POST /app/classify", h.Classify)
}
