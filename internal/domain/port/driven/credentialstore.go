package driven

import (
	"context"
	"errors"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore.Get when a stored value
// was written encrypted but CONTACTTRIAGE_SECRET_KEY is no longer configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set CONTACTTRIAGE_SECRET_KEY")

// CredentialStore defines the driven port for credential persistence, keyed by
// service name. The adapter layer is responsible for any encryption; this
// interface operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the credential for the given service.
	Set(ctx context.Context, service, plaintext string) error

	// Get retrieves the plaintext credential for the given service.
	// Returns ("", nil) if no credential exists for that service.
	Get(ctx context.Context, service string) (string, error)

	// Delete removes the credential for the given service. Deleting a
	// missing credential is not an error.
	Delete(ctx context.Context, service string) error
}
