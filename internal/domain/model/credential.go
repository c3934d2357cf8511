package model

// GeminiService is the fixed store key under which the Gemini API key lives.
const GeminiService = "gemini"

// CredentialSource reports where the authoritative credential came from.
type CredentialSource string

const (
	CredentialSourceStore CredentialSource = "store"
	CredentialSourceEnv   CredentialSource = "env"
	CredentialSourceNone  CredentialSource = "none"
)
