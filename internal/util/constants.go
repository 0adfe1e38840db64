package util

const (
	// ContextSessionKey is the gin context key holding the *service.Session.
	ContextSessionKey = "session"
)
