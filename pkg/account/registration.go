package account

import "strings"

// IsAlreadyRegisteredConflict reports whether an error from an
// idempotent setup call (public key or storage registration) means the
// registration already exists. The upstream contracts report conflicts
// as plain error text rather than a structured code, so the matching is
// isolated here.
func IsAlreadyRegisteredConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "already exists")
}
