package discord

import (
	"invitapp/internal/domain"
	"invitapp/internal/ports/output"
)

// DomainErrorMessage resolves err to a localized operator message. Errors
// without a domain code get the generic message.
func DomainErrorMessage(t output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	code := domain.Code(err)
	if code == "" {
		code = "internal"
	}
	return t.T(locale, "error."+code, nil)
}
