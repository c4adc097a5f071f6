// Package email holds address helpers shared by the checkout and delivery paths.
package email

import (
	"net/mail"
	"strings"

	dErrors "cosmonumero/pkg/domain-errors"
)

const maxAddressLength = 254

// Normalize trims and lowercases an address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Validate accepts a bare addr-spec ("user@example.com"), rejecting display-name forms.
func Validate(address string) error {
	if address == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if len(address) > maxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "email is too long")
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address || parsed.Name != "" {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	at := strings.LastIndexByte(address, '@')
	if !strings.Contains(address[at+1:], ".") {
		return dErrors.New(dErrors.CodeValidation, "email domain is invalid")
	}
	return nil
}

// Mask keeps the first character of the local part and the domain, for logs.
func Mask(address string) string {
	at := strings.IndexByte(address, '@')
	if at <= 0 {
		return "***"
	}
	return address[:1] + "***" + address[at:]
}
