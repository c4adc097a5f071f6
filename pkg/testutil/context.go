package testutil

import (
	"net/http"

	"cosmonumero/pkg/requestcontext"
)

// WithReadingAccess does what the token middleware does for a valid token.
func WithReadingAccess(req *http.Request, externalReference string) *http.Request {
	if externalReference == "" {
		return req
	}
	return req.WithContext(requestcontext.WithExternalReference(req.Context(), externalReference))
}

// WithClientIP sets the address the rate limiter keys on.
func WithClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "testutil"))
}
