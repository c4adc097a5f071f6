package jwttoken

import (
	authmw "cosmonumero/pkg/platform/middleware/auth"
)

// JWTServiceAdapter narrows JWTService to the auth middleware's TokenValidator
// so the middleware only sees the reference and token id.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.Claims{
		ExternalReference: claims.ExternalReference,
		JTI:               claims.ID,
	}, nil
}
