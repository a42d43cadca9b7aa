package jwttoken

import "catalog/internal/platform/middleware"

// MiddlewareAdapter narrows Service to the middleware.TokenValidator
// interface without leaking the full claim structure.
type MiddlewareAdapter struct {
	svc *Service
}

func NewMiddlewareAdapter(svc *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		UserID: claims.UserID,
		Phone:  claims.Phone,
	}, nil
}
