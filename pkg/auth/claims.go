package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the analysis services. Subject
// identifies the calling client or user.
type Claims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes"`
}

// HasScope reports whether the token grants scope.
func (c Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// Scopes understood by the recalculation API.
const (
	ScopeRecalculationsRead  = "recalculations:read"
	ScopeRecalculationsWrite = "recalculations:write"
	ScopeReferenceSeriesRead = "reference-series:read"
)
