package session

import (
	"time"

	"github.com/Skotchmaster/catalog_panel/pkg/tokens"
)

type TokenState int

const (
	TokenMissing TokenState = iota
	TokenMalformed
	TokenExpired
	TokenValid
)

func (s TokenState) String() string {
	switch s {
	case TokenMissing:
		return "missing"
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	case TokenValid:
		return "valid"
	}
	return "unknown"
}

// InspectToken classifies a token by presence, payload decoding and exp.
func InspectToken(token string, now time.Time) TokenState {
	if token == "" {
		return TokenMissing
	}
	claims, err := tokens.ClaimsFromTokenUnverified(token)
	if err != nil {
		return TokenMalformed
	}
	if tokens.Expired(claims, now) {
		return TokenExpired
	}
	return TokenValid
}
