package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// AgentJWTClaims are the claims minted by the identity provider for
// vending agents. The service only verifies them with the shared
// secret, it never issues tokens itself.
type AgentJWTClaims struct {
	AgentID uint   `json:"agent_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
