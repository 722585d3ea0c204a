package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      int64
	Username    string
	ProfileCode int64
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"usuario"`
	ProfileCode int64  `json:"codigo_perfil"`
	jwt.RegisteredClaims
}
