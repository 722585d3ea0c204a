package auth

// LoginRequest carries the credentials posted by the login form and API.
type LoginRequest struct {
	Username string `json:"usuario" validate:"required"`
	Password string `json:"clave" validate:"required"`
}

// AuthResult is the credential check outcome. Failed checks only carry Message.
type AuthResult struct {
	Authenticated bool    `json:"authenticated"`
	UserID        *int64  `json:"user_id"`
	DisplayName   *string `json:"nombre_usuario"`
	ProfileCode   *int64  `json:"codigo_perfil"`
	Message       *string `json:"message"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
	User        AuthResult `json:"usuario"`
}
