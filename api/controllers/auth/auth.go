package auth

import (
	"net/http"

	"github.com/angelmondragon/gestor-pedidos/api/middleware"
	"github.com/angelmondragon/gestor-pedidos/api/responses"
	"github.com/angelmondragon/gestor-pedidos/api/validators"
	internalauth "github.com/angelmondragon/gestor-pedidos/internal/auth"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
)

const (
	msgInternal  = "Error interno del servidor"
	msgLoggedOut = "Sesión cerrada correctamente"
)

// Authenticate is the credential check used by the desktop client. It always
// answers 200; failures only flip authenticated and carry a message.
func Authenticate(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalauth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "auth.authenticate_failed", err)
			}
			message := msgInternal
			result = &internalauth.AuthResult{Authenticated: false, Message: &message}
		}
		responses.WriteOK(w, result)
	}
}

func Login(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalauth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, resp)
	}
}

// Logout revokes the session carried by the bearer token; it must run behind
// the auth middleware.
func Logout(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgLoggedOut})
	}
}
