package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/gestor-pedidos/pkg/auth"
	"github.com/angelmondragon/gestor-pedidos/pkg/auth/session"
	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/security"
	"gorm.io/gorm"
)

const (
	msgWrongPassword = "Contraseña incorrecta"
	msgUnknownUser   = "Usuario no encontrado"
	msgQueryFailed   = "Error en la consulta"
)

// Service checks credentials and opens or closes login sessions.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type sessionManager interface {
	Open(ctx context.Context, userID int64) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// ServiceParams bundles the auth dependencies. Sessions is optional: without
// it tokens are stateless and logout is a no-op.
type ServiceParams struct {
	Repo      Repository
	Sessions  sessionManager
	JWTConfig config.JWTConfig
	Password  config.PasswordConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	repo     Repository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwdCfg   config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		sessions: params.Sessions,
		jwtCfg:   params.JWTConfig,
		pwdCfg:   params.Password,
		logg:     params.Logger,
		now:      params.Now,
	}, nil
}

// Authenticate distinguishes an unknown user from a wrong password. Legacy
// plaintext credentials are upgraded to argon2id on the first good login.
func (s *service) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failed(msgUnknownUser), nil
		}
		return nil, pkgerrors.Persistence(err, msgQueryFailed)
	}

	ok, needsRehash, err := security.CheckCredential(password, user.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify credential")
	}
	if !ok {
		return failed(msgWrongPassword), nil
	}

	ctx = s.logg.WithUserID(ctx, user.Code)
	if needsRehash {
		s.rehash(ctx, user.Code, password)
	}

	name := user.DisplayName
	profile := user.ProfileCode
	id := user.Code
	return &AuthResult{
		Authenticated: true,
		UserID:        &id,
		DisplayName:   &name,
		ProfileCode:   &profile,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	result, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !result.Authenticated {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, *result.Message)
	}

	userID := *result.UserID
	sessionID := session.NewSessionID()
	if s.sessions != nil {
		sessionID, err = s.sessions.Open(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
		}
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID:      userID,
		Username:    strings.TrimSpace(req.Username),
		ProfileCode: *result.ProfileCode,
		JTI:         sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	s.logg.Info(s.logg.WithUserID(ctx, userID), "auth.login")
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtCfg.TTL().Seconds()),
		User:        *result,
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if s.sessions == nil || strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) rehash(ctx context.Context, code int64, password string) {
	encoded, err := security.HashPassword(password, s.pwdCfg)
	if err == nil {
		err = s.repo.UpdatePassword(ctx, code, encoded)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.rehash_failed")
		return
	}
	s.logg.Info(ctx, "auth.password_rehashed")
}

func failed(message string) *AuthResult {
	return &AuthResult{Authenticated: false, Message: &message}
}
