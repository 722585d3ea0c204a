package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/gestor-pedidos/pkg/auth"
	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/dbtest"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSessions struct {
	opened  map[string]int64
	revoked []string
}

func (s *stubSessions) Open(_ context.Context, userID int64) (string, error) {
	id := "sess-1"
	if s.opened == nil {
		s.opened = map[string]int64{}
	}
	s.opened[id] = userID
	return id, nil
}

func (s *stubSessions) Revoke(_ context.Context, sessionID string) error {
	s.revoked = append(s.revoked, sessionID)
	return nil
}

var (
	testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "gestor-test", ExpirationMinutes: 60}
	testPwd = config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
)

func newService(t *testing.T, sessions sessionManager) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(conn),
		Sessions:  sessions,
		JWTConfig: testJWT,
		Password:  testPwd,
	})
	require.NoError(t, err)
	return svc, conn
}

func TestAuthenticateMessages(t *testing.T) {
	svc, conn := newService(t, nil)
	require.NoError(t, conn.Create(&models.User{Username: "maria", Password: "secreto", DisplayName: "Maria", ProfileCode: 2}).Error)
	ctx := context.Background()

	res, err := svc.Authenticate(ctx, "nadie", "x")
	require.NoError(t, err)
	assert.False(t, res.Authenticated)
	require.NotNil(t, res.Message)
	assert.Equal(t, "Usuario no encontrado", *res.Message)

	res, err = svc.Authenticate(ctx, "maria", "otra")
	require.NoError(t, err)
	assert.False(t, res.Authenticated)
	assert.Equal(t, "Contraseña incorrecta", *res.Message)

	res, err = svc.Authenticate(ctx, " maria ", "secreto")
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "Maria", *res.DisplayName)
	assert.Equal(t, int64(2), *res.ProfileCode)
	assert.Nil(t, res.Message)
}

func TestAuthenticateUpgradesPlaintext(t *testing.T) {
	svc, conn := newService(t, nil)
	user := models.User{Username: "pedro", Password: "clave1"}
	require.NoError(t, conn.Create(&user).Error)

	res, err := svc.Authenticate(context.Background(), "pedro", "clave1")
	require.NoError(t, err)
	require.True(t, res.Authenticated)

	var stored models.User
	require.NoError(t, conn.First(&stored, "codigo_usuario = ?", user.Code).Error)
	assert.True(t, security.IsHashed(stored.Password))

	res, err = svc.Authenticate(context.Background(), "pedro", "clave1")
	require.NoError(t, err)
	assert.True(t, res.Authenticated, "hashed credential still verifies")
}

func TestLoginAndLogout(t *testing.T) {
	sessions := &stubSessions{}
	svc, conn := newService(t, sessions)
	user := models.User{Username: "ana", Password: "pw", ProfileCode: 1}
	require.NoError(t, conn.Create(&user).Error)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(time.Hour.Seconds()), resp.ExpiresIn)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Code, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, user.Code, sessions.opened["sess-1"])

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.Equal(t, []string{"sess-1"}, sessions.revoked)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, conn := newService(t, &stubSessions{})
	require.NoError(t, conn.Create(&models.User{Username: "ana", Password: "pw"}).Error)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ana", Password: "nope"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, "Contraseña incorrecta", pkgerrors.As(err).Message())
}

func TestLogoutWithoutSessionsIsNoop(t *testing.T) {
	svc, _ := newService(t, nil)
	assert.NoError(t, svc.Logout(context.Background(), "whatever"))
}
