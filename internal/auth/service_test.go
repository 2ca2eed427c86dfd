package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/trinitystore/trinity-backend/pkg/auth"
	"github.com/trinitystore/trinity-backend/pkg/auth/session"
	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	"github.com/trinitystore/trinity-backend/pkg/enums"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
}

func (s stubUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if s.user != nil && s.user.Username == username {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	refreshToken string
	generated    []string
	rotated      []string
	revoked      []string
	rotateErr    error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	if provided != s.refreshToken {
		return "", "", session.ErrInvalidRefreshToken
	}
	s.rotated = append(s.rotated, oldAccessID)
	return session.NewAccessID(), "rotated-" + s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "trinitystore",
		ExpirationMinutes: 30,
	}
}

func testUser(t *testing.T, password string, role enums.UserRole) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Username:     "ada",
		PasswordHash: mustHashPassword(t, password),
		Role:         role,
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{user: user},
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	return svc, sessionMgr, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestServiceLoginIssuesTokenPair(t *testing.T) {
	cfg := testJWTConfig()
	user := testUser(t, "customer-secret", enums.UserRoleCustomer)

	svc, sessionMgr, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "Ada ",
		Password: "customer-secret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if claims.Username != "ada" {
		t.Fatalf("expected username claim, got %s", claims.Username)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token to be set")
	}
	if len(sessionMgr.generated) != 1 || sessionMgr.generated[0] != claims.ID {
		t.Fatalf("expected session stored under jti %s", claims.ID)
	}
	if resp.User == nil || resp.User.Username != "ada" {
		t.Fatal("expected user profile in response")
	}
}

func TestServiceLoginRejectsBadPassword(t *testing.T) {
	svc, _, err := buildTestService(testUser(t, "right", enums.UserRoleCustomer), testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Username: "ada", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsUnknownUser(t *testing.T) {
	svc, _, err := buildTestService(nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRefreshRotatesPair(t *testing.T) {
	cfg := testJWTConfig()
	user := testUser(t, "customer-secret", enums.UserRoleAdmin)

	svc, sessionMgr, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Username: "ada", Password: "customer-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken != "rotated-refresh-token" {
		t.Fatalf("expected rotated refresh token, got %s", refreshed.RefreshToken)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected role preserved, got %s", claims.Role)
	}
	if len(sessionMgr.rotated) != 1 {
		t.Fatal("expected session rotation")
	}
}

func TestServiceRefreshRejectsBadRefreshToken(t *testing.T) {
	svc, _, err := buildTestService(testUser(t, "pw", enums.UserRoleCustomer), testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Username: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "forged",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, sessionMgr, err := buildTestService(testUser(t, "pw", enums.UserRoleCustomer), testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Username: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessionMgr.revoked) != 1 {
		t.Fatal("expected session revocation")
	}

	if err := svc.Logout(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
