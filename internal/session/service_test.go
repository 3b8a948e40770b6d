package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/auth"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/redis"
	"gorm.io/gorm"
)

type memoryRepo struct {
	rows map[uuid.UUID]*models.Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[uuid.UUID]*models.Session)}
}

func (r *memoryRepo) Create(ctx context.Context, row *models.Session) error {
	copied := *row
	r.rows[row.ID] = &copied
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *memoryRepo) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	row, ok := r.rows[id]
	if !ok || row.RevokedAt != nil {
		return nil
	}
	row.RevokedAt = &at
	return nil
}

type stubAuthenticator struct {
	token string
	err   error
	phone string
}

func (a *stubAuthenticator) Authenticate(ctx context.Context, phone string) (string, error) {
	a.phone = phone
	return a.token, a.err
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string) {
	n.messages = append(n.messages, message)
}

type recordingClearer struct {
	cleared []uuid.UUID
}

func (c *recordingClearer) Clear(ctx context.Context, sessionID uuid.UUID) error {
	c.cleared = append(c.cleared, sessionID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "storefront-test", ExpirationMinutes: 60}
}

type fixture struct {
	svc      Service
	repo     *memoryRepo
	notifier *recordingNotifier
	carts    *recordingClearer
}

func newFixture(t *testing.T, upstream Authenticator) *fixture {
	t.Helper()

	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	carts := &recordingClearer{}
	svc, err := NewService(
		repo,
		upstream,
		&redis.Client{},
		carts,
		notifier,
		testJWTConfig(),
		logger.New(logger.Options{ServiceName: "test"}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, notifier: notifier, carts: carts}
}

func TestLoginWithUpstream(t *testing.T) {
	t.Parallel()

	upstream := &stubAuthenticator{token: "upstream-tok"}
	f := newFixture(t, upstream)

	result, err := f.svc.Login(context.Background(), "  +15550001111  ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if upstream.phone != "+15550001111" {
		t.Fatalf("expected trimmed phone forwarded, got %q", upstream.phone)
	}
	if result.Token == "" || result.SessionID == uuid.Nil {
		t.Fatalf("incomplete result %+v", result)
	}

	claims, err := auth.ParseSessionToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.SessionID != result.SessionID {
		t.Fatalf("token must carry the session id")
	}

	stored := f.repo.rows[result.SessionID]
	if stored == nil || stored.UpstreamToken != "upstream-tok" {
		t.Fatalf("upstream token must be persisted, got %+v", stored)
	}
	if len(f.notifier.messages) != 1 || f.notifier.messages[0] != "Logged in successfully!" {
		t.Fatalf("expected login alert, got %v", f.notifier.messages)
	}
}

func TestLoginWithoutUpstreamIssuesLocalSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	result, err := f.svc.Login(context.Background(), "+15550001111")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if f.repo.rows[result.SessionID].UpstreamToken != "" {
		t.Fatalf("local session must have no upstream token")
	}
}

func TestLoginUpstreamRejectionPassesThrough(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &stubAuthenticator{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "login rejected by backend")})

	_, err := f.svc.Login(context.Background(), "+15550001111")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized passthrough, got %v", err)
	}
}

func TestLoginUpstreamOutage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &stubAuthenticator{err: errors.New("dial tcp: timeout")})

	_, err := f.svc.Login(context.Background(), "+15550001111")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLoginRequiresPhone(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	_, err := f.svc.Login(context.Background(), "   ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestActiveAndLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	result, err := f.svc.Login(context.Background(), "+15550001111")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	active, err := f.svc.Active(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if !active {
		t.Fatalf("fresh session must be active")
	}

	if err := f.svc.Logout(context.Background(), result.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	active, err = f.svc.Active(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("active after logout: %v", err)
	}
	if active {
		t.Fatalf("revoked session must be inactive")
	}
	if len(f.carts.cleared) != 1 || f.carts.cleared[0] != result.SessionID {
		t.Fatalf("logout must clear the session cart, got %v", f.carts.cleared)
	}
}

func TestActiveUnknownSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	active, err := f.svc.Active(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active {
		t.Fatalf("unknown session must be inactive")
	}
}

func TestUpstreamToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &stubAuthenticator{token: "upstream-tok"})
	result, err := f.svc.Login(context.Background(), "+15550001111")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := f.svc.UpstreamToken(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("upstream token: %v", err)
	}
	if token != "upstream-tok" {
		t.Fatalf("unexpected token %q", token)
	}

	_, err = f.svc.UpstreamToken(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
