package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/events"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	db, err := pkgdb.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pkgdb.Close(db) })
	require.NoError(t, repo.Migrate(context.Background(), db))
	return repo.New(db)
}

type published struct {
	topic, key string
	event      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		if ev, ok := e.event.(events.Event); ok {
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeMailer struct {
	mu      sync.Mutex
	otps    map[string]string
	resets  map[string]string
	failErr error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otps: map[string]string{}, resets: map[string]string{}}
}

func (m *fakeMailer) SendOTP(_ context.Context, to, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.otps[to] = code
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.resets[to] = link
	return nil
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Description: "category used in tests"}
	require.NoError(t, r.CreateCategory(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, active bool) *models.Product {
	t.Helper()
	cat := seedCategory(t, r, "cat-"+uuid.NewString())
	p := &models.Product{
		Name:       name,
		Brand:      "Acme",
		Price:      decimal.RequireFromString(price),
		CategoryID: cat.ID,
		Stock:      10,
		IsActive:   active,
		AboutItem:  []string{},
		Images:     []string{},
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, r *repo.GormRepo, email string, role authz.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", Role: role.String()}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func userActor(id uuid.UUID) Actor  { return Actor{UserID: id, Role: authz.RoleUser} }
func adminActor(id uuid.UUID) Actor { return Actor{UserID: id, Role: authz.RoleAdmin} }
