package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"feira_back_end/internal/cart"
	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const testSecret = "segredo-de-teste"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProfiles struct {
	mu       sync.Mutex
	creds    map[string]models.User
	profiles map[string]models.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{creds: map[string]models.User{}, profiles: map[string]models.Profile{}}
}

func (f *fakeProfiles) CreateUser(ctx context.Context, u models.User, p models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.creds[u.Email]; ok {
		return repository.ErrEmailTaken
	}
	f.creds[u.Email] = u
	p.ID, p.Email, p.UserType = u.ID, u.Email, u.UserType
	f.profiles[u.ID] = p
	return nil
}

func (f *fakeProfiles) FindCredentials(ctx context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.creds[email]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return models.Profile{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UpsertProfile(ctx context.Context, p models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfiles) UpdateAvatar(ctx context.Context, userID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profiles[userID]
	p.AvatarURL = url
	f.profiles[userID] = p
	return nil
}

type fakeCatalog map[string]models.Product

func (f fakeCatalog) Product(ctx context.Context, id string) (models.Product, error) {
	p, ok := f[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

type fakeOrders struct {
	mu       sync.Mutex
	created  []models.Order
	failOn   int
	onCreate func()
}

func (f *fakeOrders) Create(ctx context.Context, o models.Order) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn > 0 && len(f.created)+1 == f.failOn {
		return errors.New("scylla timeout")
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrders) Get(ctx context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, repository.ErrNotFound
}

func (f *fakeOrders) ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.created {
		if o.ConsumerID == consumerID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeEvents struct {
	mu      sync.Mutex
	created []string
	changed []string
}

func (f *fakeEvents) PublishOrderCreated(ctx context.Context, o models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, o.ID)
	return nil
}

func (f *fakeEvents) PublishOrderStatusChanged(ctx context.Context, o models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, o.ID)
	return nil
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (f *fakeRevoker) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[tokenID] = ttl
	return nil
}

func newHandler() *Handler {
	return &Handler{
		JWTSecret:  testSecret,
		SessionTTL: time.Hour,
		Profiles:   newFakeProfiles(),
		Catalog:    fakeCatalog{},
		Orders:     &fakeOrders{},
		Carts:      cart.NewRegistry(nil),
		Events:     &fakeEvents{},
	}
}

// withSession simula o AuthRequired.
func withSession(userID, sid, userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("sid", sid)
		c.Set("user_type", userType)
		c.Set("jti", "jti-"+sid)
		c.Set("session", utils.SessionClaims{
			UserID: userID, SessionID: sid, UserType: userType,
			TokenID: "jti-" + sid, ExpiresAt: time.Now().Add(time.Hour),
		})
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
