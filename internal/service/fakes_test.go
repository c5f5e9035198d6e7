package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/mpetrovskiy/reward-service/internal/repository"
	"github.com/mpetrovskiy/reward-service/pkg/payment"
)

// In-memory repository fakes. They copy records on the way in and out, so a
// service mutating a loaded user only persists through an explicit Update,
// the same contract the SQL repositories give.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.ReferralCode == user.ReferralCode {
			return repository.ErrDuplicateReferralCode
		}
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) GetByReferralCodeForUpdate(_ context.Context, code string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ReferralCode == code {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByResetTokenForUpdate(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ReferralCodeExists(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = cloneUser(user)
	return nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.Activity
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *activity
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakeActivityRepo) ListByUser(_ context.Context, userID string) ([]*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Activity
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			c := *r.entries[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) SumCoinsByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, a := range r.entries {
		if a.UserID == userID {
			total += a.CoinsEarned
		}
	}
	return total, nil
}

func (r *fakeActivityRepo) CountByUserAndType(_ context.Context, userID string, activityType domain.ActivityType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, a := range r.entries {
		if a.UserID == userID && a.Type == activityType {
			count++
		}
	}
	return count, nil
}

type fakeCardRepo struct {
	mu    sync.Mutex
	cards map[string]*domain.Card
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[string]*domain.Card)}
}

func (r *fakeCardRepo) Create(_ context.Context, card *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *card
	c.CreatedAt = time.Now().UTC()
	r.cards[c.ID] = &c
	return nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, id string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCardRepo) ListByUser(_ context.Context, userID string) ([]*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Card
	for _, c := range r.cards {
		if c.UserID == userID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) UpdateTransaction(_ context.Context, card *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[card.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *card
	c.UpdatedAt = time.Now().UTC()
	r.cards[card.ID] = &c
	return nil
}

type fakeDeviceTokenRepo struct {
	mu     sync.Mutex
	tokens []*domain.NotificationToken
}

func (r *fakeDeviceTokenRepo) Upsert(_ context.Context, token *domain.NotificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == token.UserID && t.DeviceToken == token.DeviceToken {
			t.DeviceType = token.DeviceType
			return nil
		}
	}
	c := *token
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.tokens = append(r.tokens, &c)
	return nil
}

func (r *fakeDeviceTokenRepo) ListByUser(_ context.Context, userID string) ([]*domain.NotificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.NotificationToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

// fakeStore bundles the fakes behind the same surface the SQL layer offers.
// Transact simply re-runs against the same stores; operations under test
// either finish their writes or fail before writing.
type fakeStore struct {
	repos *repository.Repositories
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		repos: &repository.Repositories{
			User:        newFakeUserRepo(),
			Activity:    &fakeActivityRepo{},
			Card:        newFakeCardRepo(),
			DeviceToken: &fakeDeviceTokenRepo{},
		},
	}
}

func (s *fakeStore) Transact(_ context.Context, fn func(tx *repository.Repositories) error) error {
	return fn(s.repos)
}

type fakeBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: make(map[string]time.Duration)}
}

func (b *fakeBlacklist) AddToken(_ context.Context, token string, expiry time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if expiry <= 0 {
		return nil
	}
	b.tokens[token] = expiry
	return nil
}

func (b *fakeBlacklist) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[token]
	return ok, nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	welcomes   []string
	resets     map[string]string
	activities []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{resets: make(map[string]string)}
}

func (n *fakeNotifier) Welcome(_ context.Context, user *domain.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, user.Email)
}

func (n *fakeNotifier) PasswordReset(_ context.Context, user *domain.User, resetToken string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets[user.Email] = resetToken
}

func (n *fakeNotifier) ActivityRecorded(_ context.Context, _ *domain.User, _, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activities = append(n.activities, body)
}

type fakeGateway struct {
	customers int
	charges   int

	chargeResult *payment.ChargeResult
	chargeErr    error
}

func (g *fakeGateway) CreateCustomer(_ context.Context, _, _ string) (string, error) {
	g.customers++
	return "cus_test_" + uuid.New().String()[:8], nil
}

func (g *fakeGateway) AttachCard(_ context.Context, _, cardToken string) (*payment.CardDetails, error) {
	return &payment.CardDetails{
		PaymentMethodID: "pm_" + cardToken,
		Last4:           "4242",
		ExpMonth:        12,
		ExpYear:         2030,
		Brand:           "visa",
	}, nil
}

func (g *fakeGateway) Charge(_ context.Context, _, _ string, _ int64, _ string) (*payment.ChargeResult, error) {
	g.charges++
	if g.chargeResult != nil || g.chargeErr != nil {
		return g.chargeResult, g.chargeErr
	}
	return &payment.ChargeResult{
		TransactionID: "pi_" + uuid.New().String()[:8],
		Status:        "succeeded",
		ClientSecret:  "pi_secret_test",
	}, nil
}
