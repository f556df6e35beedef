package imports

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTokenTTL bounds how long a client has between requesting a token
// and opening the import stream.
const DefaultTokenTTL = 5 * time.Minute

// Grant is one issued capability token: single use, short lived, bound to
// the user it was issued to.
type Grant struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// TokenManager issues and redeems import capability tokens. All methods are
// safe for concurrent use; Consume hands a token to at most one caller.
type TokenManager struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	byToken map[string]Grant
	byUser  map[int64]string
}

func NewTokenManager(ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		ttl:     ttl,
		now:     time.Now,
		byToken: make(map[string]Grant),
		byUser:  make(map[int64]string),
	}
}

// Issue returns the user's live token, minting one only when none exists or
// the previous one has expired. Issuance is idempotent per user.
func (m *TokenManager) Issue(userID int64) Grant {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.byUser[userID]; ok {
		if grant, ok := m.byToken[token]; ok && m.now().Before(grant.ExpiresAt) {
			return grant
		}
		delete(m.byToken, token)
		delete(m.byUser, userID)
	}

	grant := Grant{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.byToken[grant.Token] = grant
	m.byUser[userID] = grant.Token
	return grant
}

// Validate looks a token up without redeeming it. Expired tokens are deleted
// as a side effect and reported as ErrTokenExpired.
func (m *TokenManager) Validate(token string) (Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(token)
}

// Consume validates and deletes a token in one step, so exactly one
// connection attempt can redeem it.
func (m *TokenManager) Consume(token string) (Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grant, err := m.lookup(token)
	if err != nil {
		return Grant{}, err
	}
	m.drop(grant)
	return grant, nil
}

func (m *TokenManager) lookup(token string) (Grant, error) {
	grant, ok := m.byToken[token]
	if !ok {
		return Grant{}, ErrTokenNotFound
	}
	if !m.now().Before(grant.ExpiresAt) {
		m.drop(grant)
		return Grant{}, ErrTokenExpired
	}
	return grant, nil
}

func (m *TokenManager) drop(grant Grant) {
	delete(m.byToken, grant.Token)
	if m.byUser[grant.UserID] == grant.Token {
		delete(m.byUser, grant.UserID)
	}
}
