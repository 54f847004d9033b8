package invoicing

import (
	"context"
	"sync"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// DefaultProfileTTL bounds how long a cached profile is trusted when another
// process may have saved a newer one.
const DefaultProfileTTL = 5 * time.Minute

type cachedProfile struct {
	profile   models.Profile
	expiresAt time.Time
}

// ProfileCache is the process-wide view of each account's issuer profile.
// It is refreshed on every Load and Save and read by totals computation and
// rendering. Callers always receive their own copy.
type ProfileCache struct {
	store storage.ProfileStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedProfile
}

// NewProfileCache wraps store. ttl <= 0 keeps entries until the next Load or
// Save.
func NewProfileCache(store storage.ProfileStore, ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedProfile),
	}
}

// Get returns the cached profile, loading it on a miss. It returns nil, nil
// when the account has no profile.
func (c *ProfileCache) Get(ctx context.Context, accountID string) (*models.Profile, error) {
	c.mu.RLock()
	entry, ok := c.entries[accountID]
	c.mu.RUnlock()
	if ok && (entry.expiresAt.IsZero() || c.now().Before(entry.expiresAt)) {
		p := entry.profile
		return &p, nil
	}
	return c.Load(ctx, accountID)
}

// Load reads the profile from the store and refreshes the cache.
func (c *ProfileCache) Load(ctx context.Context, accountID string) (*models.Profile, error) {
	p, err := c.store.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		c.forget(accountID)
		return nil, nil
	}
	p.Normalize()
	c.put(accountID, p)
	return p, nil
}

// Save normalizes and persists p, then refreshes the cache.
func (c *ProfileCache) Save(ctx context.Context, accountID string, p *models.Profile) error {
	p.Normalize()
	if err := c.store.SaveProfile(ctx, accountID, p); err != nil {
		return err
	}
	c.put(accountID, p)
	return nil
}

func (c *ProfileCache) put(accountID string, p *models.Profile) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[accountID] = cachedProfile{profile: *p, expiresAt: expiresAt}
	c.mu.Unlock()
}

func (c *ProfileCache) forget(accountID string) {
	c.mu.Lock()
	delete(c.entries, accountID)
	c.mu.Unlock()
}
