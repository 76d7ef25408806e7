package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
)

// GalleryCache keeps the full enrolled gallery in memory so identification
// scans don't hit the database per request. Writes go through to the backing
// store first and update the cache only on success.
type GalleryCache struct {
	backing EnrolledStore

	mu         sync.RWMutex
	identities map[string]config.EnrolledIdentity
}

func NewGalleryCache(backing EnrolledStore) *GalleryCache {
	return &GalleryCache{
		backing:    backing,
		identities: make(map[string]config.EnrolledIdentity),
	}
}

var _ EnrolledStore = (*GalleryCache)(nil)

// Load replaces the cache contents with the backing store's current gallery.
// Call once at startup before serving.
func (c *GalleryCache) Load(ctx context.Context) error {
	all, err := c.backing.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading gallery: %w", err)
	}

	fresh := make(map[string]config.EnrolledIdentity, len(all))
	for _, id := range all {
		fresh[id.IdentityID] = id
	}

	c.mu.Lock()
	c.identities = fresh
	c.mu.Unlock()
	return nil
}

func (c *GalleryCache) ListAll(_ context.Context) ([]config.EnrolledIdentity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]config.EnrolledIdentity, 0, len(c.identities))
	for _, id := range c.identities {
		out = append(out, id)
	}
	return out, nil
}

func (c *GalleryCache) Get(ctx context.Context, identityID string) (*config.EnrolledIdentity, error) {
	c.mu.RLock()
	id, ok := c.identities[identityID]
	c.mu.RUnlock()
	if ok {
		return &id, nil
	}

	// Miss: fall through to the backing store and cache the hit.
	fetched, err := c.backing.Get(ctx, identityID)
	if err != nil || fetched == nil {
		return fetched, err
	}
	c.mu.Lock()
	c.identities[fetched.IdentityID] = *fetched
	c.mu.Unlock()
	return fetched, nil
}

func (c *GalleryCache) Upsert(ctx context.Context, identity config.EnrolledIdentity) error {
	if err := c.backing.Upsert(ctx, identity); err != nil {
		return err
	}
	c.mu.Lock()
	c.identities[identity.IdentityID] = identity
	c.mu.Unlock()
	return nil
}

func (c *GalleryCache) Delete(ctx context.Context, identityID string) error {
	if err := c.backing.Delete(ctx, identityID); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.identities, identityID)
	c.mu.Unlock()
	return nil
}
