// internal/identity/cache.go
package identity

import "sync"

// User is the locally cached view of a provider-managed account. Records are
// written whole on a successful fetch and never partially updated.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Enabled   bool   `json:"enabled"`
}

// Cache maps user id to the last successfully fetched record. Entries never
// expire on their own; only explicit invalidation or a newer fetch replaces
// them. Safe for concurrent readers and a concurrent sync writer.
type Cache struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewCache() *Cache {
	return &Cache{users: map[string]User{}}
}

func (c *Cache) Get(id string) (User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	return u, ok
}

func (c *Cache) Put(id string, u User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[id] = u
}

func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = map[string]User{}
}

// BulkReplace upserts every record from a sync batch. Ids absent from the
// batch keep their current entry: sync refreshes, it does not prune.
func (c *Cache) BulkReplace(users []User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range users {
		c.users[u.ID] = u
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}
