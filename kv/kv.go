// Package kv defines the tenant namespace model: the key-value entries owned
// by a single tenant and the repository contract over them.
package kv

import "context"

// Entry is a single key-value pair in a tenant's namespace. Keys are unique
// within the namespace, not globally.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Repo is the namespace store scoped to one resolved tenant. All operations
// are atomic at single-entry granularity.
type Repo interface {
	// List returns every entry in the namespace, in no guaranteed order.
	List(ctx context.Context) ([]Entry, error)
	// Insert adds a new entry. Returns errors.ErrKeyExists if the key is
	// already present; the namespace is left unchanged.
	Insert(ctx context.Context, key, value string) error
	// Update overwrites the value of an existing entry. Returns
	// errors.ErrKeyNotFound if the key is absent.
	Update(ctx context.Context, key, value string) error
	// Delete removes an entry. Returns errors.ErrKeyNotFound if the key is
	// absent.
	Delete(ctx context.Context, key string) error
}
