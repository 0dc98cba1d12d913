// Package discussions keeps a transient, file-backed registry of advertised
// peer discussions. Entries expire after five minutes of inactivity and are
// pruned on read. The registry is deliberately throwaway state and lives
// outside tenant storage.
package discussions

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
)

// DefaultExpiry is how long a discussion stays listed without being
// re-advertised.
const DefaultExpiry = 5 * time.Minute

type Discussion struct {
	Name      string `json:"name"`
	PeerID    string `json:"peerId"`
	Timestamp int64  `json:"timestamp"`
}

type Registry struct {
	path    string
	expiry  time.Duration
	lock    sync.Mutex
	nowTime func() time.Time
}

// RegistryOption defines a function type to modify the Registry instance.
type RegistryOption func(*Registry)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowTime = nowFunc
	}
}

// WithExpiry overrides the inactivity expiry window.
func WithExpiry(expiry time.Duration) RegistryOption {
	return func(r *Registry) {
		r.expiry = expiry
	}
}

func NewRegistry(path string, options ...RegistryOption) *Registry {
	r := &Registry{
		path:    path,
		expiry:  DefaultExpiry,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Advertise records a discussion, creating the backing file if needed.
// Re-advertising an existing name refreshes its timestamp.
func (r *Registry) Advertise(name, peerID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list := r.load()
	now := r.nowTime().Unix()

	found := false
	for i := range list {
		if list[i].Name == name {
			list[i].Timestamp = now
			found = true
			break
		}
	}
	if !found {
		list = append(list, Discussion{Name: name, PeerID: peerID, Timestamp: now})
	}

	return r.save(list)
}

// List returns active discussions, pruning any that have gone quiet past
// the expiry window. Returns ErrNotFound if nothing was ever advertised.
func (r *Registry) List() ([]Discussion, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.fileExists() {
		return nil, apperrors.ErrNotFound
	}

	list := r.load()
	now := r.nowTime().Unix()

	active := make([]Discussion, 0, len(list))
	for _, d := range list {
		if now-d.Timestamp <= int64(r.expiry.Seconds()) {
			active = append(active, d)
		}
	}

	if err := r.save(active); err != nil {
		return nil, err
	}
	return active, nil
}

// Remove drops a discussion by name. Returns ErrNotFound if the registry
// file does not exist or the name is not present.
func (r *Registry) Remove(name string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.fileExists() {
		return apperrors.ErrNotFound
	}

	list := r.load()
	remaining := make([]Discussion, 0, len(list))
	for _, d := range list {
		if d.Name != name {
			remaining = append(remaining, d)
		}
	}
	if len(remaining) == len(list) {
		return apperrors.ErrNotFound
	}

	return r.save(remaining)
}

func (r *Registry) fileExists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// load reads the registry, reinitializing on a missing or corrupt file.
func (r *Registry) load() []Discussion {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return []Discussion{}
	}
	var list []Discussion
	if err := json.Unmarshal(raw, &list); err != nil {
		return []Discussion{}
	}
	return list
}

func (r *Registry) save(list []Discussion) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "failed to encode discussions")
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return errors.Wrap(err, "failed to write discussions file")
	}
	return nil
}
