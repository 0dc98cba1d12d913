// Package storefake provides an in-memory tenantstore.Provider for tests.
package storefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-kv-server/internal/errors"
	"github.com/jrsteele09/go-kv-server/kv"
	"github.com/jrsteele09/go-kv-server/tenantstore"
	"github.com/jrsteele09/go-kv-server/users"
)

var _ tenantstore.Provider = (*FakeStore)(nil)

type FakeStore struct {
	lock      sync.Mutex
	tenants   map[string]*tenantData
	openCalls int
}

type tenantData struct {
	lock    sync.RWMutex
	users   map[string]*users.User
	entries map[string]string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{tenants: make(map[string]*tenantData)}
}

func (s *FakeStore) Open(_ context.Context, username string) (tenantstore.Unit, error) {
	name, err := users.SanitizeUsername(username)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.openCalls++
	data, ok := s.tenants[name]
	if !ok {
		data = &tenantData{
			users:   make(map[string]*users.User),
			entries: make(map[string]string),
		}
		s.tenants[name] = data
	}
	return &fakeUnit{data: data}, nil
}

// OpenCalls reports how many storage units have been opened; used to assert
// that rejected requests never touch storage.
func (s *FakeStore) OpenCalls() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.openCalls
}

// Provisioned reports whether a unit has ever been opened for the username.
func (s *FakeStore) Provisioned(username string) bool {
	name, err := users.SanitizeUsername(username)
	if err != nil {
		return false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.tenants[name]
	return ok
}

type fakeUnit struct {
	data *tenantData
}

func (u *fakeUnit) Users() users.Repo { return &fakeUserRepo{data: u.data} }
func (u *fakeUnit) Entries() kv.Repo  { return &fakeKVRepo{data: u.data} }
func (u *fakeUnit) Close() error      { return nil }

type fakeUserRepo struct {
	data *tenantData
}

func (r *fakeUserRepo) Create(_ context.Context, user *users.User) error {
	r.data.lock.Lock()
	defer r.data.lock.Unlock()

	if _, ok := r.data.users[user.Username]; ok {
		return errors.ErrUserExists
	}
	copied := *user
	r.data.users[user.Username] = &copied
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.data.lock.RLock()
	defer r.data.lock.RUnlock()

	user, ok := r.data.users[username]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeKVRepo struct {
	data *tenantData
}

func (r *fakeKVRepo) List(_ context.Context) ([]kv.Entry, error) {
	r.data.lock.RLock()
	defer r.data.lock.RUnlock()

	entries := make([]kv.Entry, 0, len(r.data.entries))
	for k, v := range r.data.entries {
		entries = append(entries, kv.Entry{Key: k, Value: v})
	}
	return entries, nil
}

func (r *fakeKVRepo) Insert(_ context.Context, key, value string) error {
	r.data.lock.Lock()
	defer r.data.lock.Unlock()

	if _, ok := r.data.entries[key]; ok {
		return errors.ErrKeyExists
	}
	r.data.entries[key] = value
	return nil
}

func (r *fakeKVRepo) Update(_ context.Context, key, value string) error {
	r.data.lock.Lock()
	defer r.data.lock.Unlock()

	if _, ok := r.data.entries[key]; !ok {
		return errors.ErrKeyNotFound
	}
	r.data.entries[key] = value
	return nil
}

func (r *fakeKVRepo) Delete(_ context.Context, key string) error {
	r.data.lock.Lock()
	defer r.data.lock.Unlock()

	if _, ok := r.data.entries[key]; !ok {
		return errors.ErrKeyNotFound
	}
	delete(r.data.entries, key)
	return nil
}
