package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
)

// memStore is an in-memory stand-in for the SQL repositories. Provision is
// all-or-nothing like the real transaction; profileErr injects a failure
// between the account and profile inserts to exercise the rollback
// contract.
type memStore struct {
	mu         sync.Mutex
	accounts   map[string]model.Account
	profiles   map[uint64]model.Profile
	nextID     uint64
	profileErr error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]model.Account{},
		profiles: map[uint64]model.Profile{},
	}
}

func (m *memStore) FindByEmail(_ context.Context, email string) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return model.Account{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *memStore) FindByEmailAndRole(_ context.Context, email string, role model.Role) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok || a.Role != role {
		return model.Account{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *memStore) FindByAccount(_ context.Context, role model.Role, accountID uint64) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[accountID]
	if !ok || p.Role != role {
		return model.Profile{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *memStore) Provision(_ context.Context, acc model.Account, p model.Profile) (model.Account, model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[acc.Email]; exists {
		return model.Account{}, model.Profile{}, repository.ErrEmailTaken
	}
	if m.profileErr != nil {
		// The account insert is rolled back together with the failed
		// profile insert: nothing is recorded.
		return model.Account{}, model.Profile{}, m.profileErr
	}
	m.nextID++
	now := time.Now().UTC()
	acc.ID = m.nextID
	acc.CreatedAt, acc.UpdatedAt = now, now
	p.AccountID = acc.ID
	m.accounts[acc.Email] = acc
	m.profiles[acc.ID] = p
	return acc, p, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}
