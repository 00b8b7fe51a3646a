package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore,
// safe for concurrent use. Supersession and insert happen under one mutex
// hold, which gives the same all-or-nothing guarantee the postgres store gets
// from a database transaction.
type MemoryLedgerStore struct {
	mu       sync.Mutex
	accounts map[string]models.GLAccount
	entries  []models.GLEntry // insertion order
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		accounts: make(map[string]models.GLAccount),
		entries:  make([]models.GLEntry, 0),
	}
}

// SeedAccount registers a GL account. Accounts are created by seeding or
// administration, never by the posting engine.
func (m *MemoryLedgerStore) SeedAccount(acct models.GLAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acct.ID] = acct
}

func (m *MemoryLedgerStore) GetGLAccount(_ context.Context, id string) (*models.GLAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &acct, nil
}

func (m *MemoryLedgerStore) FindAccountByLink(_ context.Context, linkedAccountID string) (*models.GLAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acct := range m.accounts {
		if acct.LinkedAccountID != "" && acct.LinkedAccountID == linkedAccountID {
			a := acct
			return &a, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *MemoryLedgerStore) FindAccountByRole(_ context.Context, ownerID string, role models.AccountRole, currency models.Currency) (*models.GLAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acct := range m.accounts {
		if acct.OwnerID != ownerID || acct.Role != role {
			continue
		}
		if currency != "" && acct.Currency != currency {
			continue
		}
		a := acct
		return &a, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m *MemoryLedgerStore) FindAccountByName(_ context.Context, ownerID, fragment string) (*models.GLAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acct := range m.accounts {
		if acct.OwnerID == ownerID && strings.Contains(acct.Name, fragment) {
			a := acct
			return &a, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

// SaveEntry soft-deletes every active entry sharing the new entry's
// (owner, reference id) pair, then appends the entry. Both steps happen under
// the same lock so a concurrent re-post cannot leave two active entries.
func (m *MemoryLedgerStore) SaveEntry(_ context.Context, entry models.GLEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ReferenceID != "" {
		now := time.Now()
		for i := range m.entries {
			e := &m.entries[i]
			if e.OwnerID == entry.OwnerID && e.ReferenceID == entry.ReferenceID && !e.Deleted {
				e.Deleted = true
				e.DeletedAt = &now
			}
		}
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryLedgerStore) ListEntries(_ context.Context, ownerID string) ([]models.GLEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.GLEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.OwnerID == ownerID && !e.Deleted {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MemoryLedgerStore) ActiveEntryByReference(_ context.Context, ownerID, referenceID string) (*models.GLEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		e := m.entries[i]
		if e.OwnerID == ownerID && e.ReferenceID == referenceID && !e.Deleted {
			return &e, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *MemoryLedgerStore) ListLinesByAccount(_ context.Context, accountID string) ([]models.GLLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.GLLine
	for _, e := range m.entries {
		if e.Deleted {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				result = append(result, l)
			}
		}
	}
	return result, nil
}

var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
