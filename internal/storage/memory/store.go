package memory

import (
	"context"
	"encoding/json"
	"sync"

	interfaces "github.com/arywk40-hue/governance-budget-allocator/internal/interfaces"
	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage"
)

// MemoryStateStore is an in-memory implementation of interfaces.StateStore.
// Records are held as JSON payloads keyed by name, mirroring the persistent
// key-value contract, and access is safe for concurrent use.
type MemoryStateStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryStateStore creates an empty (uninitialized) store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		records: make(map[string][]byte),
	}
}

func (m *MemoryStateStore) get(key string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.records[key]
	if !ok {
		return storage.ErrNotFound
	}
	return json.Unmarshal(payload, out)
}

func (m *MemoryStateStore) set(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = payload
	return nil
}

func (m *MemoryStateStore) GetOwner(ctx context.Context) (models.Principal, error) {
	var owner models.Principal
	if err := m.get(storage.KeyOwner, &owner); err != nil {
		return "", err
	}
	return owner, nil
}

func (m *MemoryStateStore) SetOwner(ctx context.Context, owner models.Principal) error {
	return m.set(storage.KeyOwner, owner)
}

func (m *MemoryStateStore) GetOperators(ctx context.Context) ([]models.Principal, error) {
	var operators []models.Principal
	if err := m.get(storage.KeyOperators, &operators); err != nil {
		return nil, err
	}
	return operators, nil
}

func (m *MemoryStateStore) SetOperators(ctx context.Context, operators []models.Principal) error {
	if operators == nil {
		operators = []models.Principal{}
	}
	return m.set(storage.KeyOperators, operators)
}

func (m *MemoryStateStore) GetBudget(ctx context.Context) (models.BudgetState, error) {
	var budget models.BudgetState
	if err := m.get(storage.KeyBudget, &budget); err != nil {
		return models.BudgetState{}, err
	}
	return budget, nil
}

func (m *MemoryStateStore) SetBudget(ctx context.Context, budget models.BudgetState) error {
	return m.set(storage.KeyBudget, budget)
}

// SaveSnapshot marshals all three records before touching the map, so a
// marshal failure leaves the store untouched.
func (m *MemoryStateStore) SaveSnapshot(ctx context.Context, owner models.Principal, operators []models.Principal, budget models.BudgetState) error {
	if operators == nil {
		operators = []models.Principal{}
	}

	ownerPayload, err := json.Marshal(owner)
	if err != nil {
		return err
	}
	operatorsPayload, err := json.Marshal(operators)
	if err != nil {
		return err
	}
	budgetPayload, err := json.Marshal(budget)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[storage.KeyOwner] = ownerPayload
	m.records[storage.KeyOperators] = operatorsPayload
	m.records[storage.KeyBudget] = budgetPayload
	return nil
}

// Compile-time check: MemoryStateStore implements StateStore.
var _ interfaces.StateStore = (*MemoryStateStore)(nil)
