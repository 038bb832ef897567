package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	interfaces "github.com/arywk40-hue/governance-budget-allocator/internal/interfaces"
	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage"
)

// PostgresStateStore persists the three ledger records as keyed JSONB rows.
type PostgresStateStore struct {
	db *sql.DB
}

func NewPostgresStateStore(db *sql.DB) *PostgresStateStore {
	return &PostgresStateStore{
		db: db,
	}
}

// EnsureSchema creates the records table if it does not exist.
func (p *PostgresStateStore) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS ledger_records (
		record_key TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	_, err := p.db.ExecContext(ctx, query)
	return err
}

func (p *PostgresStateStore) getRecord(ctx context.Context, key string, out any) error {
	const query = `SELECT payload FROM ledger_records WHERE record_key = $1`

	var payload []byte
	err := p.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(payload, out)
}

func (p *PostgresStateStore) setRecord(ctx context.Context, tx *sql.Tx, key string, value any) error {
	const query = `INSERT INTO ledger_records (record_key, payload, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (record_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, key, payload)
	} else {
		_, err = p.db.ExecContext(ctx, query, key, payload)
	}
	return err
}

func (p *PostgresStateStore) GetOwner(ctx context.Context) (models.Principal, error) {
	var owner models.Principal
	if err := p.getRecord(ctx, storage.KeyOwner, &owner); err != nil {
		return "", err
	}
	return owner, nil
}

func (p *PostgresStateStore) SetOwner(ctx context.Context, owner models.Principal) error {
	return p.setRecord(ctx, nil, storage.KeyOwner, owner)
}

func (p *PostgresStateStore) GetOperators(ctx context.Context) ([]models.Principal, error) {
	var operators []models.Principal
	if err := p.getRecord(ctx, storage.KeyOperators, &operators); err != nil {
		return nil, err
	}
	return operators, nil
}

func (p *PostgresStateStore) SetOperators(ctx context.Context, operators []models.Principal) error {
	if operators == nil {
		operators = []models.Principal{}
	}
	return p.setRecord(ctx, nil, storage.KeyOperators, operators)
}

func (p *PostgresStateStore) GetBudget(ctx context.Context) (models.BudgetState, error) {
	var budget models.BudgetState
	if err := p.getRecord(ctx, storage.KeyBudget, &budget); err != nil {
		return models.BudgetState{}, err
	}
	return budget, nil
}

func (p *PostgresStateStore) SetBudget(ctx context.Context, budget models.BudgetState) error {
	return p.setRecord(ctx, nil, storage.KeyBudget, budget)
}

// SaveSnapshot writes all three records in one transaction.
func (p *PostgresStateStore) SaveSnapshot(ctx context.Context, owner models.Principal, operators []models.Principal, budget models.BudgetState) error {
	if operators == nil {
		operators = []models.Principal{}
	}

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	err = p.setRecord(ctx, dbTx, storage.KeyOwner, owner)
	if err != nil {
		return err
	}

	err = p.setRecord(ctx, dbTx, storage.KeyOperators, operators)
	if err != nil {
		return err
	}

	err = p.setRecord(ctx, dbTx, storage.KeyBudget, budget)
	if err != nil {
		return err
	}

	return dbTx.Commit()
}

var _ interfaces.StateStore = (*PostgresStateStore)(nil)
