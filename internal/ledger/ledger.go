package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	interfaces "github.com/arywk40-hue/governance-budget-allocator/internal/interfaces"
	"github.com/arywk40-hue/governance-budget-allocator/internal/logger"
	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
	eventmodels "github.com/arywk40-hue/governance-budget-allocator/internal/models/events"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage"
)

// Operation names, bound into call proofs so a signature authorizes exactly
// one kind of call.
const (
	OpAddOperator    = "add_operator"
	OpRemoveOperator = "remove_operator"
	OpIncreaseBudget = "increase_budget"
	OpDecreaseBudget = "decrease_budget"
)

// Topics the allocator publishes change events to.
const (
	TopicBudgetChanged   = "budget_changed"
	TopicOperatorChanged = "operator_changed"
)

// Allocator is the governance budget ledger: one owner, an ordered operator
// set, and a bounded budget value, all behind a single-writer boundary.
// Every operation reads state, validates caller and invariants, then writes
// back; validation strictly precedes mutation on every path.
type Allocator struct {
	store  interfaces.StateStore
	auth   interfaces.Authenticator
	events interfaces.EventPublisher // optional
	log    *logger.Logger

	// mu serializes all operations so no two interleave their read and
	// write phases.
	mu sync.Mutex
}

// NewAllocator wires the allocator to its collaborators. events may be nil;
// log may be nil, in which case logging is discarded.
func NewAllocator(store interfaces.StateStore, authn interfaces.Authenticator, events interfaces.EventPublisher, log *logger.Logger) *Allocator {
	if log == nil {
		log = logger.Nop()
	}
	return &Allocator{
		store:  store,
		auth:   authn,
		events: events,
		log:    log,
	}
}

// Initialize creates the three ledger records. It fails with
// ErrInvalidLimits unless min <= initial <= max, and with
// ErrAlreadyInitialized if the instance is already active; in both cases
// nothing is written. No caller authentication: the deployment mechanism is
// trusted to gate who invokes this, once per instance.
func (a *Allocator) Initialize(ctx context.Context, owner models.Principal, initial, min, max models.Int128) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if min.Cmp(initial) > 0 || initial.Cmp(max) > 0 {
		return ErrInvalidLimits
	}

	_, err := a.store.GetOwner(ctx)
	if err == nil {
		return ErrAlreadyInitialized
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	budget := models.BudgetState{Current: initial, Min: min, Max: max}
	if err := a.store.SaveSnapshot(ctx, owner, []models.Principal{}, budget); err != nil {
		return err
	}

	a.log.Info("ledger initialized",
		"owner", owner.String(),
		"initial", initial.String(),
		"min", min.String(),
		"max", max.String(),
	)
	return nil
}

// AddOperator appends operator to the operator set. Owner only.
func (a *Allocator) AddOperator(ctx context.Context, caller models.Principal, proof models.CallProof, operator models.Principal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAuth(ctx, caller, proof, OpAddOperator); err != nil {
		return err
	}
	if err := a.requireOwner(ctx, caller); err != nil {
		return err
	}

	operators, err := a.loadOperators(ctx)
	if err != nil {
		return err
	}
	for _, op := range operators {
		if op.Equal(operator) {
			return ErrAlreadyOperator
		}
	}

	operators = append(operators, operator)
	if err := a.store.SetOperators(ctx, operators); err != nil {
		return err
	}

	a.log.Info("operator added", "caller", caller.String(), "operator", operator.String())
	a.publish(TopicOperatorChanged, eventmodels.OperatorChanged{
		EventID:    uuid.NewString(),
		Action:     "added",
		Owner:      caller.String(),
		Operator:   operator.String(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// RemoveOperator removes operator from the set, preserving the relative
// order of the remaining entries. Owner only.
func (a *Allocator) RemoveOperator(ctx context.Context, caller models.Principal, proof models.CallProof, operator models.Principal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAuth(ctx, caller, proof, OpRemoveOperator); err != nil {
		return err
	}
	if err := a.requireOwner(ctx, caller); err != nil {
		return err
	}

	operators, err := a.loadOperators(ctx)
	if err != nil {
		return err
	}

	found := false
	remaining := make([]models.Principal, 0, len(operators))
	for _, op := range operators {
		if op.Equal(operator) {
			found = true
			continue
		}
		remaining = append(remaining, op)
	}
	if !found {
		return ErrNotOperatorFound
	}

	if err := a.store.SetOperators(ctx, remaining); err != nil {
		return err
	}

	a.log.Info("operator removed", "caller", caller.String(), "operator", operator.String())
	a.publish(TopicOperatorChanged, eventmodels.OperatorChanged{
		EventID:    uuid.NewString(),
		Action:     "removed",
		Owner:      caller.String(),
		Operator:   operator.String(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// IncreaseBudget adds amount to the current value. Operators only. The
// amount's sign is deliberately not validated: a negative amount behaves as
// an addition and can legally move the value toward min.
func (a *Allocator) IncreaseBudget(ctx context.Context, caller models.Principal, proof models.CallProof, amount models.Int128) (models.Int128, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAuth(ctx, caller, proof, OpIncreaseBudget); err != nil {
		return models.Int128{}, err
	}
	if err := a.requireOperator(ctx, caller); err != nil {
		return models.Int128{}, err
	}

	budget, err := a.loadBudget(ctx)
	if err != nil {
		return models.Int128{}, err
	}

	newValue, ok := budget.Current.CheckedAdd(amount)
	if !ok {
		return models.Int128{}, ErrOverflow
	}
	if newValue.Cmp(budget.Max) > 0 {
		return models.Int128{}, ErrExceedsMax
	}
	// A negative amount moves the value down, so the lower bound applies too.
	if newValue.Cmp(budget.Min) < 0 {
		return models.Int128{}, ErrBelowMin
	}

	budget.Current = newValue
	if err := a.store.SetBudget(ctx, budget); err != nil {
		return models.Int128{}, err
	}

	a.log.Info("budget increased", "caller", caller.String(), "amount", amount.String(), "new_value", newValue.String())
	a.publishBudgetChanged(OpIncreaseBudget, caller, amount, newValue)
	return newValue, nil
}

// DecreaseBudget subtracts amount from the current value. Operators only.
// Symmetric with IncreaseBudget, including the absence of sign validation.
func (a *Allocator) DecreaseBudget(ctx context.Context, caller models.Principal, proof models.CallProof, amount models.Int128) (models.Int128, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAuth(ctx, caller, proof, OpDecreaseBudget); err != nil {
		return models.Int128{}, err
	}
	if err := a.requireOperator(ctx, caller); err != nil {
		return models.Int128{}, err
	}

	budget, err := a.loadBudget(ctx)
	if err != nil {
		return models.Int128{}, err
	}

	newValue, ok := budget.Current.CheckedSub(amount)
	if !ok {
		return models.Int128{}, ErrUnderflow
	}
	if newValue.Cmp(budget.Min) < 0 {
		return models.Int128{}, ErrBelowMin
	}
	// A negative amount moves the value up, so the upper bound applies too.
	if newValue.Cmp(budget.Max) > 0 {
		return models.Int128{}, ErrExceedsMax
	}

	budget.Current = newValue
	if err := a.store.SetBudget(ctx, budget); err != nil {
		return models.Int128{}, err
	}

	a.log.Info("budget decreased", "caller", caller.String(), "amount", amount.String(), "new_value", newValue.String())
	a.publishBudgetChanged(OpDecreaseBudget, caller, amount, newValue)
	return newValue, nil
}

// GetBudget returns the budget record. No authentication.
func (a *Allocator) GetBudget(ctx context.Context) (models.BudgetState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.loadBudget(ctx)
}

// GetOwner returns the owner principal. No authentication.
func (a *Allocator) GetOwner(ctx context.Context) (models.Principal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	owner, err := a.store.GetOwner(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNotInitialized
	}
	return owner, err
}

// GetOperators returns the operator set in insertion order.
func (a *Allocator) GetOperators(ctx context.Context) ([]models.Principal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.loadOperators(ctx)
}

// IsOperator reports whether address is a member of the operator set.
func (a *Allocator) IsOperator(ctx context.Context, address models.Principal) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	operators, err := a.loadOperators(ctx)
	if err != nil {
		return false, err
	}
	for _, op := range operators {
		if op.Equal(address) {
			return true, nil
		}
	}
	return false, nil
}

// requireAuth stamps the operation name into the proof so the verified
// message is bound to this entry point, then defers to the authenticator.
func (a *Allocator) requireAuth(ctx context.Context, caller models.Principal, proof models.CallProof, operation string) error {
	proof.Operation = operation
	if err := a.auth.RequireAuth(ctx, caller, proof); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (a *Allocator) requireOwner(ctx context.Context, caller models.Principal) error {
	owner, err := a.store.GetOwner(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}
	if !caller.Equal(owner) {
		return ErrNotOwner
	}
	return nil
}

func (a *Allocator) requireOperator(ctx context.Context, caller models.Principal) error {
	operators, err := a.loadOperators(ctx)
	if err != nil {
		return err
	}
	for _, op := range operators {
		if op.Equal(caller) {
			return nil
		}
	}
	return ErrNotOperator
}

func (a *Allocator) loadOperators(ctx context.Context) ([]models.Principal, error) {
	operators, err := a.store.GetOperators(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	return operators, err
}

func (a *Allocator) loadBudget(ctx context.Context) (models.BudgetState, error) {
	budget, err := a.store.GetBudget(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return models.BudgetState{}, ErrNotInitialized
	}
	return budget, err
}

func (a *Allocator) publishBudgetChanged(operation string, caller models.Principal, amount, newValue models.Int128) {
	a.publish(TopicBudgetChanged, eventmodels.BudgetChanged{
		EventID:    uuid.NewString(),
		Operation:  operation,
		Caller:     caller.String(),
		Amount:     amount,
		NewValue:   newValue,
		OccurredAt: time.Now().UTC(),
	})
}

// publish is best-effort: events supplement the ledger, they never roll
// back a committed state change.
func (a *Allocator) publish(topic string, event any) {
	if a.events == nil {
		return
	}
	if err := a.events.Publish(topic, event); err != nil {
		a.log.Warn("event publish failed", "topic", topic, "error", err)
	}
}
