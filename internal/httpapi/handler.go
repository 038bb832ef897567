// Package httpapi exposes the allocator's operations over a JSON HTTP API.
// Amounts cross this boundary as decimal strings or numbers and are parsed
// through shopspring/decimal before entering the 128-bit domain.
package httpapi

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/arywk40-hue/governance-budget-allocator/internal/auth"
	"github.com/arywk40-hue/governance-budget-allocator/internal/ledger"
	"github.com/arywk40-hue/governance-budget-allocator/internal/logger"
	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
)

// Proof headers carried on every authenticated mutation.
const (
	HeaderNonce     = "X-Auth-Nonce"
	HeaderSignature = "X-Auth-Signature"
)

type Handler struct {
	allocator *ledger.Allocator
	log       *logger.Logger
}

func NewHandler(allocator *ledger.Allocator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{allocator: allocator, log: log}
}

// Mux returns the route table.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/initialize", h.handleInitialize)
	mux.HandleFunc("/operators/add", h.handleAddOperator)
	mux.HandleFunc("/operators/remove", h.handleRemoveOperator)
	mux.HandleFunc("/operators/check", h.handleCheckOperator)
	mux.HandleFunc("/operators", h.handleGetOperators)
	mux.HandleFunc("/budget/increase", h.handleIncrease)
	mux.HandleFunc("/budget/decrease", h.handleDecrease)
	mux.HandleFunc("/budget", h.handleGetBudget)
	mux.HandleFunc("/owner", h.handleGetOwner)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Owner   string          `json:"owner"`
		Initial decimal.Decimal `json:"initial"`
		Min     decimal.Decimal `json:"min"`
		Max     decimal.Decimal `json:"max"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	initial, err := models.Int128FromDecimal(req.Initial)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	min, err := models.Int128FromDecimal(req.Min)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	max, err := models.Int128FromDecimal(req.Max)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.allocator.Initialize(r.Context(), models.Principal(req.Owner), initial, min, max); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "initialized"})
}

func (h *Handler) handleAddOperator(w http.ResponseWriter, r *http.Request) {
	h.handleOperatorMutation(w, r, h.allocator.AddOperator)
}

func (h *Handler) handleRemoveOperator(w http.ResponseWriter, r *http.Request) {
	h.handleOperatorMutation(w, r, h.allocator.RemoveOperator)
}

func (h *Handler) handleOperatorMutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller models.Principal, proof models.CallProof, operator models.Principal) error) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Caller   string `json:"caller"`
		Operator string `json:"operator"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	proof, err := proofFrom(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := op(r.Context(), models.Principal(req.Caller), proof, models.Principal(req.Operator)); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleBudgetMutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller models.Principal, proof models.CallProof, amount models.Int128) (models.Int128, error)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Caller string          `json:"caller"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	amount, err := models.Int128FromDecimal(req.Amount)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	proof, err := proofFrom(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	newValue, err := op(r.Context(), models.Principal(req.Caller), proof, amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.Int128{"new_value": newValue})
}

func (h *Handler) handleCheckOperator(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		writeBadRequest(w, "address is a mandatory field")
		return
	}

	isOperator, err := h.allocator.IsOperator(r.Context(), models.Principal(address))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address":     address,
		"is_operator": isOperator,
	})
}

func (h *Handler) handleGetOperators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	operators, err := h.allocator.GetOperators(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"operators": operators})
}

func (h *Handler) handleIncrease(w http.ResponseWriter, r *http.Request) {
	h.handleBudgetMutation(w, r, h.allocator.IncreaseBudget)
}

func (h *Handler) handleDecrease(w http.ResponseWriter, r *http.Request) {
	h.handleBudgetMutation(w, r, h.allocator.DecreaseBudget)
}

func (h *Handler) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	budget, err := h.allocator.GetBudget(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, budget)
}

func (h *Handler) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	owner, err := h.allocator.GetOwner(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"owner": owner.String()})
}

// proofFrom builds a call proof from the request headers. The operation
// name is stamped in by the allocator itself.
func proofFrom(r *http.Request) (models.CallProof, error) {
	sig, err := hex.DecodeString(r.Header.Get(HeaderSignature))
	if err != nil {
		return models.CallProof{}, errors.New("X-Auth-Signature is not hex")
	}
	return models.CallProof{
		Nonce:     r.Header.Get(HeaderNonce),
		Signature: sig,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var budgetErr ledger.BudgetError
	switch {
	case errors.As(err, &budgetErr):
		writeJSON(w, statusForBudgetError(budgetErr), map[string]any{
			"code":  budgetErr.Code(),
			"error": budgetErr.Error(),
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotInitialized), errors.Is(err, ledger.ErrAlreadyInitialized):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func statusForBudgetError(err ledger.BudgetError) int {
	switch err {
	case ledger.ErrNotOwner, ledger.ErrNotOperator:
		return http.StatusForbidden
	case ledger.ErrAlreadyOperator, ledger.ErrNotOperatorFound:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
