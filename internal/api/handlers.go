package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/barzarena/backend/internal/auth"
	"github.com/barzarena/backend/internal/repos/accounts"
	"github.com/barzarena/backend/internal/repos/contests"
	"github.com/barzarena/backend/internal/services/session"
	"github.com/barzarena/backend/internal/services/wagering"
)

// HandlerProvider wraps the session controller and exposes HTTP handlers.
type HandlerProvider struct {
	sess    *session.Service
	authSvc *auth.Service
	tokens  *auth.TokenManager
	catalog contests.Catalog
}

// NewHandler returns a new handler provider.
func NewHandler(sess *session.Service, authSvc *auth.Service, tokens *auth.TokenManager, catalog contests.Catalog) *HandlerProvider {
	return &HandlerProvider{sess: sess, authSvc: authSvc, tokens: tokens, catalog: catalog}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}

	return true
}

// writeDomainError maps the core's typed conditions to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrDuplicateName):
		writeError(w, http.StatusConflict, "username already registered")
	case errors.Is(err, accounts.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, contests.ErrContestNotFound):
		writeError(w, http.StatusNotFound, "contest not found")
	case errors.Is(err, wagering.ErrInvalidStake),
		errors.Is(err, session.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, wagering.ErrInvalidSelection):
		writeError(w, http.StatusBadRequest, "chosen side is not a contestant")
	case errors.Is(err, wagering.ErrInsufficientBalance),
		errors.Is(err, accounts.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient balance")
	case errors.Is(err, session.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "no active session")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireSession couples the bearer token to the in-memory session: the
// token must belong to the account currently logged in.
func (h *HandlerProvider) requireSession(w http.ResponseWriter, r *http.Request) bool {
	snap := h.sess.Current()
	if !snap.LoggedIn || snap.AccountID != accountIDFromContext(r.Context()) {
		writeError(w, http.StatusUnauthorized, "no active session")
		return false
	}

	return true
}

// --- DTOs ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResponse struct {
	AccountID int64  `json:"accountId"`
	Username  string `json:"username"`
	Balance   int64  `json:"balance"`
}

// contestResponse intentionally has no winner field; the predetermined
// winner never leaves the server before resolution.
type contestResponse struct {
	ID    int64  `json:"id"`
	SideA string `json:"sideA"`
	SideB string `json:"sideB"`
}

type wagerResponse struct {
	ID          string    `json:"id"`
	ContestID   int64     `json:"contestId"`
	Details     string    `json:"details"`
	ChosenSide  string    `json:"chosenSide"`
	Stake       int64     `json:"stake"`
	Outcome     string    `json:"outcome"`
	PayoutDelta int64     `json:"payoutDelta"`
	PlacedAt    time.Time `json:"placedAt"`
}

func toWagerResponse(w wagering.Wager) wagerResponse {
	return wagerResponse{
		ID:          w.ID.String(),
		ContestID:   w.ContestID,
		Details:     w.Details,
		ChosenSide:  w.ChosenSide,
		Stake:       w.Stake,
		Outcome:     string(w.Outcome),
		PayoutDelta: w.PayoutDelta,
		PlacedAt:    w.PlacedAt,
	}
}

// --- Handlers ---

// RegisterHandler handles POST /auth/register
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	accountID, err := h.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"accountId": accountID})
}

// LoginHandler handles POST /auth/login
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snap, err := h.sess.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.tokens.Issue(snap.AccountID)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"account": accountResponse{
			AccountID: snap.AccountID,
			Username:  snap.Username,
			Balance:   snap.BalanceMinor,
		},
	})
}

// LogoutHandler handles POST /auth/logout
func (h *HandlerProvider) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}

	h.sess.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetBalanceHandler handles GET /account/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}

	snap := h.sess.Current()
	writeJSON(w, http.StatusOK, accountResponse{
		AccountID: snap.AccountID,
		Username:  snap.Username,
		Balance:   snap.BalanceMinor,
	})
}

// ListContestsHandler handles GET /contests
func (h *HandlerProvider) ListContestsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]contestResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, contestResponse{ID: c.ID, SideA: c.SideA, SideB: c.SideB})
	}

	writeJSON(w, http.StatusOK, resp)
}

// RechargeHandler handles POST /account/recharge
func (h *HandlerProvider) RechargeHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	newBalance, err := h.sess.Recharge(r.Context(), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"newBalance": newBalance})
}

// PlaceWagerHandler handles POST /wagers
func (h *HandlerProvider) PlaceWagerHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}

	var req struct {
		ContestID  int64  `json:"contestId"`
		ChosenSide string `json:"chosenSide"`
		Stake      int64  `json:"stake"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.sess.PlaceWager(r.Context(), req.ContestID, req.ChosenSide, req.Stake)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"wager":      toWagerResponse(receipt.Wager),
		"outcome":    string(receipt.Outcome),
		"newBalance": receipt.NewBalance,
	})
}

// ListWagersHandler handles GET /wagers
func (h *HandlerProvider) ListWagersHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}

	wagers, err := h.sess.History(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]wagerResponse, 0, len(wagers))
	for _, wg := range wagers {
		resp = append(resp, toWagerResponse(wg))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CheckoutHandler handles POST /checkout
func (h *HandlerProvider) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}

	var req struct {
		Total int64 `json:"total"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := h.sess.Checkout(r.Context(), req.Total)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    ok,
		"newBalance": h.sess.Current().BalanceMinor,
	})
}
