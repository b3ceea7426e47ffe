package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shu8h0-null/goblin/core/blockchain"
	"github.com/shu8h0-null/goblin/core/logger"
)

var log = logger.NewLogger()

// NewHandler routes the REST verbs, the JSON-RPC endpoint and, when metrics is non-nil, the
// Prometheus scrape endpoint.
func NewHandler(s Server, metrics http.Handler) http.Handler {
	h := &httpHandler{server: s}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mine", h.mine)
	mux.HandleFunc("POST /transactions/new", h.newTransaction)
	mux.HandleFunc("GET /chain", h.chain)
	mux.HandleFunc("GET /balance/{address}", h.balance)
	mux.HandleFunc("GET /wallet", h.wallet)
	mux.Handle(RPCPath, newJSONRPCServer(NewRPCHandler(s)))
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	return mux
}

type httpHandler struct {
	server Server
}

func (h *httpHandler) mine(w http.ResponseWriter, r *http.Request) {
	block, err := h.server.Mine(r.Context())
	if err != nil {
		log.Errorf("Mining failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Failed to mine block: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newMineResult(block))
}

// transactionBody takes amount as raw JSON so both 10 and "10" are accepted; the ledger does
// the numeric validation.
type transactionBody struct {
	Sender    *string         `json:"sender"`
	Recipient *string         `json:"recipient"`
	Amount    json.RawMessage `json:"amount"`
}

func (h *httpHandler) newTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON format"})
		return
	}
	if body.Sender == nil || body.Recipient == nil || len(body.Amount) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Missing values"})
		return
	}

	index, err := h.server.SubmitTransaction(*body.Sender, *body.Recipient, amountText(body.Amount))
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, newTransactionResult(index))
}

func (h *httpHandler) chain(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newChainResult(h.server.Chain()))
}

func (h *httpHandler) balance(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	writeJSON(w, http.StatusOK, BalanceResult{Address: address, Balance: h.server.Balance(address)})
}

func (h *httpHandler) wallet(w http.ResponseWriter, r *http.Request) {
	id := h.server.NodeIdentifier()
	writeJSON(w, http.StatusOK, WalletResult{NodeIdentifier: id, Balance: h.server.Balance(id)})
}

// amountText unwraps a JSON string and passes any other literal through as written.
func amountText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func statusFor(err error) int {
	var verr *blockchain.ValidationError
	var insufficient *blockchain.InsufficientBalanceError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}

// StartRPC serves handler on addr until ctx is cancelled, then shuts down gracefully.
func StartRPC(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Serving ledger API on http://%s (JSON-RPC at %s)", addr, RPCPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
