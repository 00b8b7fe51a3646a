package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finbook/investment-ledger/internal/config"
	kafkapub "github.com/finbook/investment-ledger/internal/events/kafka"
	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/ledger"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/ownership"
	"github.com/finbook/investment-ledger/internal/storage/memory"
	"github.com/finbook/investment-ledger/internal/storage/postgres"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system env vars")
	}
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	var store interfaces.LedgerStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("ping database", zap.Error(err))
		}
		store = postgres.NewPostgresLedgerStore(db)
		logger.Info("using postgres store")
	} else {
		store = memory.NewMemoryLedgerStore()
		logger.Info("using in-memory store")
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub := kafkapub.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		publisher = pub
	}

	dir := ledger.NewDirectory(store, cache)
	writer := ledger.NewWriter(store, publisher, cfg.KafkaTopic, logger)
	gate := ownership.NewGate(store, cfg.AdminUserIDs)
	svc := ledger.NewService(dir, writer, gate, ledger.CallerSuppliedCost{}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/gl/transfer", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID          string          `json:"user_id"`
			FromGLAccountID string          `json:"from_gl_account_id"`
			ToGLAccountID   string          `json:"to_gl_account_id"`
			Amount          decimal.Decimal `json:"amount"`
			Currency        models.Currency `json:"currency"`
			Date            string          `json:"date,omitempty"`
			Memo            string          `json:"memo,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		entry, err := svc.PostTransfer(r.Context(), req.UserID, ledger.TransferParams{
			FromAccountID: req.FromGLAccountID,
			ToAccountID:   req.ToGLAccountID,
			Amount:        req.Amount,
			Currency:      req.Currency,
			Date:          parseDate(req.Date),
			Memo:          req.Memo,
		})
		respondEntry(w, entry, err)
	})

	r.Post("/gl/expense", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID             string          `json:"user_id"`
			PayFromGLAccountID string          `json:"pay_from_gl_account_id"`
			ExpenseGLAccountID string          `json:"expense_gl_account_id"`
			Amount             decimal.Decimal `json:"amount"`
			Currency           models.Currency `json:"currency"`
			Date               string          `json:"date,omitempty"`
			Memo               string          `json:"memo,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		entry, err := svc.PostExpense(r.Context(), req.UserID, ledger.ExpenseParams{
			PayFromAccountID: req.PayFromGLAccountID,
			ExpenseAccountID: req.ExpenseGLAccountID,
			Amount:           req.Amount,
			Currency:         req.Currency,
			Date:             parseDate(req.Date),
			Memo:             req.Memo,
		})
		respondEntry(w, entry, err)
	})

	r.Post("/gl/income", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID               string          `json:"user_id"`
			ReceiveToGLAccountID string          `json:"receive_to_gl_account_id"`
			IncomeGLAccountID    string          `json:"income_gl_account_id"`
			Amount               decimal.Decimal `json:"amount"`
			Currency             models.Currency `json:"currency"`
			Date                 string          `json:"date,omitempty"`
			Memo                 string          `json:"memo,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		entry, err := svc.PostIncome(r.Context(), req.UserID, ledger.IncomeParams{
			ReceiveToAccountID: req.ReceiveToGLAccountID,
			IncomeAccountID:    req.IncomeGLAccountID,
			Amount:             req.Amount,
			Currency:           req.Currency,
			Date:               parseDate(req.Date),
			Memo:               req.Memo,
		})
		respondEntry(w, entry, err)
	})

	r.Post("/gl/transactions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID      string             `json:"user_id"`
			Transaction models.Transaction `json:"transaction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		entry, err := svc.PostTransaction(r.Context(), req.UserID, req.Transaction)
		respondEntry(w, entry, err)
	})

	r.Get("/gl/entries", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is a mandatory field")
			return
		}
		entries, err := svc.ListEntries(r.Context(), userID)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})

	r.Get("/gl/accounts/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is a mandatory field")
			return
		}
		accountID := chi.URLParam(r, "id")
		balance, err := svc.AccountBalance(r.Context(), userID, accountID)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"account_id": accountID,
			"balance":    balance,
		})
	})

	logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}

func respondEntry(w http.ResponseWriter, entry *models.GLEntry, err error) {
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// statusFor maps engine errors onto HTTP status codes: ownership failures
// keep their not-found/forbidden distinction, everything the caller can fix
// is a 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrMixedCurrency),
		errors.Is(err, ledger.ErrNoLines),
		errors.Is(err, ledger.ErrNegativeLineAmount):
		return http.StatusBadRequest
	}

	var notBalanced *ledger.EntryNotBalancedError
	var resolution *ledger.AccountResolutionError
	var unsupported *ledger.UnsupportedTransactionTypeError
	if errors.As(err, &notBalanced) || errors.As(err, &resolution) || errors.As(err, &unsupported) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
