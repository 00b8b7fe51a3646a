package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/models"
)

// Service is the posting engine's entry point: it translates caller intents
// and business transactions into validated, balanced line sets and hands
// them to the Writer. It holds no state of its own; each call is one atomic
// posting.
type Service struct {
	dir    *Directory
	writer *Writer
	gate   interfaces.OwnershipGate
	costs  CostBasisSource
	logger *zap.Logger
}

func NewService(dir *Directory, writer *Writer, gate interfaces.OwnershipGate, costs CostBasisSource, logger *zap.Logger) *Service {
	if costs == nil {
		costs = CallerSuppliedCost{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{dir: dir, writer: writer, gate: gate, costs: costs, logger: logger}
}

// TransferParams moves value between two of the caller's GL accounts.
type TransferParams struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      models.Currency
	Date          time.Time
	Memo          string
}

// PostTransfer books debit(to) / credit(from). Manual postings carry no
// reference id and are never superseded.
func (s *Service) PostTransfer(ctx context.Context, ownerID string, p TransferParams) (*models.GLEntry, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := s.gate.CheckGLAccount(ctx, p.FromAccountID, ownerID); err != nil {
		return nil, err
	}
	if err := s.gate.CheckGLAccount(ctx, p.ToAccountID, ownerID); err != nil {
		return nil, err
	}

	lines := []models.GLLine{
		{AccountID: p.ToAccountID, Side: models.SideDebit, Amount: p.Amount, Currency: p.Currency, Note: "transfer in"},
		{AccountID: p.FromAccountID, Side: models.SideCredit, Amount: p.Amount, Currency: p.Currency, Note: "transfer out"},
	}
	return s.writer.Write(ctx, ownerID, p.Date, p.Memo, "manual:transfer", lines, "")
}

// ExpenseParams books spending out of a cash/bank GL account.
type ExpenseParams struct {
	PayFromAccountID string
	ExpenseAccountID string
	Amount           decimal.Decimal
	Currency         models.Currency
	Date             time.Time
	Memo             string
}

// PostExpense books debit(expense) / credit(pay-from).
func (s *Service) PostExpense(ctx context.Context, ownerID string, p ExpenseParams) (*models.GLEntry, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := s.gate.CheckGLAccount(ctx, p.PayFromAccountID, ownerID); err != nil {
		return nil, err
	}
	if err := s.gate.CheckGLAccount(ctx, p.ExpenseAccountID, ownerID); err != nil {
		return nil, err
	}

	lines := []models.GLLine{
		{AccountID: p.ExpenseAccountID, Side: models.SideDebit, Amount: p.Amount, Currency: p.Currency, Note: "expense"},
		{AccountID: p.PayFromAccountID, Side: models.SideCredit, Amount: p.Amount, Currency: p.Currency, Note: "cash/bank out"},
	}
	return s.writer.Write(ctx, ownerID, p.Date, p.Memo, "manual:expense", lines, "")
}

// IncomeParams books income received into a cash/bank GL account.
type IncomeParams struct {
	ReceiveToAccountID string
	IncomeAccountID    string
	Amount             decimal.Decimal
	Currency           models.Currency
	Date               time.Time
	Memo               string
}

// PostIncome books debit(receive-to) / credit(income).
func (s *Service) PostIncome(ctx context.Context, ownerID string, p IncomeParams) (*models.GLEntry, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := s.gate.CheckGLAccount(ctx, p.ReceiveToAccountID, ownerID); err != nil {
		return nil, err
	}
	if err := s.gate.CheckGLAccount(ctx, p.IncomeAccountID, ownerID); err != nil {
		return nil, err
	}

	lines := []models.GLLine{
		{AccountID: p.ReceiveToAccountID, Side: models.SideDebit, Amount: p.Amount, Currency: p.Currency, Note: "cash/bank in"},
		{AccountID: p.IncomeAccountID, Side: models.SideCredit, Amount: p.Amount, Currency: p.Currency, Note: "income"},
	}
	return s.writer.Write(ctx, ownerID, p.Date, p.Memo, "manual:income", lines, "")
}

// PostTransaction builds the ledger entry for a recognized brokerage
// transaction. The entry currency is the linked cash GL account's currency
// and the entry carries the transaction id as reference, so re-posting the
// same transaction supersedes the earlier entry.
func (s *Service) PostTransaction(ctx context.Context, ownerID string, tx models.Transaction) (*models.GLEntry, error) {
	cash, err := s.dir.LinkedCash(ctx, tx.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.CheckGLAccount(ctx, cash.ID, ownerID); err != nil {
		return nil, err
	}

	ccy := cash.Currency
	date := tx.TradeTime

	switch tx.Type {
	case models.TxDeposit:
		// External contribution into this account: debit cash, credit equity.
		equity, err := s.dir.ByRole(ctx, ownerID, models.RoleEquity, "")
		if err != nil {
			return nil, err
		}
		lines := []models.GLLine{
			{AccountID: cash.ID, Side: models.SideDebit, Amount: tx.Amount, Currency: ccy, Note: "deposit in"},
			{AccountID: equity.ID, Side: models.SideCredit, Amount: tx.Amount, Currency: ccy, Note: "owner contribution"},
		}
		return s.writer.Write(ctx, ownerID, date, tx.Note, "auto:transaction:deposit", lines, tx.ID)

	case models.TxWithdraw:
		equity, err := s.dir.ByRole(ctx, ownerID, models.RoleEquity, "")
		if err != nil {
			return nil, err
		}
		lines := []models.GLLine{
			{AccountID: equity.ID, Side: models.SideDebit, Amount: tx.Amount, Currency: ccy, Note: "owner draw"},
			{AccountID: cash.ID, Side: models.SideCredit, Amount: tx.Amount, Currency: ccy, Note: "withdraw out"},
		}
		return s.writer.Write(ctx, ownerID, date, tx.Note, "auto:transaction:withdraw", lines, tx.ID)

	case models.TxBuy:
		// Fee is folded into cost basis, not booked separately.
		invest, err := s.dir.ByRole(ctx, ownerID, models.RoleInvestmentBucket, ccy)
		if err != nil {
			return nil, err
		}
		total := tx.Amount
		if total.IsZero() {
			total = tx.Quantity.Mul(tx.Price).Add(tx.Fee)
		}
		lines := []models.GLLine{
			{AccountID: invest.ID, Side: models.SideDebit, Amount: total, Currency: ccy, Note: "buy cost(+fee)"},
			{AccountID: cash.ID, Side: models.SideCredit, Amount: total, Currency: ccy, Note: "cash out"},
		}
		return s.writer.Write(ctx, ownerID, date, tx.Note, "auto:transaction:buy", lines, tx.ID)

	case models.TxSell:
		return s.postSell(ctx, ownerID, cash, tx)

	case models.TxDividend:
		div, err := s.dir.ByRole(ctx, ownerID, models.RoleDividendIncome, "")
		if err != nil {
			return nil, err
		}
		lines := []models.GLLine{
			{AccountID: cash.ID, Side: models.SideDebit, Amount: tx.Amount, Currency: ccy, Note: "dividend in"},
			{AccountID: div.ID, Side: models.SideCredit, Amount: tx.Amount, Currency: ccy, Note: "dividend income"},
		}
		return s.writer.Write(ctx, ownerID, date, tx.Note, "auto:transaction:dividend", lines, tx.ID)

	case models.TxFee:
		feeAcct, err := s.dir.ByRole(ctx, ownerID, models.RoleFeeExpense, "")
		if err != nil {
			return nil, err
		}
		amt := tx.Amount
		if amt.IsZero() {
			amt = tx.Fee
		}
		lines := []models.GLLine{
			{AccountID: feeAcct.ID, Side: models.SideDebit, Amount: amt, Currency: ccy, Note: "fee expense"},
			{AccountID: cash.ID, Side: models.SideCredit, Amount: amt, Currency: ccy, Note: "cash out"},
		}
		return s.writer.Write(ctx, ownerID, date, tx.Note, "auto:transaction:fee", lines, tx.ID)

	default:
		return nil, &UnsupportedTransactionTypeError{Type: tx.Type}
	}
}

// postSell books the disposal: cash takes the proceeds, the investment bucket
// gives up the disposed cost, and the remainder lands on a realized gain or
// loss account so the entry balances (proceeds = cost + pnl).
func (s *Service) postSell(ctx context.Context, ownerID string, cash *models.GLAccount, tx models.Transaction) (*models.GLEntry, error) {
	ccy := cash.Currency

	invest, err := s.dir.ByRole(ctx, ownerID, models.RoleInvestmentBucket, ccy)
	if err != nil {
		return nil, err
	}

	proceeds := tx.Amount
	if proceeds.IsZero() {
		proceeds = tx.Quantity.Mul(tx.Price).Sub(tx.Fee)
	}
	cost, err := s.costs.DisposedCost(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("disposed cost for tx %s: %w", tx.ID, err)
	}

	lines := []models.GLLine{
		{AccountID: cash.ID, Side: models.SideDebit, Amount: proceeds, Currency: ccy, Note: "cash in"},
		{AccountID: invest.ID, Side: models.SideCredit, Amount: cost, Currency: ccy, Note: "reduce cost"},
	}

	pnl := proceeds.Sub(cost)
	if !pnl.IsZero() {
		if pnl.IsPositive() {
			gain, err := s.dir.ByRole(ctx, ownerID, models.RoleRealizedGainIncome, "")
			if err != nil {
				return nil, err
			}
			lines = append(lines, models.GLLine{
				AccountID: gain.ID, Side: models.SideCredit, Amount: pnl, Currency: ccy, Note: "realized gain",
			})
		} else {
			loss, err := s.dir.ByRole(ctx, ownerID, models.RoleRealizedLossExpense, "")
			if err != nil {
				return nil, err
			}
			lines = append(lines, models.GLLine{
				AccountID: loss.ID, Side: models.SideDebit, Amount: pnl.Neg(), Currency: ccy, Note: "realized loss",
			})
		}
	}
	return s.writer.Write(ctx, ownerID, tx.TradeTime, tx.Note, "auto:transaction:sell", lines, tx.ID)
}
