package ledger_test

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/finbook/investment-ledger/internal/ledger"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/ownership"
	"github.com/finbook/investment-ledger/internal/storage/memory"
)

const (
	ownerID = "user-1"
	otherID = "user-2"
	adminID = "admin-1"

	brokerAccountID    = "broker-acct-twd"
	brokerAccountIDUSD = "broker-acct-usd"

	cashAccountID     = "gl-cash-twd"
	cashAccountIDUSD  = "gl-cash-usd"
	bankAccountID     = "gl-bank-twd"
	investAccountID   = "gl-invest-twd"
	equityAccountID   = "gl-equity"
	feeAccountID      = "gl-fees"
	dividendAccountID = "gl-dividends"
	gainAccountID     = "gl-realized-gains"
	lossAccountID     = "gl-realized-losses"
	foodAccountID     = "gl-food"
	salaryAccountID   = "gl-salary"
	otherCashID       = "gl-other-cash"
)

// newFixture seeds a memory store with the account chart one owner needs for
// every posting rule, plus a USD cash account that deliberately has no USD
// investment bucket, and one account belonging to somebody else.
func newFixture(t *testing.T) (*ledger.Service, *memory.MemoryLedgerStore) {
	t.Helper()

	store := memory.NewMemoryLedgerStore()
	now := time.Now()
	seed := []models.GLAccount{
		{ID: cashAccountID, OwnerID: ownerID, Name: "Cash - Broker (TWD)", Type: models.AccountAsset, Currency: models.TWD, LinkedAccountID: brokerAccountID, CreatedAt: now},
		{ID: cashAccountIDUSD, OwnerID: ownerID, Name: "Cash - Broker (USD)", Type: models.AccountAsset, Currency: models.USD, LinkedAccountID: brokerAccountIDUSD, CreatedAt: now},
		{ID: bankAccountID, OwnerID: ownerID, Name: "Bank Savings", Type: models.AccountAsset, Currency: models.TWD, CreatedAt: now},
		{ID: investAccountID, OwnerID: ownerID, Name: "Investments (TWD)", Type: models.AccountAsset, Currency: models.TWD, Role: models.RoleInvestmentBucket, CreatedAt: now},
		{ID: equityAccountID, OwnerID: ownerID, Name: "Owner Equity", Type: models.AccountEquity, Currency: models.TWD, Role: models.RoleEquity, CreatedAt: now},
		{ID: feeAccountID, OwnerID: ownerID, Name: "Brokerage Fees", Type: models.AccountExpense, Currency: models.TWD, Role: models.RoleFeeExpense, CreatedAt: now},
		{ID: dividendAccountID, OwnerID: ownerID, Name: "Dividend Income", Type: models.AccountIncome, Currency: models.TWD, Role: models.RoleDividendIncome, CreatedAt: now},
		{ID: gainAccountID, OwnerID: ownerID, Name: "Realized Gains", Type: models.AccountIncome, Currency: models.TWD, Role: models.RoleRealizedGainIncome, CreatedAt: now},
		{ID: lossAccountID, OwnerID: ownerID, Name: "Realized Losses", Type: models.AccountExpense, Currency: models.TWD, Role: models.RoleRealizedLossExpense, CreatedAt: now},
		{ID: foodAccountID, OwnerID: ownerID, Name: "Food", Type: models.AccountExpense, Currency: models.TWD, CreatedAt: now},
		{ID: salaryAccountID, OwnerID: ownerID, Name: "Salary", Type: models.AccountIncome, Currency: models.TWD, CreatedAt: now},
		{ID: otherCashID, OwnerID: otherID, Name: "Other Cash", Type: models.AccountAsset, Currency: models.TWD, CreatedAt: now},
	}
	for _, acct := range seed {
		store.SeedAccount(acct)
	}

	dir := ledger.NewDirectory(store, nil)
	writer := ledger.NewWriter(store, nil, "", zap.NewNop())
	gate := ownership.NewGate(store, []string{adminID})
	svc := ledger.NewService(dir, writer, gate, ledger.CallerSuppliedCost{}, zap.NewNop())
	return svc, store
}

// lineFor picks the single line touching the account, failing the test when
// the account appears zero or multiple times.
func lineFor(t *testing.T, lines []models.GLLine, accountID string) models.GLLine {
	t.Helper()

	var found *models.GLLine
	for i := range lines {
		if lines[i].AccountID == accountID {
			if found != nil {
				t.Fatalf("account %s appears on multiple lines", accountID)
			}
			found = &lines[i]
		}
	}
	if found == nil {
		t.Fatalf("no line for account %s", accountID)
	}
	return *found
}
