package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the business type of a brokerage transaction.
type TxType string

const (
	TxTransfer TxType = "transfer"
	TxExpense  TxType = "expense"
	TxIncome   TxType = "income"
	TxDeposit  TxType = "deposit"
	TxWithdraw TxType = "withdraw"
	TxBuy      TxType = "buy"
	TxSell     TxType = "sell"
	TxDividend TxType = "dividend"
	TxFee      TxType = "fee"
)

// Transaction is the business event the posting engine consumes. It is owned
// by the CRUD layer and treated as immutable input here. AccountID references
// the cash-holding account whose currency governs the posting. Amount,
// Quantity, Price and Fee are optional; a zero Amount means "derive from
// quantity, price and fee". Cost is the caller-supplied disposed cost basis
// for sells, zero when absent.
type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	AssetID   string          `json:"asset_id,omitempty"`
	Type      TxType          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`
	Cost      decimal.Decimal `json:"cost"`
	TradeTime time.Time       `json:"trade_time"`
	Note      string          `json:"note,omitempty"`
}
