package model

import "time"

// WalletType distinguishes personal wallets from group wallets.
type WalletType string

const (
	WalletTypeUser  WalletType = "user"
	WalletTypeGroup WalletType = "contribution"
)

// Wallet is a user or group balance with an attached virtual account for
// bank-transfer funding.
type Wallet struct {
	ID                   string     `json:"id"`
	OwnerID              string     `json:"owner_id"`
	Type                 WalletType `json:"type"`
	Balance              float64    `json:"balance"`
	VirtualAccountNumber string     `json:"virtual_account_number"`
	VirtualBankName      string     `json:"virtual_bank_name"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TransactionType is the kind of money movement.
type TransactionType string

const (
	TxContribution TransactionType = "contribution"
	TxPayout       TransactionType = "payout"
	TxWallet       TransactionType = "wallet"
)

// TransactionStatus is the backend-reported settlement state.
type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxSuccess TransactionStatus = "success"
	TxFailed  TransactionStatus = "failed"
)

// Transaction is a single ledger entry between two wallets.
type Transaction struct {
	ID             string            `json:"id"`
	FromWallet     string            `json:"from_wallet"`
	ToWallet       string            `json:"to_wallet"`
	Amount         float64           `json:"amount"`
	Type           TransactionType   `json:"type"`
	Date           time.Time         `json:"date"`
	PaymentMethod  string            `json:"payment_method"`
	Status         TransactionStatus `json:"status"`
	ContributionID string            `json:"contribution_id,omitempty"`
	Description    string            `json:"description,omitempty"`
	TxRef          string            `json:"tx_ref"`
	CreatedAt      time.Time         `json:"created_at"`
}
