package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ajorhq/ajor/internal/model"
)

// Wallet fetches the authenticated user's wallet.
func (c *Client) Wallet(ctx context.Context) (*model.Wallet, error) {
	var w model.Wallet
	if err := c.get(ctx, "/wallet", &w); err != nil {
		return nil, fmt.Errorf("api.Wallet: %w", err)
	}
	return &w, nil
}

// FundWalletRequest is the payload for POST /wallet/fund.
type FundWalletRequest struct {
	Amount float64 `json:"amount"`
	TxRef  string  `json:"tx_ref"`
}

// FundWallet initiates a wallet top-up. The transaction reference is
// generated client-side so the payment can be reconciled by the
// payment-gateway webhook.
func (c *Client) FundWallet(ctx context.Context, amount float64) (string, error) {
	req := FundWalletRequest{
		Amount: amount,
		TxRef:  "ajor-" + uuid.New().String(),
	}
	if err := c.post(ctx, "/wallet/fund", req, nil); err != nil {
		return "", fmt.Errorf("api.FundWallet: %w", err)
	}
	return req.TxRef, nil
}

// WalletTransactions fetches the user's transaction history.
func (c *Client) WalletTransactions(ctx context.Context) ([]model.Transaction, error) {
	var list []model.Transaction
	if err := c.get(ctx, "/wallet/transactions", &list); err != nil {
		return nil, fmt.Errorf("api.WalletTransactions: %w", err)
	}
	return list, nil
}

// Transaction fetches a single transaction by id.
func (c *Client) Transaction(ctx context.Context, id string) (*model.Transaction, error) {
	var tx model.Transaction
	if err := c.get(ctx, "/transactions/"+id, &tx); err != nil {
		return nil, fmt.Errorf("api.Transaction: %w", err)
	}
	return &tx, nil
}
