package api

import (
	"context"
	"fmt"

	"github.com/ajorhq/ajor/internal/model"
)

// Groups fetches the Ajo groups the given user belongs to.
func (c *Client) Groups(ctx context.Context, userID string) ([]model.Group, error) {
	var list []model.Group
	if err := c.get(ctx, "/contributions/groups/"+userID, &list); err != nil {
		return nil, fmt.Errorf("api.Groups: %w", err)
	}
	return list, nil
}

// Group fetches a single group by id.
func (c *Client) Group(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	if err := c.get(ctx, "/contributions/"+id, &g); err != nil {
		return nil, fmt.Errorf("api.Group: %w", err)
	}
	return &g, nil
}

// GroupTransactions fetches the transaction history of a group.
func (c *Client) GroupTransactions(ctx context.Context, id string) ([]model.Transaction, error) {
	var list []model.Transaction
	if err := c.get(ctx, "/contributions/"+id+"/transactions", &list); err != nil {
		return nil, fmt.Errorf("api.GroupTransactions: %w", err)
	}
	return list, nil
}

// CreateGroupRequest is the payload for POST /contributions.
type CreateGroupRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Cycle         model.GroupCycle `json:"cycle"`
	Amount        float64          `json:"amount"`
	Type          model.GroupType  `json:"type"`
	CollectionDay string           `json:"collection_day"`
	PenaltyAmount float64          `json:"penalty_amount"`
}

// CreateGroup creates a new Ajo group administered by the caller.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*model.Group, error) {
	var g model.Group
	if err := c.post(ctx, "/contributions", req, &g); err != nil {
		return nil, fmt.Errorf("api.CreateGroup: %w", err)
	}
	return &g, nil
}

// JoinGroup joins a group by invite code.
func (c *Client) JoinGroup(ctx context.Context, inviteCode string) error {
	body := map[string]string{"invite_code": inviteCode}
	if err := c.post(ctx, "/contributions/join", body, nil); err != nil {
		return fmt.Errorf("api.JoinGroup: %w", err)
	}
	return nil
}

// Contribute records the caller's contribution for the current cycle.
func (c *Client) Contribute(ctx context.Context, groupID string, amount float64) error {
	body := map[string]float64{"amount": amount}
	if err := c.post(ctx, "/contributions/"+groupID+"/contribute", body, nil); err != nil {
		return fmt.Errorf("api.Contribute: %w", err)
	}
	return nil
}

// RecordPayout requests a payout from the group wallet to a member.
func (c *Client) RecordPayout(ctx context.Context, groupID, memberID string) error {
	body := map[string]string{"member_id": memberID}
	if err := c.post(ctx, "/contributions/"+groupID+"/payout", body, nil); err != nil {
		return fmt.Errorf("api.RecordPayout: %w", err)
	}
	return nil
}
