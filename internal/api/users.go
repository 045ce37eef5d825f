package api

import (
	"context"
	"fmt"

	"github.com/ajorhq/ajor/internal/model"
)

// User fetches a user record by id.
func (c *Client) User(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, "/users/"+id, &u); err != nil {
		return nil, fmt.Errorf("api.User: %w", err)
	}
	return &u, nil
}

// Profile fetches the profile record for a user id.
func (c *Client) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := c.get(ctx, "/profile/"+userID, &p); err != nil {
		return nil, fmt.Errorf("api.Profile: %w", err)
	}
	return &p, nil
}

// UpdateProfileRequest is the payload for PUT /profile/:id.
type UpdateProfileRequest struct {
	Bio        string `json:"bio"`
	Location   string `json:"location"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// UpdateProfile updates the profile record for a user id.
func (c *Client) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.Profile, error) {
	var p model.Profile
	if err := c.put(ctx, "/profile/"+userID, req, &p); err != nil {
		return nil, fmt.Errorf("api.UpdateProfile: %w", err)
	}
	return &p, nil
}
