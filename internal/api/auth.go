package api

import (
	"context"
	"fmt"
)

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.post(ctx, "/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", fmt.Errorf("api.Login: %w", err)
	}
	return resp.Token, nil
}

// RegisterRequest is the payload for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates a new account. The backend sends a verification email;
// the user logs in separately once verified.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.post(ctx, "/register", req, nil); err != nil {
		return fmt.Errorf("api.Register: %w", err)
	}
	return nil
}

// Logout invalidates the current session server-side. The local session
// is cleared regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/logout", nil, nil); err != nil {
		return fmt.Errorf("api.Logout: %w", err)
	}
	return nil
}

// ForgotPassword asks the backend to send a reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.post(ctx, "/forgot-password", body, nil); err != nil {
		return fmt.Errorf("api.ForgotPassword: %w", err)
	}
	return nil
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	if err := c.post(ctx, "/users/change-password", body, nil); err != nil {
		return fmt.Errorf("api.ChangePassword: %w", err)
	}
	return nil
}
