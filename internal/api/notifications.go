package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ajorhq/ajor/internal/model"
)

// Notifications fetches the full notification feed for the current
// session, newest first.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var list []model.Notification
	if err := c.get(ctx, "/notifications", &list); err != nil {
		return nil, fmt.Errorf("api.Notifications: %w", err)
	}
	return list, nil
}

// MarkNotificationRead flags a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := "/notifications/mark-read?id=" + url.QueryEscape(id)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("api.MarkNotificationRead: %w", err)
	}
	return nil
}

// MarkNotificationUnread flags a single notification as unread.
func (c *Client) MarkNotificationUnread(ctx context.Context, id string) error {
	path := "/notifications/mark-unread?id=" + url.QueryEscape(id)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("api.MarkNotificationUnread: %w", err)
	}
	return nil
}

// DeleteNotification removes a notification from the feed.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/notifications?id="+url.QueryEscape(id)); err != nil {
		return fmt.Errorf("api.DeleteNotification: %w", err)
	}
	return nil
}
