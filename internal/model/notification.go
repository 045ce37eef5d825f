package model

import "time"

// NotificationType classifies a notification for rendering. The backend may
// introduce new values at any time; unknown values render generically.
type NotificationType string

const (
	NotifWalletFunded      NotificationType = "wallet_funded"
	NotifGroupContribution NotificationType = "group_contribution"
	NotifLateContribution  NotificationType = "late_contribution"
	NotifPayoutApproved    NotificationType = "payout_approved"
	NotifRemovedFromGroup  NotificationType = "removed_from_group"
)

// Notification is a single entry in the user's notification feed. Records
// are created server-side; the client only reads them and toggles Read.
type Notification struct {
	// ID is the backend-assigned identifier.
	ID string `json:"id"`

	// UserID is the recipient.
	UserID string `json:"user_id"`

	// Type classifies the notification; see the Notif* constants.
	Type NotificationType `json:"type"`

	Title   string `json:"title"`
	Message string `json:"message"`

	// Read is toggled via the mark-read/mark-unread endpoints only.
	Read bool `json:"read"`

	CreatedAt time.Time `json:"created_at"`

	// ContributionID and TransactionID optionally reference related
	// backend entities, used to look up display names.
	ContributionID string `json:"contribution_id,omitempty"`
	TransactionID  string `json:"transaction_id,omitempty"`

	// ActionLink is an optional in-app navigation target.
	ActionLink string `json:"action_link,omitempty"`

	// Meta carries optional structured context (e.g. a group name).
	Meta map[string]any `json:"meta,omitempty"`
}

// Icon returns a glyph for the notification type, falling back to a bell
// for anything unrecognized.
func (n Notification) Icon() string {
	switch n.Type {
	case NotifWalletFunded:
		return "💰"
	case NotifGroupContribution:
		return "👥"
	case NotifLateContribution:
		return "⚠"
	case NotifPayoutApproved:
		return "✔"
	case NotifRemovedFromGroup:
		return "✖"
	default:
		return "🔔"
	}
}
