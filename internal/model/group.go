package model

import "time"

// GroupCycle is how often a group collects contributions.
type GroupCycle string

const (
	CycleDaily   GroupCycle = "daily"
	CycleWeekly  GroupCycle = "weekly"
	CycleMonthly GroupCycle = "monthly"
	CycleYearly  GroupCycle = "yearly"
)

// GroupType distinguishes personal daily-savings plans from rotating
// group contributions.
type GroupType string

const (
	TypeDailySavings GroupType = "daily_savings"
	TypeGroup        GroupType = "group_contribution"
)

// Group is an Ajo contribution group. The backend calls these
// "contributions"; the client presents them as groups.
type Group struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	Cycle              GroupCycle        `json:"cycle"`
	Amount             float64           `json:"amount"`
	CycleCount         int               `json:"cycle_count"`
	CollectionDay      string            `json:"collection_day"`
	CollectionDeadline time.Time         `json:"collection_deadline"`
	Type               GroupType         `json:"type"`
	PenaltyAmount      float64           `json:"penalty_amount"`
	GroupAdmin         string            `json:"group_admin"`
	AdminUsername      string            `json:"admin_username"`
	MemberUsernames    map[string]string `json:"member_usernames"`
	YetToCollect       []string          `json:"yet_to_collect_members"`
	AlreadyCollected   []string          `json:"already_collected_members"`
	WalletID           string            `json:"wallet_id"`
	InviteCode         string            `json:"invite_code"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// MemberCount returns the number of members known to the group.
func (g Group) MemberCount() int {
	return len(g.MemberUsernames)
}
