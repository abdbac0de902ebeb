package entity

import "time"

// Notification is a single stored notification event. A row loaded through a
// grouped query additionally carries GroupCount and FromUserIDs describing the
// whole group it summarizes; for a plain row GroupCount is 1.
type Notification struct {
	ID         int64            `json:"id"`
	Type       NotificationType `json:"type"`
	ForUserID  int64            `json:"for_user_id"`
	FromUserID *int64           `json:"from_user_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	SeenAt     *time.Time       `json:"seen_at,omitempty"`

	// Aggregate fields, populated by grouped reads only.
	GroupCount  int     `json:"group_count"`
	FromUserIDs []int64 `json:"from_user_ids,omitempty"`
}

func (n *Notification) Seen() bool {
	return n.SeenAt != nil
}

// ContributorIDs returns the distinct actor ids behind this notification.
// For an ungrouped row it falls back to the single FromUserID.
func (n *Notification) ContributorIDs() []int64 {
	if len(n.FromUserIDs) > 0 {
		return n.FromUserIDs
	}
	if n.FromUserID != nil {
		return []int64{*n.FromUserID}
	}
	return nil
}
