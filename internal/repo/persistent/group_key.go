package persistent

import (
	"fmt"
	"strconv"
	"strings"

	"notify-hub/internal/entity"
)

// GroupPolicy decides which notification rows belong to the same logical
// group. The same configuration drives both the GROUP BY expression used by
// grouped reads and the match clause used by group-scoped updates/deletes,
// so the two can never disagree on what a group is.
type GroupPolicy struct {
	// Columns every notification groups by, in order.
	groupBy []string

	// Types where the acting user additionally participates in the key,
	// e.g. to keep direct messages from different users in separate groups.
	fromUserTypes map[entity.NotificationType]struct{}
}

func NewGroupPolicy(fromUserTypes ...entity.NotificationType) *GroupPolicy {
	set := make(map[entity.NotificationType]struct{}, len(fromUserTypes))
	for _, t := range fromUserTypes {
		set[t] = struct{}{}
	}
	return &GroupPolicy{
		groupBy:       []string{"for_user_id", "type"},
		fromUserTypes: set,
	}
}

// DefaultGroupPolicy groups by recipient and type, and keeps direct messages
// from different senders apart.
func DefaultGroupPolicy() *GroupPolicy {
	return NewGroupPolicy(entity.TypeMessage)
}

// GroupsByFromUser reports whether the acting user is part of the group key
// for this type.
func (p *GroupPolicy) GroupsByFromUser(t entity.NotificationType) bool {
	_, ok := p.fromUserTypes[t]
	return ok
}

// MatchClause returns SQL (leading " AND ...") and bindings matching every
// row in the same group as n. Null key values are matched with IS NULL; an
// "= NULL" comparison would match nothing.
func (p *GroupPolicy) MatchClause(n *entity.Notification) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	for _, column := range p.groupBy {
		value := keyValue(n, column)
		if value == nil {
			fmt.Fprintf(&sb, " AND %s IS NULL", column)
		} else {
			fmt.Fprintf(&sb, " AND %s = ?", column)
			args = append(args, value)
		}
	}

	if p.GroupsByFromUser(n.Type) {
		if n.FromUserID == nil {
			sb.WriteString(" AND from_user_id IS NULL")
		} else {
			sb.WriteString(" AND from_user_id = ?")
			args = append(args, *n.FromUserID)
		}
	}

	return sb.String(), args
}

// SelectGroupBy returns the GROUP BY expression for grouped reads, derived
// from the same configuration as MatchClause.
func (p *GroupPolicy) SelectGroupBy() string {
	columns := strings.Join(p.groupBy, ", ")
	if len(p.fromUserTypes) == 0 {
		return columns
	}

	ints := make([]string, 0, len(p.fromUserTypes))
	for _, t := range entity.AllTypes() {
		if p.GroupsByFromUser(t) {
			ints = append(ints, strconv.Itoa(int(t)))
		}
	}
	return columns + fmt.Sprintf(", (CASE WHEN type IN (%s) THEN from_user_id END)", strings.Join(ints, ","))
}

// Key returns a stable string key for n's group, usable as a map key.
func (p *GroupPolicy) Key(n *entity.Notification) string {
	parts := make([]string, 0, len(p.groupBy)+1)
	for _, column := range p.groupBy {
		value := keyValue(n, column)
		if value == nil {
			parts = append(parts, "")
		} else {
			parts = append(parts, fmt.Sprintf("%v", value))
		}
	}
	if p.GroupsByFromUser(n.Type) && n.FromUserID != nil {
		parts = append(parts, strconv.FormatInt(*n.FromUserID, 10))
	} else {
		parts = append(parts, "")
	}
	return strings.Join(parts, "-")
}

func keyValue(n *entity.Notification, column string) interface{} {
	switch column {
	case "for_user_id":
		return n.ForUserID
	case "type":
		return int(n.Type)
	case "from_user_id":
		if n.FromUserID == nil {
			return nil
		}
		return *n.FromUserID
	default:
		return nil
	}
}
