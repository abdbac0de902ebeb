package persistent

import (
	"strconv"
	"strings"

	"notify-hub/internal/entity"
	"notify-hub/internal/model"
)

func ToNotificationEntity(m *model.NotificationModel) *entity.Notification {
	if m == nil {
		return nil
	}
	return &entity.Notification{
		ID:         m.ID,
		Type:       entity.NotificationType(m.Type),
		ForUserID:  m.ForUserID,
		FromUserID: m.FromUserID,
		CreatedAt:  m.CreatedAt,
		SeenAt:     m.SeenAt,
		GroupCount: 1,
	}
}

func ToNotificationModel(n *entity.Notification) *model.NotificationModel {
	return &model.NotificationModel{
		ID:         n.ID,
		Type:       int(n.Type),
		ForUserID:  n.ForUserID,
		FromUserID: n.FromUserID,
		CreatedAt:  n.CreatedAt,
		SeenAt:     n.SeenAt,
	}
}

// ToGroupedEntity maps an aggregate row to a notification summarizing its
// group. Contributor ids keep their newest-first order with duplicates
// dropped on first occurrence.
func ToGroupedEntity(row *model.GroupedNotificationRow) *entity.Notification {
	if row == nil {
		return nil
	}

	n := &entity.Notification{
		ID:          row.ID,
		Type:        entity.NotificationType(row.Type),
		ForUserID:   row.ForUserID,
		CreatedAt:   row.CreatedAt,
		GroupCount:  row.GroupCount,
		FromUserIDs: parseFromUserIDs(row.FromUserIDs),
	}
	if n.GroupCount < 1 {
		n.GroupCount = 1
	}
	if len(n.FromUserIDs) == 1 {
		from := n.FromUserIDs[0]
		n.FromUserID = &from
	}
	return n
}

// parseFromUserIDs splits the comma-joined aggregate, deduplicating while
// preserving the newest-first order the query produced.
func parseFromUserIDs(joined string) []int64 {
	if joined == "" {
		return nil
	}

	parts := strings.Split(joined, ",")
	seen := make(map[int64]struct{}, len(parts))
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
