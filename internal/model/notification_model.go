package model

import "time"

type NotificationModel struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Type       int        `gorm:"column:type;not null"`
	ForUserID  int64      `gorm:"column:for_user_id;not null;index"`
	FromUserID *int64     `gorm:"column:from_user_id"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	SeenAt     *time.Time `gorm:"column:seen_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// GroupedNotificationRow is the scan target for grouped aggregate queries.
// FromUserIDs arrives comma-joined, newest contributor first, and may contain
// duplicates when a user appears several times in the group.
type GroupedNotificationRow struct {
	ID          int64     `gorm:"column:id"`
	Type        int       `gorm:"column:type"`
	ForUserID   int64     `gorm:"column:for_user_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	GroupCount  int       `gorm:"column:group_count"`
	FromUserIDs string    `gorm:"column:from_user_ids"`
}
