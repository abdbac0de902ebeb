package persistent

import (
	"context"
	"errors"
	"fmt"

	"notify-hub/internal/entity"
	"notify-hub/internal/model"
	"notify-hub/pkg/logger"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Persist(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	GetGroupedUnseenForUser(ctx context.Context, userID int64) ([]entity.Notification, error)
	GetGroupFor(ctx context.Context, n *entity.Notification, unseenOnly bool) (*entity.Notification, error)
	MarkGroupSeen(ctx context.Context, n *entity.Notification) (int64, error)
	MarkAllSeen(ctx context.Context, userID int64) (int64, error)
	RemoveGroup(ctx context.Context, n *entity.Notification) (bool, error)
}

// CacheInvalidator drops a user's cached grouped rows. Mutations call it
// before returning so a caller never reads its own write through stale cache.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

type notificationRepository struct {
	db          *gorm.DB
	policy      *GroupPolicy
	invalidator CacheInvalidator
	logger      *logger.Logger
}

func NewNotificationRepository(db *gorm.DB, policy *GroupPolicy, invalidator CacheInvalidator, log *logger.Logger) NotificationRepository {
	return &notificationRepository{
		db:          db,
		policy:      policy,
		invalidator: invalidator,
		logger:      log,
	}
}

func (r *notificationRepository) Persist(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	if n.ForUserID == 0 {
		return nil, entity.ErrMissingForUser
	}

	m := ToNotificationModel(n)
	m.ID = 0
	m.SeenAt = nil
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	r.invalidate(ctx, m.ForUserID)
	if m.FromUserID != nil && *m.FromUserID != m.ForUserID {
		r.invalidate(ctx, *m.FromUserID)
	}

	return ToNotificationEntity(m), nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	var m model.NotificationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification %d: %w", id, err)
	}
	return ToNotificationEntity(&m), nil
}

// GetGroupedUnseenForUser returns one row per logical group of the user's
// unseen notifications, newest group first. Within a group the id and
// created_at are those of the newest member.
func (r *notificationRepository) GetGroupedUnseenForUser(ctx context.Context, userID int64) ([]entity.Notification, error) {
	query := fmt.Sprintf(`
		SELECT
			MAX(id) AS id,
			for_user_id,
			type,
			MAX(created_at) AS created_at,
			COUNT(*) AS group_count,
			STRING_AGG(from_user_id::text, ',' ORDER BY id DESC) AS from_user_ids
		FROM notifications
		WHERE for_user_id = ? AND seen_at IS NULL
		GROUP BY %s
		ORDER BY MAX(id) DESC`,
		r.policy.SelectGroupBy(),
	)

	var rows []model.GroupedNotificationRow
	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get grouped notifications for user %d: %w", userID, err)
	}

	notifications := make([]entity.Notification, 0, len(rows))
	for i := range rows {
		notifications = append(notifications, *ToGroupedEntity(&rows[i]))
	}
	return notifications, nil
}

// GetGroupFor re-derives the aggregate row for the group containing n. It is
// used to refresh a single group's view after a point action. The given
// notification may be a raw row or an already-grouped one; both carry the
// fields the group key needs.
func (r *notificationRepository) GetGroupFor(ctx context.Context, n *entity.Notification, unseenOnly bool) (*entity.Notification, error) {
	query, args := r.groupForQuery(n, unseenOnly)

	var rows []model.GroupedNotificationRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get notification group: %w", err)
	}
	if len(rows) == 0 {
		return nil, entity.ErrNotFound
	}
	return ToGroupedEntity(&rows[0]), nil
}

// groupForQuery builds the single-group aggregate select for n's group. Match
// clause and GROUP BY both come from the policy, so the two derivations of
// the group key cannot drift apart.
func (r *notificationRepository) groupForQuery(n *entity.Notification, unseenOnly bool) (string, []interface{}) {
	match, args := r.policy.MatchClause(n)

	query := `
		SELECT
			MAX(id) AS id,
			for_user_id,
			type,
			MAX(created_at) AS created_at,
			COUNT(*) AS group_count,
			STRING_AGG(from_user_id::text, ',' ORDER BY id DESC) AS from_user_ids
		FROM notifications
		WHERE 1=1` + match
	if unseenOnly {
		query += " AND seen_at IS NULL"
	}
	query += " GROUP BY " + r.policy.SelectGroupBy()

	return query, args
}

// MarkGroupSeen marks every unseen notification in n's group as seen and
// returns the number of rows updated.
func (r *notificationRepository) MarkGroupSeen(ctx context.Context, n *entity.Notification) (int64, error) {
	match, args := r.policy.MatchClause(n)

	result := r.db.WithContext(ctx).Exec(
		"UPDATE notifications SET seen_at = NOW() WHERE seen_at IS NULL"+match,
		args...,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark group seen: %w", result.Error)
	}

	r.invalidate(ctx, n.ForUserID)
	return result.RowsAffected, nil
}

// MarkAllSeen marks every unseen notification for the user as seen,
// regardless of group.
func (r *notificationRepository) MarkAllSeen(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE notifications SET seen_at = NOW() WHERE for_user_id = ? AND seen_at IS NULL",
		userID,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all seen for user %d: %w", userID, result.Error)
	}

	r.invalidate(ctx, userID)
	return result.RowsAffected, nil
}

// RemoveGroup deletes every notification in n's group and reports whether
// any row was deleted.
func (r *notificationRepository) RemoveGroup(ctx context.Context, n *entity.Notification) (bool, error) {
	match, args := r.policy.MatchClause(n)

	result := r.db.WithContext(ctx).Exec(
		"DELETE FROM notifications WHERE 1=1"+match,
		args...,
	)
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove notification group: %w", result.Error)
	}

	r.invalidate(ctx, n.ForUserID)
	return result.RowsAffected > 0, nil
}

// invalidate drops the user's cached rows. The store write already
// succeeded, so a failing invalidation is logged rather than returned; the
// next successful invalidation or read repairs the entry.
func (r *notificationRepository) invalidate(ctx context.Context, userID int64) {
	if err := r.invalidator.Invalidate(ctx, userID); err != nil {
		r.logger.Warn("cache invalidation failed for user %d: %v", userID, err)
	}
}
