package usecase

import (
	"context"

	"notify-hub/internal/entity"
	"notify-hub/internal/repo/persistent"
	"notify-hub/pkg/logger"
)

type NotificationUseCase interface {
	Create(ctx context.Context, typ entity.NotificationType, forUserID int64, fromUserID *int64) (*entity.Notification, error)
	ListForUser(ctx context.Context, userID int64) ([]entity.Notification, error)
	ListCollectionsForUser(ctx context.Context, userID int64) (int, []Collection, error)
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	GetGroupFor(ctx context.Context, n *entity.Notification, unseenOnly bool) (*entity.Notification, error)
	MarkSeen(ctx context.Context, n *entity.Notification) (bool, error)
	MarkAllSeen(ctx context.Context, userID int64) (bool, error)
	Remove(ctx context.Context, n *entity.Notification) (bool, error)
}

// GroupCache memoizes grouped rows per user. Implemented by
// internal/cache.UserNotificationCache.
type GroupCache interface {
	Remember(ctx context.Context, userID int64, compute func() ([]entity.Notification, error)) ([]entity.Notification, error)
	Invalidate(ctx context.Context, userID int64) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	cache            GroupCache
	decorator        Decorator
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, cache GroupCache, decorator Decorator, log *logger.Logger) NotificationUseCase {
	if decorator == nil {
		decorator = TypeNameDecorator{}
	}
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		cache:            cache,
		decorator:        decorator,
		logger:           log,
	}
}

// Create persists a new notification. The store invalidates the affected
// users' cached views before returning.
func (uc *notificationUseCase) Create(ctx context.Context, typ entity.NotificationType, forUserID int64, fromUserID *int64) (*entity.Notification, error) {
	if !typ.Valid() {
		return nil, entity.ErrUnknownType
	}

	n, err := uc.notificationRepo.Persist(ctx, &entity.Notification{
		Type:       typ,
		ForUserID:  forUserID,
		FromUserID: fromUserID,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Created %s notification %d for user %d", typ.Name(), n.ID, n.ForUserID)
	return n, nil
}

// ListForUser returns the user's unseen notifications as one row per logical
// group, cache-first.
func (uc *notificationUseCase) ListForUser(ctx context.Context, userID int64) ([]entity.Notification, error) {
	return uc.cache.Remember(ctx, userID, func() ([]entity.Notification, error) {
		return uc.notificationRepo.GetGroupedUnseenForUser(ctx, userID)
	})
}

// ListCollectionsForUser returns the grouped-row count and the rows bucketed
// into presentation collections ordered by most recent activity.
func (uc *notificationUseCase) ListCollectionsForUser(ctx context.Context, userID int64) (int, []Collection, error) {
	rows, err := uc.ListForUser(ctx, userID)
	if err != nil {
		return 0, nil, err
	}

	count, collections := BuildCollections(rows, uc.decorator)
	return count, collections, nil
}

func (uc *notificationUseCase) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	return uc.notificationRepo.GetByID(ctx, id)
}

func (uc *notificationUseCase) GetGroupFor(ctx context.Context, n *entity.Notification, unseenOnly bool) (*entity.Notification, error) {
	return uc.notificationRepo.GetGroupFor(ctx, n, unseenOnly)
}

// MarkSeen marks every notification in n's group as seen and reports whether
// any row changed.
func (uc *notificationUseCase) MarkSeen(ctx context.Context, n *entity.Notification) (bool, error) {
	affected, err := uc.notificationRepo.MarkGroupSeen(ctx, n)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (uc *notificationUseCase) MarkAllSeen(ctx context.Context, userID int64) (bool, error) {
	affected, err := uc.notificationRepo.MarkAllSeen(ctx, userID)
	if err != nil {
		return false, err
	}
	uc.logger.Info("Marked %d notifications seen for user %d", affected, userID)
	return affected > 0, nil
}

// Remove deletes every notification in n's group.
func (uc *notificationUseCase) Remove(ctx context.Context, n *entity.Notification) (bool, error) {
	return uc.notificationRepo.RemoveGroup(ctx, n)
}
