package http

import (
	"errors"
	"net/http"
	"strconv"

	"notify-hub/internal/entity"
	"notify-hub/internal/usecase"
	"notify-hub/pkg/logger"
	"notify-hub/pkg/queue"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	queueClient         *queue.Client
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, queueClient *queue.Client, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		queueClient:         queueClient,
		logger:              logger,
	}
}

type CreateNotificationRequest struct {
	Type       int    `json:"type" binding:"required"`
	ForUserID  int64  `json:"for_user_id" binding:"required"`
	FromUserID *int64 `json:"from_user_id"`
}

type UpdateNotificationRequest struct {
	Seen bool `json:"seen"`
}

// ListNotifications godoc
// @Summary      List notifications
// @Description  Get the authenticated user's unseen notifications, one row per group
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notifications, err := h.notificationUseCase.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list notifications for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// ListCollections godoc
// @Summary      List notification collections
// @Description  Get the authenticated user's notifications bucketed into presentation collections
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /notifications/collections [get]
func (h *NotificationHandler) ListCollections(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, collections, err := h.notificationUseCase.ListCollectionsForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list collections for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       count,
		"collections": collections,
	})
}

// CreateNotification godoc
// @Summary      Create a notification
// @Description  Persist a notification for a user (internal producer endpoint)
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        notification body CreateNotificationRequest true "Notification"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /notifications [post]
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notificationUseCase.Create(
		c.Request.Context(),
		entity.NotificationType(req.Type),
		req.ForUserID,
		req.FromUserID,
	)
	if err != nil {
		if errors.Is(err, entity.ErrUnknownType) || errors.Is(err, entity.ErrMissingForUser) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}

// UpdateAllNotifications godoc
// @Summary      Update all notifications
// @Description  Mark all of the authenticated user's notifications as seen
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body UpdateNotificationRequest true "Update"
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications [patch]
func (h *NotificationHandler) UpdateAllNotifications(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success := false
	if req.Seen {
		changed, err := h.notificationUseCase.MarkAllSeen(c.Request.Context(), userID)
		if err != nil {
			h.logger.Error("Failed to mark all seen for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
			return
		}
		success = changed
	}

	c.JSON(http.StatusOK, gin.H{"success": success})
}

// UpdateNotification godoc
// @Summary      Update a notification group
// @Description  Mark a notification group as seen, addressed by any record in the group
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Param        body body UpdateNotificationRequest true "Update"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id} [patch]
func (h *NotificationHandler) UpdateNotification(c *gin.Context) {
	notification, ok := h.ownedNotification(c)
	if !ok {
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success := false
	if req.Seen {
		changed, err := h.notificationUseCase.MarkSeen(c.Request.Context(), notification)
		if err != nil {
			h.logger.Error("Failed to mark notification %d seen: %v", notification.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
		success = changed
	}

	c.JSON(http.StatusOK, gin.H{"success": success})
}

// DeleteNotification godoc
// @Summary      Delete a notification group
// @Description  Delete a notification group, addressed by any record in the group
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	notification, ok := h.ownedNotification(c)
	if !ok {
		return
	}

	success, err := h.notificationUseCase.Remove(c.Request.Context(), notification)
	if err != nil {
		h.logger.Error("Failed to remove notification %d: %v", notification.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": success})
}

// QueueStatus reports the number of pending producer events. Events are
// consumed automatically; this endpoint only exposes the backlog size.
func (h *NotificationHandler) QueueStatus(c *gin.Context) {
	if h.queueClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue is not available"})
		return
	}

	length, err := h.queueClient.GetQueueLength()
	if err != nil {
		h.logger.Error("Failed to get queue length: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue length"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue_length": length})
}

// ownedNotification loads the path notification and verifies it belongs to
// the authenticated user. A foreign notification reads as not found rather
// than forbidden, so ids cannot be probed.
func (h *NotificationHandler) ownedNotification(c *gin.Context) (*entity.Notification, bool) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return nil, false
	}

	notification, err := h.notificationUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return nil, false
		}
		h.logger.Error("Failed to load notification %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notification"})
		return nil, false
	}

	if notification.ForUserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return nil, false
	}

	return notification, true
}
