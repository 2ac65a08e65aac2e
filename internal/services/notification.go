package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/clients/redis"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/sse"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type NotificationService interface {
	Notify(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationIDs []uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	hub              *sse.SSEHub
	bus              redis.SSEBus
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	notificationRepo repos.NotificationRepo,
	hub *sse.SSEHub,
	bus redis.SSEBus,
) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{
		db:               db,
		log:              serviceLog,
		notificationRepo: notificationRepo,
		hub:              hub,
		bus:              bus,
	}
}

// Notify persists the notification and fans it out. Delivery is best-effort;
// only the database write can fail the call.
func (ns *notificationService) Notify(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	if notification == nil {
		return fmt.Errorf("notification required")
	}
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if _, err := ns.notificationRepo.Create(ctx, tx, []*types.Notification{notification}); err != nil {
		return fmt.Errorf("Failed to create notification: %w", err)
	}

	msg := sse.SSEMessage{
		Channel: sse.UserChannel(notification.UserID),
		Event:   sse.SSEEventNotificationCreated,
		Data:    notification,
	}
	if ns.hub != nil {
		ns.hub.Broadcast(msg)
	}
	if ns.bus != nil {
		if err := ns.bus.Publish(ctx, msg); err != nil {
			ns.log.Warn("Failed to publish notification to redis", "error", err)
		}
	}
	return nil
}

func (ns *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	return ns.notificationRepo.ListByUser(ctx, nil, userID, unreadOnly)
}

func (ns *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationIDs []uuid.UUID) error {
	return ns.notificationRepo.MarkRead(ctx, nil, userID, notificationIDs)
}

func (ns *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return ns.notificationRepo.MarkAllRead(ctx, nil, userID)
}
