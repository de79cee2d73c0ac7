package service

import (
	"encoding/json"
	"fmt"
	"time"

	"streamify-backend/internal/model"
	"streamify-backend/internal/repository"
	"streamify-backend/internal/util"
	"streamify-backend/pkg/logger"

	"go.uber.org/zap"
)

type NotificationService interface {
	SendFriendRequestNotification(recipientID, senderID, senderName, requestID string) error
	SendFriendAcceptedNotification(recipientID, senderID, senderName, requestID string) error
	GetNotificationsByUserID(userID string, limit, offset int) ([]*model.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(notificationID, userID string) error
	MarkAllAsRead(userID string) error
	SetWSHub(hub interface {
		BroadcastToUser(string, map[string]interface{})
	})
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	rabbitMQ  *util.RabbitMQClient
	wsHub     interface {
		BroadcastToUser(string, map[string]interface{})
	}
}

// NotificationMessage is the event published for every successful
// social-graph mutation. Invalidates names the read views the consumer
// should refresh for the target user.
type NotificationMessage struct {
	UserID      string                 `json:"user_id"`
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Invalidates []string               `json:"invalidates,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

const (
	NotificationQueueName  = "notification_queue"
	NotificationExchange   = "notification_exchange"
	NotificationRoutingKey = "notification"
)

// Read views that mutation events can invalidate on the client.
const (
	ViewFriendRequests         = "friendRequests"
	ViewOutgoingFriendRequests = "outgoingFriendReqs"
	ViewFriends                = "friends"
	ViewRecommendedUsers       = "users"
)

func NewNotificationService(notifRepo repository.NotificationRepository, rabbitMQ *util.RabbitMQClient) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		rabbitMQ:  rabbitMQ,
		wsHub:     nil, // Will be set via SetWSHub
	}
}

// SetWSHub sets the WebSocket hub for realtime delivery
func (s *notificationService) SetWSHub(hub interface {
	BroadcastToUser(string, map[string]interface{})
}) {
	s.wsHub = hub
}

// sendNotification persists the notification, then publishes the event
// to RabbitMQ and pushes it over WebSocket. Delivery failures are logged
// and do not undo the persisted record.
func (s *notificationService) sendNotification(
	userID, notifType, message, senderID, requestID string,
	invalidates []string,
) error {
	notification := &model.Notification{
		UserID:    userID,
		Type:      notifType,
		Message:   message,
		SenderID:  &senderID,
		RequestID: &requestID,
		IsRead:    false,
	}

	if err := s.notifRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	msg := NotificationMessage{
		UserID:  userID,
		Type:    notifType,
		Message: message,
		Data: map[string]interface{}{
			"sender_id":  senderID,
			"request_id": requestID,
		},
		Invalidates: invalidates,
		Timestamp:   time.Now(),
	}

	if s.rabbitMQ != nil {
		msgJSON, err := json.Marshal(msg)
		if err != nil {
			logger.Log.Error("failed to marshal notification message", zap.Error(err))
			return err
		}

		if err := s.rabbitMQ.Publish(NotificationExchange, NotificationRoutingKey, msgJSON); err != nil {
			// Notification is already saved, delivery is best effort.
			logger.Log.Warn("failed to publish notification to RabbitMQ",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	if s.wsHub != nil {
		s.wsHub.BroadcastToUser(userID, map[string]interface{}{
			"id":          notification.ID,
			"type":        notification.Type,
			"message":     notification.Message,
			"sender_id":   senderID,
			"request_id":  requestID,
			"invalidates": invalidates,
			"is_read":     false,
			"created_at":  notification.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil
}

// SendFriendRequestNotification notifies a user of a new incoming request
func (s *notificationService) SendFriendRequestNotification(
	recipientID, senderID, senderName, requestID string,
) error {
	message := fmt.Sprintf("%s sent you a friend request", senderName)
	return s.sendNotification(
		recipientID,
		model.NotificationTypeFriendRequest,
		message,
		senderID,
		requestID,
		[]string{ViewFriendRequests, ViewRecommendedUsers},
	)
}

// SendFriendAcceptedNotification notifies the original sender that their
// request was accepted
func (s *notificationService) SendFriendAcceptedNotification(
	recipientID, senderID, senderName, requestID string,
) error {
	message := fmt.Sprintf("%s accepted your friend request", senderName)
	return s.sendNotification(
		recipientID,
		model.NotificationTypeFriendAccepted,
		message,
		senderID,
		requestID,
		[]string{ViewFriends, ViewOutgoingFriendRequests, ViewRecommendedUsers},
	)
}

// GetNotificationsByUserID gets notifications for a user with pagination
func (s *notificationService) GetNotificationsByUserID(userID string, limit, offset int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return s.notifRepo.FindByUserID(userID, limit, offset)
}

// GetUnreadCount counts unread notifications for a user
func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notifRepo.CountUnreadByUserID(userID)
}

// MarkAsRead marks a notification as read, caller must own it
func (s *notificationService) MarkAsRead(notificationID, userID string) error {
	notification, err := s.notifRepo.FindByID(notificationID)
	if err != nil {
		return fmt.Errorf("%w: notification not found", ErrNotFound)
	}

	if notification.UserID != userID {
		return fmt.Errorf("%w: you can only mark your own notifications as read", ErrForbidden)
	}

	return s.notifRepo.MarkAsRead(notificationID)
}

// MarkAllAsRead marks all of the caller's notifications as read
func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notifRepo.MarkAllAsRead(userID)
}
