package service

import (
	"errors"
	"fmt"

	"streamify-backend/internal/model"
	"streamify-backend/internal/repository"
	"streamify-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SocialService interface {
	GetRecommendedUsers(userID string) ([]model.User, error)
	GetFriends(userID string) ([]*model.User, error)
	SendFriendRequest(senderID, recipientID string) (*model.FriendRequest, error)
	AcceptFriendRequest(requestID, userID string) (*model.FriendRequest, error)
	GetFriendRequests(userID string) (*FriendRequestsView, error)
	GetOutgoingFriendRequests(userID string) ([]*model.FriendRequest, error)
}

// FriendRequestsView partitions the caller's received requests into the
// still-pending ones and the already-accepted history.
type FriendRequestsView struct {
	IncomingReqs []*model.FriendRequest `json:"incomingReqs"`
	AcceptedReqs []*model.FriendRequest `json:"acceptedReqs"`
}

type socialService struct {
	requestRepo  repository.FriendRequestRepository
	userRepo     repository.UserRepository
	notifService NotificationService
}

func NewSocialService(
	requestRepo repository.FriendRequestRepository,
	userRepo repository.UserRepository,
	notifService NotificationService,
) SocialService {
	return &socialService{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		notifService: notifService,
	}
}

// GetRecommendedUsers returns onboarded users the caller could send a
// request to: everyone except the caller and their existing friends.
func (s *socialService) GetRecommendedUsers(userID string) ([]model.User, error) {
	me, err := s.userRepo.FindByIDWithFriends(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	return s.userRepo.FindRecommended(userID, me.FriendIDs())
}

// GetFriends resolves the caller's friend set into full profiles.
func (s *socialService) GetFriends(userID string) ([]*model.User, error) {
	me, err := s.userRepo.FindByIDWithFriends(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if me.Friends == nil {
		return []*model.User{}, nil
	}
	return me.Friends, nil
}

// SendFriendRequest creates a pending request after validating, in
// order: no self-targeting, recipient exists, not already friends, no
// pending request between the pair in either direction.
func (s *socialService) SendFriendRequest(senderID, recipientID string) (*model.FriendRequest, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: you can't send a friend request to yourself", ErrInvalidOperation)
	}

	if _, err := s.userRepo.FindByID(recipientID); err != nil {
		return nil, fmt.Errorf("%w: recipient not found", ErrNotFound)
	}

	sender, err := s.userRepo.FindByIDWithFriends(senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: sender not found", ErrNotFound)
	}
	if sender.HasFriend(recipientID) {
		return nil, fmt.Errorf("%w: you are already friends with this user", ErrConflict)
	}

	if existing, err := s.requestRepo.FindPendingBetween(senderID, recipientID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: a friend request already exists between you and this user", ErrConflict)
	}

	request := &model.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      model.FriendRequestStatusPending,
	}

	if err := s.requestRepo.Create(request); err != nil {
		// Two concurrent sends for the same pair race past the check
		// above; the pending-pair unique index catches the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a friend request already exists between you and this user", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	// Notify recipient (async, non-blocking)
	go func() {
		if err := s.notifService.SendFriendRequestNotification(recipientID, senderID, sender.FullName, request.ID); err != nil {
			logger.Log.Warn("failed to deliver friend request notification",
				zap.String("recipient_id", recipientID), zap.Error(err))
		}
	}()

	return s.requestRepo.FindByID(request.ID)
}

// AcceptFriendRequest flips a pending request to accepted and links both
// users as friends. Only the recipient may accept, exactly once.
func (s *socialService) AcceptFriendRequest(requestID, userID string) (*model.FriendRequest, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: friend request not found", ErrNotFound)
	}

	if request.RecipientID != userID {
		return nil, fmt.Errorf("%w: you are not authorized to accept this request", ErrForbidden)
	}

	if request.Status != model.FriendRequestStatusPending {
		return nil, fmt.Errorf("%w: friend request has already been accepted", ErrInvalidOperation)
	}

	accepted, err := s.requestRepo.Accept(requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotPending) {
			return nil, fmt.Errorf("%w: friend request has already been accepted", ErrInvalidOperation)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: friend request not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	// Notify the original sender (async)
	go func() {
		recipient, err := s.userRepo.FindByID(accepted.RecipientID)
		if err != nil {
			logger.Log.Warn("failed to resolve recipient for accept notification",
				zap.String("recipient_id", accepted.RecipientID), zap.Error(err))
			return
		}
		if err := s.notifService.SendFriendAcceptedNotification(accepted.SenderID, accepted.RecipientID, recipient.FullName, accepted.ID); err != nil {
			logger.Log.Warn("failed to deliver friend accepted notification",
				zap.String("sender_id", accepted.SenderID), zap.Error(err))
		}
	}()

	return accepted, nil
}

// GetFriendRequests returns requests received by the caller, split into
// pending and accepted. The accepted history is unbounded.
func (s *socialService) GetFriendRequests(userID string) (*FriendRequestsView, error) {
	incoming, err := s.requestRepo.FindPendingByRecipient(userID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.requestRepo.FindAcceptedByRecipient(userID)
	if err != nil {
		return nil, err
	}

	if incoming == nil {
		incoming = []*model.FriendRequest{}
	}
	if accepted == nil {
		accepted = []*model.FriendRequest{}
	}

	return &FriendRequestsView{
		IncomingReqs: incoming,
		AcceptedReqs: accepted,
	}, nil
}

// GetOutgoingFriendRequests returns the caller's still-pending sent requests.
func (s *socialService) GetOutgoingFriendRequests(userID string) ([]*model.FriendRequest, error) {
	outgoing, err := s.requestRepo.FindPendingBySender(userID)
	if err != nil {
		return nil, err
	}
	if outgoing == nil {
		outgoing = []*model.FriendRequest{}
	}
	return outgoing, nil
}
