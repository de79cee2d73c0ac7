package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"streamify-backend/internal/model"
	"streamify-backend/internal/util"

	"gorm.io/gorm"
)

// ErrRequestNotPending is returned by Accept when the request was
// already accepted by the time the status flip was applied.
var ErrRequestNotPending = errors.New("friend request is not pending")

type FriendRequestRepository interface {
	Create(req *model.FriendRequest) error
	FindByID(id string) (*model.FriendRequest, error)
	FindPendingBetween(userID, otherUserID string) (*model.FriendRequest, error)
	FindPendingByRecipient(recipientID string) ([]*model.FriendRequest, error)
	FindAcceptedByRecipient(recipientID string) ([]*model.FriendRequest, error)
	FindPendingBySender(senderID string) ([]*model.FriendRequest, error)
	Accept(id string) (*model.FriendRequest, error)
}

type friendRequestRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	friendReqCachePrefix         = "friend_request:"
	friendReqIncomingCachePrefix = "friend_request:incoming:"
	friendReqAcceptedCachePrefix = "friend_request:accepted:"
	friendReqOutgoingCachePrefix = "friend_request:outgoing:"
	friendReqCacheExpiration     = 15 * time.Minute
)

func NewFriendRequestRepository(db *gorm.DB, redis *util.RedisClient) FriendRequestRepository {
	return &friendRequestRepository{
		db:    db,
		redis: redis,
	}
}

// Create inserts a new pending request. The partial unique index on the
// unordered pending pair rejects concurrent duplicates; the resulting
// gorm.ErrDuplicatedKey is left for the caller to classify.
func (r *friendRequestRepository) Create(req *model.FriendRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateUserCaches(req.SenderID, req.RecipientID)
	}

	return nil
}

// FindByID finds a request by ID with both profiles attached
func (r *friendRequestRepository) FindByID(id string) (*model.FriendRequest, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.getFromCache(friendReqCachePrefix + id)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var req model.FriendRequest
	err := r.db.Preload("Sender").Preload("Recipient").
		Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheRequest(&req)
	}

	return &req, nil
}

// FindPendingBetween finds a pending request between two users in either direction
func (r *friendRequestRepository) FindPendingBetween(userID, otherUserID string) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.
		Where("((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)) AND status = ?",
			userID, otherUserID, otherUserID, userID, model.FriendRequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindPendingByRecipient finds incoming pending requests for a user
func (r *friendRequestRepository) FindPendingByRecipient(recipientID string) ([]*model.FriendRequest, error) {
	if r.redis != nil {
		cached, err := r.getListFromCache(friendReqIncomingCachePrefix + recipientID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var reqs []*model.FriendRequest
	err := r.db.Preload("Sender").
		Where("recipient_id = ? AND status = ?", recipientID, model.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheRequestList(friendReqIncomingCachePrefix+recipientID, reqs)
	}

	return reqs, nil
}

// FindAcceptedByRecipient finds accepted requests where the user was the
// original recipient. Unbounded history, returned newest first.
func (r *friendRequestRepository) FindAcceptedByRecipient(recipientID string) ([]*model.FriendRequest, error) {
	if r.redis != nil {
		cached, err := r.getListFromCache(friendReqAcceptedCachePrefix + recipientID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var reqs []*model.FriendRequest
	err := r.db.Preload("Sender").
		Where("recipient_id = ? AND status = ?", recipientID, model.FriendRequestStatusAccepted).
		Order("updated_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheRequestList(friendReqAcceptedCachePrefix+recipientID, reqs)
	}

	return reqs, nil
}

// FindPendingBySender finds outgoing pending requests for a user
func (r *friendRequestRepository) FindPendingBySender(senderID string) ([]*model.FriendRequest, error) {
	if r.redis != nil {
		cached, err := r.getListFromCache(friendReqOutgoingCachePrefix + senderID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var reqs []*model.FriendRequest
	err := r.db.Preload("Recipient").
		Where("sender_id = ? AND status = ?", senderID, model.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheRequestList(friendReqOutgoingCachePrefix+senderID, reqs)
	}

	return reqs, nil
}

// Accept flips a pending request to accepted and inserts both friendship
// edges in one transaction. The status flip is conditional on the row
// still being pending at write time, so a concurrent accept cannot apply
// the edges twice and a partial write cannot be observed.
func (r *friendRequestRepository) Accept(id string) (*model.FriendRequest, error) {
	var req model.FriendRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
			return err
		}

		result := tx.Model(&model.FriendRequest{}).
			Where("id = ? AND status = ?", id, model.FriendRequestStatusPending).
			Update("status", model.FriendRequestStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRequestNotPending
		}

		// Symmetric edges: both directions or neither.
		sender := model.User{ID: req.SenderID}
		recipient := model.User{ID: req.RecipientID}
		if err := tx.Model(&sender).Association("Friends").Append(&recipient); err != nil {
			return fmt.Errorf("failed to add friend edge: %w", err)
		}
		if err := tx.Model(&recipient).Association("Friends").Append(&sender); err != nil {
			return fmt.Errorf("failed to add friend edge: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.invalidateRequestCache(id)
		r.invalidateUserCaches(req.SenderID, req.RecipientID)
	}

	return r.FindByID(id)
}

// Cache helpers
func (r *friendRequestRepository) cacheRequest(req *model.FriendRequest) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return
	}
	r.redis.Set(friendReqCachePrefix+req.ID, string(reqJSON), friendReqCacheExpiration)
}

func (r *friendRequestRepository) cacheRequestList(key string, reqs []*model.FriendRequest) {
	reqsJSON, err := json.Marshal(reqs)
	if err != nil {
		return
	}
	r.redis.Set(key, string(reqsJSON), friendReqCacheExpiration)
}

func (r *friendRequestRepository) getFromCache(key string) (*model.FriendRequest, error) {
	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var req model.FriendRequest
	if err := json.Unmarshal([]byte(cached), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRequestRepository) getListFromCache(key string) ([]*model.FriendRequest, error) {
	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var reqs []*model.FriendRequest
	if err := json.Unmarshal([]byte(cached), &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *friendRequestRepository) invalidateRequestCache(id string) {
	r.redis.Delete(friendReqCachePrefix + id)
}

// invalidateUserCaches drops every list view either side could observe.
func (r *friendRequestRepository) invalidateUserCaches(senderID, recipientID string) {
	r.redis.Delete(friendReqIncomingCachePrefix + recipientID)
	r.redis.Delete(friendReqAcceptedCachePrefix + recipientID)
	r.redis.Delete(friendReqOutgoingCachePrefix + senderID)
}
