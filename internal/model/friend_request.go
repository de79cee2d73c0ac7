package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendRequest struct {
	ID          string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SenderID    string    `gorm:"type:uuid;not null;index" json:"senderId"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipientId"`
	Status      string    `gorm:"type:varchar(20);default:'pending';not null" json:"status"` // pending, accepted
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Sender    User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID" json:"recipient,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friend request status constants. The only transition is
// pending -> accepted, performed by the recipient.
const (
	FriendRequestStatusPending  = "pending"
	FriendRequestStatusAccepted = "accepted"
)
