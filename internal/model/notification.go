package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index" json:"userId"`
	SenderID  *string    `gorm:"type:uuid;index" json:"senderId,omitempty"`
	Type      string     `gorm:"type:varchar(50);not null" json:"type"` // friend_request, friend_accepted
	Message   string     `gorm:"type:text" json:"message"`
	RequestID *string    `gorm:"type:uuid;index" json:"requestId,omitempty"`
	IsRead    bool       `gorm:"default:false" json:"isRead"`
	ReadAt    *time.Time `gorm:"type:timestamp" json:"readAt,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	User   User  `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Sender *User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
}

// BeforeCreate hook to generate UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}

// Notification type constants
const (
	NotificationTypeFriendRequest  = "friend_request"
	NotificationTypeFriendAccepted = "friend_accepted"
)
