package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID               string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName         string    `gorm:"type:varchar(255);not null" json:"fullName"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash     string    `gorm:"type:varchar(255);not null" json:"-"`
	Bio              string    `gorm:"type:text" json:"bio"`
	ProfilePic       string    `gorm:"type:text" json:"profilePic"`
	NativeLanguage   string    `gorm:"type:varchar(100)" json:"nativeLanguage"`
	LearningLanguage string    `gorm:"type:varchar(100)" json:"learningLanguage"`
	Location         string    `gorm:"type:varchar(255)" json:"location"`
	IsOnboarded      bool      `gorm:"default:false" json:"isOnboarded"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Symmetric friendship edges: whenever A lists B, B lists A.
	Friends []*User `gorm:"many2many:user_friends;joinForeignKey:UserID;joinReferences:FriendID" json:"friends,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// FriendIDs returns the ids of the loaded friend set.
func (u *User) FriendIDs() []string {
	ids := make([]string, 0, len(u.Friends))
	for _, f := range u.Friends {
		ids = append(ids, f.ID)
	}
	return ids
}

// HasFriend reports whether userID is in the loaded friend set.
func (u *User) HasFriend(userID string) bool {
	for _, f := range u.Friends {
		if f.ID == userID {
			return true
		}
	}
	return false
}
