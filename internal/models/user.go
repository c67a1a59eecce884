// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username        string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	DisplayName     string     `json:"display_name" gorm:"size:100"`
	UserType        UserType   `json:"user_type" gorm:"type:varchar(20);not null"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	WalletAddress   string     `json:"wallet_address,omitempty" gorm:"size:42;index"`
	ProfileData     JSONB      `json:"profile_data" gorm:"type:jsonb"`
	OwnedSongs      StringList `json:"owned_songs" gorm:"type:text"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Songs     []Song          `json:"songs,omitempty" gorm:"foreignKey:UploaderID"`
	Requests  []RightsRequest `json:"requests,omitempty" gorm:"foreignKey:RequestorID"`
	Playlists []Playlist      `json:"playlists,omitempty" gorm:"foreignKey:OwnerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
