package models

import "time"

// Profile represents a user profile
type Profile struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Handle      string    `gorm:"type:varchar(32);uniqueIndex;not null;column:handle"`
	DisplayName string    `gorm:"type:varchar(64);column:display_name"`
	AvatarURL   string    `gorm:"type:varchar(512);column:avatar_url"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	StyleTags []ProfileStyleTag `gorm:"foreignKey:ProfileID;references:ID"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "lookbook_profiles"
}

// ProfileStyleTag represents a declared style preference of a profile
type ProfileStyleTag struct {
	ProfileID int64  `gorm:"primaryKey;column:profile_id"`
	Tag       string `gorm:"type:varchar(32);primaryKey;column:tag"`
}

// TableName specifies the table name for ProfileStyleTag
func (ProfileStyleTag) TableName() string {
	return "lookbook_profile_style_tags"
}
