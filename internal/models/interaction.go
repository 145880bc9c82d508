package models

import "time"

// Like records that a user liked a post. The composite primary key doubles
// as the uniqueness constraint that blocks duplicate inserts.
type Like struct {
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "lookbook_likes"
}

// Save records that a user saved a post to their inspiration board
type Save struct {
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Save
func (Save) TableName() string {
	return "lookbook_saves"
}
