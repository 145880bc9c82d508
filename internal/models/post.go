package models

import (
	"database/sql"
	"fmt"
	"time"
)

// PostKind enumerates the kinds of inspiration posts
type PostKind string

const (
	KindFitCheck     PostKind = "fit_check"
	KindOutfit       PostKind = "outfit"
	KindClothingItem PostKind = "clothing_item"
)

// Post represents an inspiration feed post. A post carries exactly one
// content binding: a linked outfit, a linked clothing item, or a direct image.
type Post struct {
	ID             int64         `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID       int64         `gorm:"not null;index;column:author_id"`
	Kind           PostKind      `gorm:"type:varchar(16);not null;column:kind"`
	Caption        string        `gorm:"type:varchar(512);column:caption"`
	OutfitID       sql.NullInt64 `gorm:"column:outfit_id"`
	ClothingItemID sql.NullInt64 `gorm:"column:clothing_item_id"`
	ImageURL       string        `gorm:"type:varchar(512);column:image_url"`
	LikesCount     int           `gorm:"not null;default:0;column:likes_count"`
	CreatedAt      time.Time     `gorm:"not null;index;column:created_at"`

	// Relationships
	Author       *Profile      `gorm:"foreignKey:AuthorID;references:ID"`
	Outfit       *Outfit       `gorm:"foreignKey:OutfitID;references:ID"`
	ClothingItem *ClothingItem `gorm:"foreignKey:ClothingItemID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "lookbook_posts"
}

// Validate enforces the single content-binding rule at creation time.
func (p *Post) Validate() error {
	bindings := 0
	if p.OutfitID.Valid {
		bindings++
	}
	if p.ClothingItemID.Valid {
		bindings++
	}
	if p.ImageURL != "" {
		bindings++
	}
	if bindings != 1 {
		return fmt.Errorf("post must have exactly one content binding, has %d", bindings)
	}

	switch p.Kind {
	case KindFitCheck, KindOutfit, KindClothingItem:
	default:
		return fmt.Errorf("invalid post kind: %s", p.Kind)
	}

	if p.LikesCount < 0 {
		return fmt.Errorf("likes_count must not be negative")
	}
	return nil
}
