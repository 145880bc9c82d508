package models

import "time"

// ClothingItem represents a single catalogued garment
type ClothingItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OwnerID   int64     `gorm:"not null;index;column:owner_id"`
	Name      string    `gorm:"type:varchar(128);not null;column:name"`
	Category  string    `gorm:"type:varchar(32);column:category"`
	Color     string    `gorm:"type:varchar(32);column:color"`
	ImageURL  string    `gorm:"type:varchar(512);column:image_url"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for ClothingItem
func (ClothingItem) TableName() string {
	return "lookbook_clothing_items"
}

// Outfit represents an assembled outfit and its member items
type Outfit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OwnerID   int64     `gorm:"not null;index;column:owner_id"`
	Name      string    `gorm:"type:varchar(128);not null;column:name"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Items []ClothingItem `gorm:"many2many:lookbook_outfit_items;joinForeignKey:OutfitID;joinReferences:ClothingItemID"`
	Tags  []OutfitTag    `gorm:"foreignKey:OutfitID;references:ID"`
}

// TableName specifies the table name for Outfit
func (Outfit) TableName() string {
	return "lookbook_outfits"
}

// OutfitTag represents a free-form tag attached to an outfit
type OutfitTag struct {
	OutfitID int64  `gorm:"primaryKey;column:outfit_id"`
	Tag      string `gorm:"type:varchar(32);primaryKey;column:tag"`
}

// TableName specifies the table name for OutfitTag
func (OutfitTag) TableName() string {
	return "lookbook_outfit_tags"
}
