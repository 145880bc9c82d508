package feed

import (
	"context"

	"github.com/lookbook-app/lookbook/internal/models"
)

// ContentStore supplies the raw candidate pool
type ContentStore interface {
	ListCandidates(ctx context.Context, order CandidateOrder, limit int) ([]models.Post, error)
}

// ProfileStore supplies author profiles in bulk
type ProfileStore interface {
	ProfilesByIDs(ctx context.Context, ids []int64) (map[int64]models.Profile, error)
}

// StyleStore supplies declared style tags per user in bulk
type StyleStore interface {
	TagsByUserIDs(ctx context.Context, ids []int64) (map[int64][]string, error)
}

// WardrobeStore supplies linked outfit and clothing-item payloads in bulk
type WardrobeStore interface {
	OutfitsByIDs(ctx context.Context, ids []int64) (map[int64]models.Outfit, error)
	ClothingItemsByIDs(ctx context.Context, ids []int64) (map[int64]models.ClothingItem, error)
}

// InteractionStore supplies and mutates the viewer's like/save records
type InteractionStore interface {
	LikedPostIDs(ctx context.Context, userID int64) ([]int64, error)
	SavedPostIDs(ctx context.Context, userID int64) ([]int64, error)
	AddLike(ctx context.Context, postID, userID int64) error
	RemoveLike(ctx context.Context, postID, userID int64) error
	AddSave(ctx context.Context, postID, userID int64) error
	RemoveSave(ctx context.Context, postID, userID int64) error
}

// Seeder triggers the external generative styling service to produce fresh
// inspiration posts for a profile
type Seeder interface {
	SeedInspirations(ctx context.Context, userID int64) (int, error)
}
