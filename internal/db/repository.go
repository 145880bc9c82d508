package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lookbook-app/lookbook/internal/feed"
	"github.com/lookbook-app/lookbook/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListCandidates retrieves the raw candidate pool for feed assembly. Both
// orders carry an id tie-break so the pool order is reproducible across runs.
func (r *PostRepository) ListCandidates(ctx context.Context, order feed.CandidateOrder, limit int) ([]models.Post, error) {
	query := r.db.WithContext(ctx).Limit(limit)

	switch order {
	case feed.ByLikesDesc:
		query = query.Order("likes_count DESC, id DESC")
	case feed.ByRecencyDesc:
		query = query.Order("created_at DESC, id DESC")
	default:
		return nil, fmt.Errorf("invalid candidate order: %s", order)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create creates a new post after validating its content binding
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// ProfileRepository provides profile-related database operations
type ProfileRepository struct {
	*Repository
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(repo *Repository) *ProfileRepository {
	return &ProfileRepository{Repository: repo}
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// ProfilesByIDs retrieves multiple profiles in one query, keyed by id
func (r *ProfileRepository) ProfilesByIDs(ctx context.Context, ids []int64) (map[int64]models.Profile, error) {
	result := make(map[int64]models.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for i := range profiles {
		result[profiles[i].ID] = profiles[i]
	}
	return result, nil
}

// StyleTagRepository provides style-tag lookups
type StyleTagRepository struct {
	*Repository
}

// NewStyleTagRepository creates a new style tag repository
func NewStyleTagRepository(repo *Repository) *StyleTagRepository {
	return &StyleTagRepository{Repository: repo}
}

// TagsByUserIDs retrieves the declared style tags for a set of users in one
// query. Users without tags are simply absent from the result map.
func (r *StyleTagRepository) TagsByUserIDs(ctx context.Context, ids []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.ProfileStyleTag
	if err := r.db.WithContext(ctx).Where("profile_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ProfileID] = append(result[row.ProfileID], row.Tag)
	}
	return result, nil
}

// WardrobeRepository provides outfit and clothing-item lookups
type WardrobeRepository struct {
	*Repository
}

// NewWardrobeRepository creates a new wardrobe repository
func NewWardrobeRepository(repo *Repository) *WardrobeRepository {
	return &WardrobeRepository{Repository: repo}
}

// OutfitsByIDs retrieves outfits with their member items and tags, keyed by id
func (r *WardrobeRepository) OutfitsByIDs(ctx context.Context, ids []int64) (map[int64]models.Outfit, error) {
	result := make(map[int64]models.Outfit, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var outfits []models.Outfit
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Tags").
		Where("id IN ?", ids).
		Find(&outfits).Error; err != nil {
		return nil, err
	}
	for i := range outfits {
		result[outfits[i].ID] = outfits[i]
	}
	return result, nil
}

// ClothingItemsByIDs retrieves clothing items keyed by id
func (r *WardrobeRepository) ClothingItemsByIDs(ctx context.Context, ids []int64) (map[int64]models.ClothingItem, error) {
	result := make(map[int64]models.ClothingItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var items []models.ClothingItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		result[items[i].ID] = items[i]
	}
	return result, nil
}

// InteractionRepository provides like/save database operations
type InteractionRepository struct {
	*Repository
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(repo *Repository) *InteractionRepository {
	return &InteractionRepository{Repository: repo}
}

// LikedPostIDs retrieves the ids of posts the user has liked
func (r *InteractionRepository) LikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SavedPostIDs retrieves the ids of posts the user has saved
func (r *InteractionRepository) SavedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// AddLike inserts a like record and increments the post's like count. The
// composite primary key on lookbook_likes rejects duplicate inserts.
func (r *InteractionRepository) AddLike(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// RemoveLike deletes a like record and decrements the post's like count,
// floored at zero.
func (r *InteractionRepository) RemoveLike(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error
	})
}

// AddSave inserts a save record. Saves have no effect on any count.
func (r *InteractionRepository) AddSave(ctx context.Context, postID, userID int64) error {
	save := models.Save{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Create(&save).Error
}

// RemoveSave deletes a save record
func (r *InteractionRepository) RemoveSave(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).Delete(&models.Save{PostID: postID, UserID: userID}).Error
}
