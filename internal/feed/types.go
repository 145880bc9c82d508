package feed

import (
	"fmt"
	"strings"

	"github.com/lookbook-app/lookbook/internal/models"
)

// Mode identifies the active feed tab
type Mode string

const (
	ModeForYou   Mode = "foryou"
	ModeTrending Mode = "trending"
	ModeRecent   Mode = "recent"
	ModeSaved    Mode = "saved"
)

// ParseMode validates a mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeForYou, ModeTrending, ModeRecent, ModeSaved:
		return Mode(s), nil
	case "":
		return ModeForYou, nil
	default:
		return "", fmt.Errorf("invalid feed mode: %s", s)
	}
}

// CandidateOrder is the ordering hint passed to the content store
type CandidateOrder string

const (
	ByLikesDesc   CandidateOrder = "by_likes_desc"
	ByRecencyDesc CandidateOrder = "by_recency_desc"
)

// FetchOrder returns the raw fetch ordering for a mode. Trending is fetched
// pre-sorted by likes from the store; everything else by recency.
func (m Mode) FetchOrder() CandidateOrder {
	if m == ModeTrending {
		return ByLikesDesc
	}
	return ByRecencyDesc
}

// TagSet is a normalized (lower-cased, deduplicated) set of style tags
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from raw tag names
func NewTagSet(tags []string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set contains the tag (case-insensitive)
func (s TagSet) Contains(tag string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// ViewerContext carries the requesting user's identity, style affinity, and
// interaction sets. It is rebuilt once per feed session and mutated only by
// the session's toggle handlers.
type ViewerContext struct {
	UserID    int64
	StyleTags TagSet
	Liked     map[int64]struct{}
	Saved     map[int64]struct{}
}

// HasLiked reports whether the viewer has liked the post
func (v *ViewerContext) HasLiked(postID int64) bool {
	_, ok := v.Liked[postID]
	return ok
}

// HasSaved reports whether the viewer has saved the post
func (v *ViewerContext) HasSaved(postID int64) bool {
	_, ok := v.Saved[postID]
	return ok
}

// AuthorProfile is the display data resolved for a post author
type AuthorProfile struct {
	ID          int64    `json:"id"`
	Handle      string   `json:"handle"`
	DisplayName string   `json:"display_name"`
	AvatarURL   string   `json:"avatar_url"`
	StyleTags   []string `json:"style_tags,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// OutfitPayload is the linked-outfit data attached to a post
type OutfitPayload struct {
	ID    int64                 `json:"id"`
	Name  string                `json:"name"`
	Tags  []string              `json:"tags,omitempty"`
	Items []models.ClothingItem `json:"items,omitempty"`
}

// ScoredPost is a post annotated with its relevance score, viewer interaction
// state, and resolved enrichment payloads. Derived and ephemeral; never persisted.
type ScoredPost struct {
	Post      models.Post          `json:"post"`
	Author    AuthorProfile        `json:"author"`
	Outfit    *OutfitPayload       `json:"outfit,omitempty"`
	Item      *models.ClothingItem `json:"item,omitempty"`
	Relevance int                  `json:"relevance"`
	HasLiked  bool                 `json:"has_liked"`
	HasSaved  bool                 `json:"has_saved"`
}

// EntryKind distinguishes real posts from interleaved sponsored entries
type EntryKind string

const (
	EntryPost EntryKind = "post"
	EntryAd   EntryKind = "ad"
)

// FeedEntry is a single display entry: a post or an ad slot
type FeedEntry struct {
	Kind EntryKind       `json:"kind"`
	Post *ScoredPost     `json:"post,omitempty"`
	Ad   *SponsoredEntry `json:"ad,omitempty"`
}

// FeedView is the assembled feed. Posts is the canonical un-interleaved list
// used for subsequent mutations and re-sorts; Entries is the display sequence
// with ads interleaved.
type FeedView struct {
	Mode    Mode         `json:"mode"`
	Query   string       `json:"query,omitempty"`
	Posts   []ScoredPost `json:"posts"`
	Entries []FeedEntry  `json:"entries"`
}
