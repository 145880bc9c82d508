package feed

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lookbook-app/lookbook/internal/cache"
	"github.com/lookbook-app/lookbook/internal/models"
	"github.com/lookbook-app/lookbook/pkg/config"
	"github.com/lookbook-app/lookbook/pkg/logging"
	"github.com/lookbook-app/lookbook/pkg/telemetry"
)

// Assembler orchestrates the fetch-enrich-score-sort-limit pipeline for a
// feed load. Enrichment lookups are batched by distinct id sets and issued
// concurrently; only the primary candidate fetch is fatal to the load.
type Assembler struct {
	content      ContentStore
	profiles     ProfileStore
	affinity     *StyleAffinityIndex
	wardrobe     WardrobeStore
	interactions InteractionStore
	scorer       Scorer
	ads          *AdInterleaver
	cache        *cache.Cache

	candidateLimit int
	displayLimit   int
	logger         *zap.Logger
}

// NewAssembler creates a feed assembler over the collaborator stores
func NewAssembler(
	content ContentStore,
	profiles ProfileStore,
	styles StyleStore,
	wardrobe WardrobeStore,
	interactions InteractionStore,
	redisCache *cache.Cache,
	cfg *config.FeedConfig,
) *Assembler {
	return &Assembler{
		content:        content,
		profiles:       profiles,
		affinity:       NewStyleAffinityIndex(styles),
		wardrobe:       wardrobe,
		interactions:   interactions,
		scorer:         NewScorer(WeightsFromConfig(cfg)),
		ads:            NewAdInterleaver(DefaultInventory(), cfg.AdCadence, rand.New(rand.NewSource(time.Now().UnixNano()))),
		cache:          redisCache,
		candidateLimit: cfg.CandidateLimit,
		displayLimit:   cfg.DisplayLimit,
		logger:         logging.WithComponent("feed-assembler"),
	}
}

// BuildViewerContext fetches the viewer's style tags and interaction sets.
// Interaction-set failures are fatal (the overlay would be wrong without
// them); affinity failure degrades to an empty style set.
func (a *Assembler) BuildViewerContext(ctx context.Context, viewerID int64) (*ViewerContext, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.build_viewer_context")
	defer span.End()

	var (
		wg        sync.WaitGroup
		liked     []int64
		saved     []int64
		styles    map[int64]TagSet
		likedErr  error
		savedErr  error
		stylesErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		liked, likedErr = a.interactions.LikedPostIDs(ctx, viewerID)
	}()
	go func() {
		defer wg.Done()
		saved, savedErr = a.interactions.SavedPostIDs(ctx, viewerID)
	}()
	go func() {
		defer wg.Done()
		styles, stylesErr = a.affinity.TagsFor(ctx, []int64{viewerID})
	}()
	wg.Wait()

	if likedErr != nil {
		return nil, fmt.Errorf("failed to load liked posts: %w", likedErr)
	}
	if savedErr != nil {
		return nil, fmt.Errorf("failed to load saved posts: %w", savedErr)
	}

	viewer := &ViewerContext{
		UserID:    viewerID,
		StyleTags: TagSet{},
		Liked:     make(map[int64]struct{}, len(liked)),
		Saved:     make(map[int64]struct{}, len(saved)),
	}
	for _, id := range liked {
		viewer.Liked[id] = struct{}{}
	}
	for _, id := range saved {
		viewer.Saved[id] = struct{}{}
	}

	if stylesErr != nil {
		a.logger.Warn("Viewer style lookup failed, scoring without affinity",
			zap.Int64("viewer_id", viewerID), zap.Error(stylesErr))
	} else if tags, ok := styles[viewerID]; ok {
		viewer.StyleTags = tags
	}

	return viewer, nil
}

// Load assembles a FeedView for the viewer under the given mode and search
// query. The candidate fetch is the only fatal step; enrichment failures
// degrade to placeholder data.
func (a *Assembler) Load(ctx context.Context, viewer *ViewerContext, mode Mode, query string) (*FeedView, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.load")
	defer span.End()

	candidates, err := a.fetchCandidates(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate posts: %w", err)
	}

	en := a.enrich(ctx, viewer, candidates)

	now := time.Now().UTC()
	posts := make([]ScoredPost, 0, len(candidates))
	for _, post := range candidates {
		sp := ScoredPost{Post: post}

		if profile, ok := en.profiles[post.AuthorID]; ok {
			sp.Author = AuthorProfile{
				ID:          profile.ID,
				Handle:      profile.Handle,
				DisplayName: profile.DisplayName,
				AvatarURL:   profile.AvatarURL,
				StyleTags:   sortedTags(en.styles[post.AuthorID]),
			}
		} else {
			sp.Author = placeholderAuthor(post.AuthorID)
		}

		var outfitTags TagSet
		if post.OutfitID.Valid {
			if outfit, ok := en.outfits[post.OutfitID.Int64]; ok {
				payload := outfitPayload(outfit)
				sp.Outfit = payload
				outfitTags = NewTagSet(payload.Tags)
			}
		}
		if post.ClothingItemID.Valid {
			if item, ok := en.items[post.ClothingItemID.Int64]; ok {
				itemCopy := item
				sp.Item = &itemCopy
			}
		}

		sp.Relevance = a.scorer.Score(post, en.styles[post.AuthorID], outfitTags, viewer.StyleTags, now)
		posts = append(posts, sp)
	}

	SortPosts(posts, mode)
	Annotate(posts, viewer)
	posts = FilterSearch(posts, query)
	if mode == ModeSaved {
		posts = FilterSaved(posts)
	}
	if len(posts) > a.displayLimit {
		posts = posts[:a.displayLimit]
	}

	return &FeedView{
		Mode:    mode,
		Query:   query,
		Posts:   posts,
		Entries: a.ads.Interleave(posts),
	}, nil
}

// Interleave regenerates the display sequence for the canonical post list.
// Used after mutations so the view reflects updated annotations without a
// re-fetch.
func (a *Assembler) Interleave(posts []ScoredPost) []FeedEntry {
	return a.ads.Interleave(posts)
}

// InvalidateCandidates drops the cached candidate pools. Called after a like
// write lands so the next fetch picks up the new count instead of waiting out
// the TTL.
func (a *Assembler) InvalidateCandidates() {
	for _, order := range []CandidateOrder{ByLikesDesc, ByRecencyDesc} {
		key := cache.HashKey("feed_candidates", string(order), fmt.Sprintf("%d", a.candidateLimit))
		if err := a.cache.Delete(key); err != nil && err != cache.ErrCacheDisabled {
			a.logger.Warn("Failed to invalidate candidate pool", zap.Error(err))
		}
	}
}

// fetchCandidates pulls the raw candidate pool, cached per fetch order with a
// short per-mode TTL.
func (a *Assembler) fetchCandidates(ctx context.Context, mode Mode) ([]models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.fetch_candidates")
	defer span.End()

	order := mode.FetchOrder()
	cacheKey := cache.HashKey("feed_candidates", string(order), fmt.Sprintf("%d", a.candidateLimit))

	var cached []models.Post
	if err := a.cache.GetJSON(cacheKey, &cached); err == nil {
		return cached, nil
	}

	posts, err := a.content.ListCandidates(ctx, order, a.candidateLimit)
	if err != nil {
		return nil, err
	}

	if err := a.cache.SetJSON(cacheKey, posts, candidateTTL(mode)); err != nil && err != cache.ErrCacheDisabled {
		a.logger.Warn("Failed to cache candidate pool", zap.Error(err))
	}

	return posts, nil
}

// candidateTTL returns the candidate-pool cache TTL per mode. Recency-driven
// tabs go stale fast; trending tolerates a longer horizon.
func candidateTTL(mode Mode) time.Duration {
	switch mode {
	case ModeTrending:
		return 300 * time.Second
	case ModeRecent:
		return 3 * time.Second
	default:
		return 30 * time.Second
	}
}

// enrichment holds the batched lookup results for a candidate pool
type enrichment struct {
	profiles map[int64]models.Profile
	styles   map[int64]TagSet
	outfits  map[int64]models.Outfit
	items    map[int64]models.ClothingItem
}

// enrich issues the batched enrichment lookups as a single concurrent batch.
// Each failed lookup is logged and replaced by an empty map so affected posts
// degrade to placeholder data instead of being dropped.
func (a *Assembler) enrich(ctx context.Context, viewer *ViewerContext, candidates []models.Post) enrichment {
	ctx, span := telemetry.StartSpan(ctx, "feed.enrich")
	defer span.End()

	authorIDs := make([]int64, 0, len(candidates))
	seenAuthors := make(map[int64]struct{}, len(candidates))
	var outfitIDs, itemIDs []int64
	seenOutfits := make(map[int64]struct{})
	seenItems := make(map[int64]struct{})

	for _, post := range candidates {
		if _, ok := seenAuthors[post.AuthorID]; !ok {
			seenAuthors[post.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, post.AuthorID)
		}
		if post.OutfitID.Valid {
			if _, ok := seenOutfits[post.OutfitID.Int64]; !ok {
				seenOutfits[post.OutfitID.Int64] = struct{}{}
				outfitIDs = append(outfitIDs, post.OutfitID.Int64)
			}
		}
		if post.ClothingItemID.Valid {
			if _, ok := seenItems[post.ClothingItemID.Int64]; !ok {
				seenItems[post.ClothingItemID.Int64] = struct{}{}
				itemIDs = append(itemIDs, post.ClothingItemID.Int64)
			}
		}
	}

	en := enrichment{}
	var wg sync.WaitGroup
	var profilesErr, stylesErr, outfitsErr, itemsErr error

	wg.Add(4)
	go func() {
		defer wg.Done()
		en.profiles, profilesErr = a.profiles.ProfilesByIDs(ctx, authorIDs)
	}()
	go func() {
		defer wg.Done()
		en.styles, stylesErr = a.affinity.TagsFor(ctx, authorIDs)
	}()
	go func() {
		defer wg.Done()
		en.outfits, outfitsErr = a.wardrobe.OutfitsByIDs(ctx, outfitIDs)
	}()
	go func() {
		defer wg.Done()
		en.items, itemsErr = a.wardrobe.ClothingItemsByIDs(ctx, itemIDs)
	}()
	wg.Wait()

	if profilesErr != nil {
		a.logger.Warn("Author profile lookup failed, rendering placeholders", zap.Error(profilesErr))
		en.profiles = map[int64]models.Profile{}
	}
	if stylesErr != nil {
		a.logger.Warn("Author style lookup failed, scoring without affinity", zap.Error(stylesErr))
		en.styles = map[int64]TagSet{}
	}
	if outfitsErr != nil {
		a.logger.Warn("Outfit lookup failed, omitting linked outfits", zap.Error(outfitsErr))
		en.outfits = map[int64]models.Outfit{}
	}
	if itemsErr != nil {
		a.logger.Warn("Clothing item lookup failed, omitting linked items", zap.Error(itemsErr))
		en.items = map[int64]models.ClothingItem{}
	}

	return en
}

func placeholderAuthor(authorID int64) AuthorProfile {
	return AuthorProfile{
		ID:          authorID,
		Handle:      "unknown",
		DisplayName: "Lookbook member",
		Placeholder: true,
	}
}

func outfitPayload(outfit models.Outfit) *OutfitPayload {
	tags := make([]string, 0, len(outfit.Tags))
	for _, tag := range outfit.Tags {
		tags = append(tags, tag.Tag)
	}
	return &OutfitPayload{
		ID:    outfit.ID,
		Name:  outfit.Name,
		Tags:  tags,
		Items: outfit.Items,
	}
}

func sortedTags(set TagSet) []string {
	if len(set) == 0 {
		return nil
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
