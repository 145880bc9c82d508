package feed

import (
	"time"

	"github.com/lookbook-app/lookbook/internal/models"
	"github.com/lookbook-app/lookbook/pkg/config"
)

// Popularity and recency thresholds are fixed; only the weights are tunable.
const (
	likesHighWater = 100
	likesMidWater  = 50

	freshWindow     = 24 * time.Hour
	freshWindowLong = 72 * time.Hour
)

// Weights holds the additive scoring weights. Injectable so the ranking can
// be retuned without a code change.
type Weights struct {
	AuthorTagMatch int
	OutfitTagMatch int
	PopularityHigh int
	PopularityMid  int
	FreshDay       int
	FreshThreeDays int
}

// DefaultWeights returns the shipped ranking weights
func DefaultWeights() Weights {
	return Weights{
		AuthorTagMatch: 3,
		OutfitTagMatch: 2,
		PopularityHigh: 2,
		PopularityMid:  1,
		FreshDay:       3,
		FreshThreeDays: 1,
	}
}

// WeightsFromConfig builds Weights from the feed configuration
func WeightsFromConfig(cfg *config.FeedConfig) Weights {
	return Weights{
		AuthorTagMatch: cfg.WeightAuthorTag,
		OutfitTagMatch: cfg.WeightOutfitTag,
		PopularityHigh: cfg.WeightPopularityHigh,
		PopularityMid:  cfg.WeightPopularityMid,
		FreshDay:       cfg.WeightFreshDay,
		FreshThreeDays: cfg.WeightFreshThreeDays,
	}
}

// Scorer computes relevance scores for candidate posts
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights
func NewScorer(weights Weights) Scorer {
	return Scorer{weights: weights}
}

// Score computes the additive relevance score for a single post. Deterministic
// and pure. Tag-matching terms contribute 0 when the viewer has no declared
// style tags; the total is never negative with non-negative weights.
func (s Scorer) Score(post models.Post, authorTags, outfitTags, viewerTags TagSet, now time.Time) int {
	score := 0

	if len(viewerTags) > 0 {
		for tag := range authorTags {
			if viewerTags.Contains(tag) {
				score += s.weights.AuthorTagMatch
			}
		}
		for tag := range outfitTags {
			if viewerTags.Contains(tag) {
				score += s.weights.OutfitTagMatch
			}
		}
	}

	if post.LikesCount > likesHighWater {
		score += s.weights.PopularityHigh
	} else if post.LikesCount > likesMidWater {
		score += s.weights.PopularityMid
	}

	age := now.Sub(post.CreatedAt)
	if age < freshWindow {
		score += s.weights.FreshDay
	} else if age < freshWindowLong {
		score += s.weights.FreshThreeDays
	}

	return score
}
