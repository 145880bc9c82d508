package feed

import (
	"math/rand"
	"sync"
)

// SponsoredEntry is a non-post display entry. Ads carry no persisted state
// and are regenerated fresh on every render pass.
type SponsoredEntry struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Headline string `json:"headline"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
}

// DefaultInventory returns the fixed sponsored-content inventory
func DefaultInventory() []SponsoredEntry {
	return []SponsoredEntry{
		{
			ID:       "sp-loomwear",
			Brand:    "Loomwear",
			Headline: "Linen basics for every capsule wardrobe",
			ImageURL: "https://cdn.lookbook.app/sponsored/loomwear.jpg",
			LinkURL:  "https://loomwear.example.com",
		},
		{
			ID:       "sp-kicksect",
			Brand:    "Kicksect",
			Headline: "Fresh drops, zero break-in",
			ImageURL: "https://cdn.lookbook.app/sponsored/kicksect.jpg",
			LinkURL:  "https://kicksect.example.com",
		},
		{
			ID:       "sp-hemline",
			Brand:    "Hemline Studio",
			Headline: "Tailoring that travels with you",
			ImageURL: "https://cdn.lookbook.app/sponsored/hemline.jpg",
			LinkURL:  "https://hemline.example.com",
		},
	}
}

// AdInterleaver injects sponsored entries into the display sequence at a
// fixed cadence. Interleaving affects only the display sequence, never the
// canonical post order, pagination, or scoring.
type AdInterleaver struct {
	inventory []SponsoredEntry
	cadence   int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAdInterleaver creates an interleaver over a fixed inventory
func NewAdInterleaver(inventory []SponsoredEntry, cadence int, rng *rand.Rand) *AdInterleaver {
	if cadence <= 0 {
		cadence = 6
	}
	return &AdInterleaver{
		inventory: inventory,
		cadence:   cadence,
		rng:       rng,
	}
}

// Interleave builds the display sequence: after every cadence-th post, one
// sponsored entry picked uniformly at random from the inventory.
func (a *AdInterleaver) Interleave(posts []ScoredPost) []FeedEntry {
	entries := make([]FeedEntry, 0, len(posts)+len(posts)/a.cadence)
	for i := range posts {
		entries = append(entries, FeedEntry{Kind: EntryPost, Post: &posts[i]})
		if (i+1)%a.cadence == 0 {
			if ad := a.pick(); ad != nil {
				entries = append(entries, FeedEntry{Kind: EntryAd, Ad: ad})
			}
		}
	}
	return entries
}

func (a *AdInterleaver) pick() *SponsoredEntry {
	if len(a.inventory) == 0 {
		return nil
	}
	a.mu.Lock()
	n := a.rng.Intn(len(a.inventory))
	a.mu.Unlock()
	ad := a.inventory[n]
	return &ad
}
