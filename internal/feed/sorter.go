package feed

import "sort"

// SortPosts orders scored posts in place for the active mode. The sort is
// stable: posts with equal keys keep their relative input order, so callers
// must supply a deterministic input order to get reproducible output.
//
// The saved tab keeps whatever ordering the underlying fetch mode produced;
// its filter is applied by the overlay, not here.
func SortPosts(posts []ScoredPost, mode Mode) {
	switch mode {
	case ModeForYou:
		sort.SliceStable(posts, func(i, j int) bool {
			if posts[i].Relevance != posts[j].Relevance {
				return posts[i].Relevance > posts[j].Relevance
			}
			return posts[i].Post.CreatedAt.After(posts[j].Post.CreatedAt)
		})
	case ModeTrending:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Post.LikesCount > posts[j].Post.LikesCount
		})
	case ModeRecent:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Post.CreatedAt.After(posts[j].Post.CreatedAt)
		})
	case ModeSaved:
		// keep fetch order
	}
}
