package feed

import "strings"

// Annotate stamps hasLiked/hasSaved onto every post from the viewer's
// interaction sets. Membership checks are O(1) map lookups.
func Annotate(posts []ScoredPost, viewer *ViewerContext) {
	for i := range posts {
		posts[i].HasLiked = viewer.HasLiked(posts[i].Post.ID)
		posts[i].HasSaved = viewer.HasSaved(posts[i].Post.ID)
	}
}

// FilterSearch retains posts matching the free-text query (case-insensitive
// substring over caption, author handle, and linked outfit/item name). An
// empty query retains everything.
func FilterSearch(posts []ScoredPost, query string) []ScoredPost {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return posts
	}

	matched := make([]ScoredPost, 0, len(posts))
	for _, post := range posts {
		if matchesQuery(&post, query) {
			matched = append(matched, post)
		}
	}
	return matched
}

func matchesQuery(post *ScoredPost, query string) bool {
	if strings.Contains(strings.ToLower(post.Post.Caption), query) {
		return true
	}
	if strings.Contains(strings.ToLower(post.Author.Handle), query) {
		return true
	}
	if post.Outfit != nil && strings.Contains(strings.ToLower(post.Outfit.Name), query) {
		return true
	}
	if post.Item != nil && strings.Contains(strings.ToLower(post.Item.Name), query) {
		return true
	}
	return false
}

// FilterSaved retains only posts the viewer has saved. Evaluated client-side
// over the already-annotated pool; applied after the search filter.
func FilterSaved(posts []ScoredPost) []ScoredPost {
	saved := make([]ScoredPost, 0, len(posts))
	for _, post := range posts {
		if post.HasSaved {
			saved = append(saved, post)
		}
	}
	return saved
}
