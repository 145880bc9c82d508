package feed

import (
	"testing"

	"github.com/lookbook-app/lookbook/internal/models"
)

func TestAnnotate(t *testing.T) {
	posts := []ScoredPost{
		{Post: models.Post{ID: 1}},
		{Post: models.Post{ID: 2}},
		{Post: models.Post{ID: 3}},
	}
	viewer := &ViewerContext{
		UserID: 9,
		Liked:  map[int64]struct{}{1: {}, 3: {}},
		Saved:  map[int64]struct{}{2: {}},
	}

	Annotate(posts, viewer)

	if !posts[0].HasLiked || posts[0].HasSaved {
		t.Errorf("post 1 annotation = liked %v saved %v, want liked only", posts[0].HasLiked, posts[0].HasSaved)
	}
	if posts[1].HasLiked || !posts[1].HasSaved {
		t.Errorf("post 2 annotation = liked %v saved %v, want saved only", posts[1].HasLiked, posts[1].HasSaved)
	}
	if !posts[2].HasLiked || posts[2].HasSaved {
		t.Errorf("post 3 annotation = liked %v saved %v, want liked only", posts[2].HasLiked, posts[2].HasSaved)
	}
}

func TestFilterSearch(t *testing.T) {
	posts := []ScoredPost{
		{Post: models.Post{ID: 1, Caption: "Blue jacket day"}},
		{Post: models.Post{ID: 2, Caption: "Red shoes"}},
		{Post: models.Post{ID: 3, Caption: "feeling BLUE today"}},
	}

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{
			name:  "case-insensitive substring on caption",
			query: "blue",
			want:  []int64{1, 3},
		},
		{
			name:  "empty query retains all",
			query: "",
			want:  []int64{1, 2, 3},
		},
		{
			name:  "whitespace-only query retains all",
			query: "   ",
			want:  []int64{1, 2, 3},
		},
		{
			name:  "no matches",
			query: "velvet",
			want:  []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idsOf(FilterSearch(posts, tt.query))
			if len(got) != len(tt.want) {
				t.Fatalf("FilterSearch(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("FilterSearch(%q) = %v, want %v", tt.query, got, tt.want)
				}
			}
		})
	}
}

func TestFilterSearchMatchesEnrichment(t *testing.T) {
	posts := []ScoredPost{
		{Post: models.Post{ID: 1}, Author: AuthorProfile{Handle: "denimqueen"}},
		{Post: models.Post{ID: 2}, Outfit: &OutfitPayload{Name: "Sunday denim"}},
		{Post: models.Post{ID: 3}, Item: &models.ClothingItem{Name: "Raw denim jeans"}},
		{Post: models.Post{ID: 4}, Author: AuthorProfile{Handle: "silkroad"}},
	}

	got := idsOf(FilterSearch(posts, "Denim"))
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("FilterSearch(denim) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FilterSearch(denim) = %v, want %v", got, want)
		}
	}
}

func TestFilterSaved(t *testing.T) {
	posts := []ScoredPost{
		{Post: models.Post{ID: 1}, HasSaved: true},
		{Post: models.Post{ID: 2}},
		{Post: models.Post{ID: 3}, HasSaved: true},
	}

	saved := FilterSaved(posts)

	if len(saved) != 2 {
		t.Fatalf("FilterSaved() kept %d posts, want 2", len(saved))
	}
	// Output is a subset of the input pool and every element is saved
	for _, post := range saved {
		if !post.HasSaved {
			t.Errorf("FilterSaved() kept unsaved post %d", post.Post.ID)
		}
	}
}
