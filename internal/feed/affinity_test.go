package feed

import (
	"context"
	"errors"
	"testing"
)

type fakeStyleStore struct {
	tags map[int64][]string
	err  error
}

func (s *fakeStyleStore) TagsByUserIDs(ctx context.Context, ids []int64) (map[int64][]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make(map[int64][]string)
	for _, id := range ids {
		if tags, ok := s.tags[id]; ok {
			result[id] = tags
		}
	}
	return result, nil
}

func TestStyleAffinityIndexTagsFor(t *testing.T) {
	index := NewStyleAffinityIndex(&fakeStyleStore{
		tags: map[int64][]string{
			1: {"Minimalist", "STREETWEAR", "minimalist", "  Vintage "},
		},
	})

	result, err := index.TagsFor(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("TagsFor() error: %v", err)
	}

	// Tags are lower-cased, trimmed, and deduplicated
	tags := result[1]
	if len(tags) != 3 {
		t.Errorf("TagsFor() returned %d tags for user 1, want 3", len(tags))
	}
	for _, want := range []string{"minimalist", "streetwear", "vintage"} {
		if !tags.Contains(want) {
			t.Errorf("TagsFor() missing tag %q", want)
		}
	}

	// A user with no declared tags gets an empty set, not a missing entry
	if empty, ok := result[2]; !ok || len(empty) != 0 {
		t.Errorf("TagsFor() for tagless user = %v (present %v), want empty set", empty, ok)
	}
}

func TestStyleAffinityIndexPropagatesError(t *testing.T) {
	index := NewStyleAffinityIndex(&fakeStyleStore{err: errors.New("connection refused")})

	if _, err := index.TagsFor(context.Background(), []int64{1}); err == nil {
		t.Error("TagsFor() should propagate backend errors")
	}
}

func TestStyleAffinityIndexEmptyInput(t *testing.T) {
	index := NewStyleAffinityIndex(&fakeStyleStore{err: errors.New("should not be called")})

	result, err := index.TagsFor(context.Background(), nil)
	if err != nil {
		t.Fatalf("TagsFor(nil) error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("TagsFor(nil) = %v, want empty map", result)
	}
}
