package feed

import (
	"context"
	"fmt"
)

// StyleAffinityIndex maps users to their normalized style-tag sets. Pure
// lookup over the style store; a user with no declared tags gets an empty set.
type StyleAffinityIndex struct {
	store StyleStore
}

// NewStyleAffinityIndex creates a new style affinity index
func NewStyleAffinityIndex(store StyleStore) *StyleAffinityIndex {
	return &StyleAffinityIndex{store: store}
}

// TagsFor returns the normalized style-tag set for each requested user. Every
// requested id is present in the result, absent tags map to an empty set.
// Backend failure propagates; callers degrade to empty affinity rather than
// failing the feed load.
func (i *StyleAffinityIndex) TagsFor(ctx context.Context, userIDs []int64) (map[int64]TagSet, error) {
	result := make(map[int64]TagSet, len(userIDs))
	for _, id := range userIDs {
		result[id] = TagSet{}
	}
	if len(userIDs) == 0 {
		return result, nil
	}

	raw, err := i.store.TagsByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("style tag lookup failed: %w", err)
	}

	for id, tags := range raw {
		result[id] = NewTagSet(tags)
	}
	return result, nil
}
