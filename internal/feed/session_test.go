package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lookbook-app/lookbook/internal/models"
)

func newTestSession(stores *fakeStores) *Session {
	assembler := newTestAssembler(stores, nil)
	return NewSession(9, assembler, stores, &fakeSeeder{posts: 4})
}

func TestToggleLikeRoundTrip(t *testing.T) {
	stores := newFakeStores()
	stores.posts = []models.Post{
		{ID: 1, AuthorID: 1, Kind: models.KindFitCheck, LikesCount: 10, CreatedAt: time.Now()},
	}
	session := newTestSession(stores)

	view, err := session.Load(context.Background(), ModeRecent, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	liked, err := session.ToggleLike(context.Background(), 1)
	if err != nil || !liked {
		t.Fatalf("ToggleLike() = %v, %v; want true", liked, err)
	}
	if !view.Posts[0].HasLiked || view.Posts[0].Post.LikesCount != 11 {
		t.Errorf("after like: hasLiked %v count %d, want true 11",
			view.Posts[0].HasLiked, view.Posts[0].Post.LikesCount)
	}

	liked, err = session.ToggleLike(context.Background(), 1)
	if err != nil || liked {
		t.Fatalf("second ToggleLike() = %v, %v; want false", liked, err)
	}
	if view.Posts[0].HasLiked || view.Posts[0].Post.LikesCount != 10 {
		t.Errorf("after unlike: hasLiked %v count %d, want false 10",
			view.Posts[0].HasLiked, view.Posts[0].Post.LikesCount)
	}

	session.Wait()
	if len(stores.likeAdds) != 1 || stores.likeAdds[0] != 1 {
		t.Errorf("like writes = %v, want [1]", stores.likeAdds)
	}
	if len(stores.likeDels) != 1 || stores.likeDels[0] != 1 {
		t.Errorf("unlike writes = %v, want [1]", stores.likeDels)
	}
}

func TestToggleLikeKeepsOptimisticStateOnWriteFailure(t *testing.T) {
	stores := newFakeStores()
	stores.posts = []models.Post{
		{ID: 1, AuthorID: 1, Kind: models.KindFitCheck, LikesCount: 10, CreatedAt: time.Now()},
	}
	stores.likeErr = errors.New("write timeout")
	session := newTestSession(stores)

	view, err := session.Load(context.Background(), ModeRecent, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	liked, err := session.ToggleLike(context.Background(), 1)
	if err != nil || !liked {
		t.Fatalf("ToggleLike() = %v, %v; want true", liked, err)
	}

	session.Wait()
	if !view.Posts[0].HasLiked || view.Posts[0].Post.LikesCount != 11 {
		t.Errorf("failed write rolled back optimistic state: hasLiked %v count %d",
			view.Posts[0].HasLiked, view.Posts[0].Post.LikesCount)
	}
}

func TestUnlikeFloorsCountAtZero(t *testing.T) {
	stores := newFakeStores()
	stores.posts = []models.Post{
		{ID: 1, AuthorID: 1, Kind: models.KindFitCheck, LikesCount: 0, CreatedAt: time.Now()},
	}
	stores.liked = []int64{1}
	session := newTestSession(stores)

	view, err := session.Load(context.Background(), ModeRecent, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !view.Posts[0].HasLiked {
		t.Fatal("expected the post annotated as liked")
	}

	liked, err := session.ToggleLike(context.Background(), 1)
	if err != nil || liked {
		t.Fatalf("ToggleLike() = %v, %v; want false", liked, err)
	}
	if view.Posts[0].Post.LikesCount != 0 {
		t.Errorf("count after unlike at zero = %d, want 0", view.Posts[0].Post.LikesCount)
	}
	session.Wait()
}

func TestToggleSaveLeavesCountsAlone(t *testing.T) {
	stores := newFakeStores()
	stores.posts = []models.Post{
		{ID: 1, AuthorID: 1, Kind: models.KindFitCheck, LikesCount: 10, CreatedAt: time.Now()},
	}
	session := newTestSession(stores)

	view, err := session.Load(context.Background(), ModeRecent, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	saved, err := session.ToggleSave(context.Background(), 1)
	if err != nil || !saved {
		t.Fatalf("ToggleSave() = %v, %v; want true", saved, err)
	}
	if !view.Posts[0].HasSaved || view.Posts[0].Post.LikesCount != 10 {
		t.Errorf("after save: hasSaved %v count %d, want true 10",
			view.Posts[0].HasSaved, view.Posts[0].Post.LikesCount)
	}

	session.Wait()
	if len(stores.saveAdds) != 1 || stores.saveAdds[0] != 1 {
		t.Errorf("save writes = %v, want [1]", stores.saveAdds)
	}
}

func TestLoadSupersededByNewerLoad(t *testing.T) {
	stores := newFakeStores()
	stores.posts = []models.Post{
		{ID: 1, AuthorID: 1, Kind: models.KindFitCheck, CreatedAt: time.Now()},
	}
	stores.listEntered = make(chan struct{})
	stores.listRelease = make(chan struct{})
	session := newTestSession(stores)

	first := make(chan error, 1)
	second := make(chan error, 1)

	go func() {
		_, err := session.Load(context.Background(), ModeRecent, "")
		first <- err
	}()
	<-stores.listEntered // first load is inside the store

	go func() {
		_, err := session.Load(context.Background(), ModeTrending, "")
		second <- err
	}()
	<-stores.listEntered // second load claimed the newer sequence

	close(stores.listRelease)

	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Errorf("stale load error = %v, want ErrSuperseded", err)
	}
	if err := <-second; err != nil {
		t.Errorf("newest load error = %v, want nil", err)
	}

	view := session.View()
	if view == nil || view.Mode != ModeTrending {
		t.Errorf("visible view = %+v, want the trending result", view)
	}
}

func TestReloadKeepsToggleLandedMidFlight(t *testing.T) {
	stores := newFakeStores()
	stores.posts = []models.Post{
		{ID: 1, AuthorID: 1, Kind: models.KindFitCheck, LikesCount: 10, CreatedAt: time.Now()},
	}
	stores.listEntered = make(chan struct{})
	stores.listRelease = make(chan struct{})
	session := newTestSession(stores)

	done := make(chan error, 1)
	go func() {
		_, err := session.Load(context.Background(), ModeRecent, "")
		done <- err
	}()
	<-stores.listEntered // reload is inside the store

	liked, err := session.ToggleLike(context.Background(), 1)
	if err != nil || !liked {
		t.Fatalf("ToggleLike() = %v, %v; want true", liked, err)
	}
	saved, err := session.ToggleSave(context.Background(), 1)
	if err != nil || !saved {
		t.Fatalf("ToggleSave() = %v, %v; want true", saved, err)
	}

	close(stores.listRelease)
	if err := <-done; err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// The committed view must reflect the toggles, not the pre-toggle snapshot
	view := session.View()
	if len(view.Posts) != 1 {
		t.Fatalf("committed view has %d posts, want 1", len(view.Posts))
	}
	post := view.Posts[0]
	if !post.HasLiked || post.Post.LikesCount != 11 {
		t.Errorf("committed view = hasLiked %v count %d, want true 11", post.HasLiked, post.Post.LikesCount)
	}
	if !post.HasSaved {
		t.Error("committed view lost the mid-flight save")
	}
	session.Wait()
}

func TestRefreshPersonalization(t *testing.T) {
	stores := newFakeStores()
	session := newTestSession(stores)

	count, err := session.RefreshPersonalization(context.Background())
	if err != nil || count != 4 {
		t.Errorf("RefreshPersonalization() = %d, %v; want 4", count, err)
	}
}

func TestSessionManagerReusesSessions(t *testing.T) {
	stores := newFakeStores()
	manager := NewSessionManager(newTestAssembler(stores, nil), stores, &fakeSeeder{})

	a := manager.Session(1)
	if manager.Session(1) != a {
		t.Error("Session() should return the same session for a viewer")
	}
	if manager.Session(2) == a {
		t.Error("Session() should isolate viewers")
	}
	manager.Wait()
}
