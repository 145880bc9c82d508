package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lookbook-app/lookbook/pkg/logging"
	"github.com/lookbook-app/lookbook/pkg/telemetry"
)

// ErrSuperseded is returned for a load whose results were discarded because a
// newer load was issued for the same session.
var ErrSuperseded = errors.New("feed load superseded by a newer request")

const mutationWriteTimeout = 10 * time.Second

// Session holds one viewer's feed state: the viewer context, the canonical
// assembled view, and the load sequence used to supersede stale loads. The
// viewer's liked/saved sets are mutated only by the toggle handlers.
type Session struct {
	viewerID     int64
	assembler    *Assembler
	interactions InteractionStore
	seeder       Seeder
	logger       *zap.Logger

	mu     sync.Mutex
	viewer *ViewerContext
	view   *FeedView
	mode   Mode
	query  string
	seq    uint64

	pending sync.WaitGroup
}

// NewSession creates a feed session for a viewer
func NewSession(viewerID int64, assembler *Assembler, interactions InteractionStore, seeder Seeder) *Session {
	return &Session{
		viewerID:     viewerID,
		assembler:    assembler,
		interactions: interactions,
		seeder:       seeder,
		logger:       logging.WithComponent("feed-session").With(zap.Int64("viewer_id", viewerID)),
	}
}

// ensureViewer builds the viewer context on first use
func (s *Session) ensureViewer(ctx context.Context) (*ViewerContext, error) {
	s.mu.Lock()
	viewer := s.viewer
	s.mu.Unlock()
	if viewer != nil {
		return viewer, nil
	}

	built, err := s.assembler.BuildViewerContext(ctx, s.viewerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.viewer == nil {
		s.viewer = built
	}
	viewer = s.viewer
	s.mu.Unlock()
	return viewer, nil
}

// snapshot copies the viewer's sets so an in-flight load reads a consistent
// context while toggle handlers keep mutating the live one.
func (v *ViewerContext) snapshot() *ViewerContext {
	snap := &ViewerContext{
		UserID:    v.UserID,
		StyleTags: v.StyleTags,
		Liked:     make(map[int64]struct{}, len(v.Liked)),
		Saved:     make(map[int64]struct{}, len(v.Saved)),
	}
	for id := range v.Liked {
		snap.Liked[id] = struct{}{}
	}
	for id := range v.Saved {
		snap.Saved[id] = struct{}{}
	}
	return snap
}

// Load assembles the feed for a mode and query. A newer Load supersedes any
// in-flight one: the stale result is silently discarded and ErrSuperseded
// returned, so only the latest request's result becomes visible state.
func (s *Session) Load(ctx context.Context, mode Mode, query string) (*FeedView, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.session_load")
	defer span.End()

	if _, err := s.ensureViewer(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	snap := s.viewer.snapshot()
	s.mu.Unlock()

	view, err := s.assembler.Load(ctx, snap, mode, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mySeq != s.seq {
		return nil, ErrSuperseded
	}
	s.reconcile(view, snap, mode)
	s.view = view
	s.mode = mode
	s.query = query
	return view, nil
}

// reconcile re-derives the interaction annotations from the live viewer
// context before a load commits. The assembled view was annotated from the
// snapshot taken at load start, so a toggle that landed while the load was in
// flight would otherwise be erased. Counts are adjusted for likes that flipped
// mid-flight since the fetched data may predate the backing write. Caller
// holds s.mu.
func (s *Session) reconcile(view *FeedView, snap *ViewerContext, mode Mode) {
	for i := range view.Posts {
		post := &view.Posts[i]
		id := post.Post.ID

		liked := s.viewer.HasLiked(id)
		if liked != snap.HasLiked(id) {
			if liked {
				post.Post.LikesCount++
			} else if post.Post.LikesCount > 0 {
				post.Post.LikesCount--
			}
		}
		post.HasLiked = liked
		post.HasSaved = s.viewer.HasSaved(id)
	}

	if mode == ModeSaved {
		// An unsave that landed mid-flight drops the post from the saved tab
		view.Posts = FilterSaved(view.Posts)
		view.Entries = s.assembler.Interleave(view.Posts)
	}
}

// ToggleLike flips the viewer's like state for a post. The transition is
// applied optimistically to local state, then the backing write is issued
// asynchronously. On write failure the optimistic state is kept; flagged for
// a product decision before changing to rollback.
func (s *Session) ToggleLike(ctx context.Context, postID int64) (bool, error) {
	viewer, err := s.ensureViewer(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	nowLiked := !viewer.HasLiked(postID)
	if nowLiked {
		viewer.Liked[postID] = struct{}{}
	} else {
		delete(viewer.Liked, postID)
	}
	s.applyLikeLocally(postID, nowLiked)
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		writeCtx, cancel := context.WithTimeout(context.Background(), mutationWriteTimeout)
		defer cancel()

		var writeErr error
		if nowLiked {
			writeErr = s.interactions.AddLike(writeCtx, postID, s.viewerID)
		} else {
			writeErr = s.interactions.RemoveLike(writeCtx, postID, s.viewerID)
		}
		if writeErr != nil {
			s.logger.Error("Like write failed, keeping optimistic state",
				zap.Int64("post_id", postID), zap.Bool("liked", nowLiked), zap.Error(writeErr))
			return
		}
		// The cached candidate pools carry the old count now
		s.assembler.InvalidateCandidates()
	}()

	return nowLiked, nil
}

// ToggleSave flips the viewer's save state for a post. Saves never affect any
// count, only membership in the viewer's saved set.
func (s *Session) ToggleSave(ctx context.Context, postID int64) (bool, error) {
	viewer, err := s.ensureViewer(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	nowSaved := !viewer.HasSaved(postID)
	if nowSaved {
		viewer.Saved[postID] = struct{}{}
	} else {
		delete(viewer.Saved, postID)
	}
	s.applySaveLocally(postID, nowSaved)
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		writeCtx, cancel := context.WithTimeout(context.Background(), mutationWriteTimeout)
		defer cancel()

		var writeErr error
		if nowSaved {
			writeErr = s.interactions.AddSave(writeCtx, postID, s.viewerID)
		} else {
			writeErr = s.interactions.RemoveSave(writeCtx, postID, s.viewerID)
		}
		if writeErr != nil {
			s.logger.Error("Save write failed, keeping optimistic state",
				zap.Int64("post_id", postID), zap.Bool("saved", nowSaved), zap.Error(writeErr))
		}
	}()

	return nowSaved, nil
}

// applyLikeLocally updates the canonical view in place. Entries share the
// underlying posts, so the display sequence picks the change up too. The
// count never drops below zero.
func (s *Session) applyLikeLocally(postID int64, liked bool) {
	if s.view == nil {
		return
	}
	for i := range s.view.Posts {
		if s.view.Posts[i].Post.ID != postID {
			continue
		}
		post := &s.view.Posts[i]
		post.HasLiked = liked
		if liked {
			post.Post.LikesCount++
		} else if post.Post.LikesCount > 0 {
			post.Post.LikesCount--
		}
	}
}

func (s *Session) applySaveLocally(postID int64, saved bool) {
	if s.view == nil {
		return
	}
	for i := range s.view.Posts {
		if s.view.Posts[i].Post.ID == postID {
			s.view.Posts[i].HasSaved = saved
		}
	}
}

// RefreshPersonalization asks the generative styling service to seed fresh
// inspiration posts for the viewer and returns the count of new posts. The
// caller is expected to follow up with a Load.
func (s *Session) RefreshPersonalization(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.refresh_personalization")
	defer span.End()

	count, err := s.seeder.SeedInspirations(ctx, s.viewerID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Personalization refreshed", zap.Int("new_posts", count))
	return count, nil
}

// Wait blocks until all in-flight mutation writes have finished. Used by
// tests and graceful shutdown.
func (s *Session) Wait() {
	s.pending.Wait()
}

// View returns the current canonical view, or nil before the first load
func (s *Session) View() *FeedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SessionManager hands out one session per viewer
type SessionManager struct {
	assembler    *Assembler
	interactions InteractionStore
	seeder       Seeder

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionManager creates a session manager
func NewSessionManager(assembler *Assembler, interactions InteractionStore, seeder Seeder) *SessionManager {
	return &SessionManager{
		assembler:    assembler,
		interactions: interactions,
		seeder:       seeder,
		sessions:     make(map[int64]*Session),
	}
}

// Session returns the session for a viewer, creating it on first use
func (m *SessionManager) Session(viewerID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[viewerID]; ok {
		return session
	}
	session := NewSession(viewerID, m.assembler, m.interactions, m.seeder)
	m.sessions[viewerID] = session
	return session
}

// Wait drains in-flight mutation writes across all sessions
func (m *SessionManager) Wait() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.Unlock()

	for _, session := range sessions {
		session.Wait()
	}
}
