package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"courseswap_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostStore is an in-memory PostStore with the same conditional-write
// semantics as the DynamoDB implementation.
type fakePostStore struct {
	mu       sync.Mutex
	posts    map[string]*models.Post
	failLock map[string]bool // posts whose LockForMatch loses the race
}

func newFakePostStore(posts ...*models.Post) *fakePostStore {
	s := &fakePostStore{posts: map[string]*models.Post{}, failLock: map[string]bool{}}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *fakePostStore) GetPost(_ context.Context, postID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePostStore) FindComplementary(_ context.Context, post *models.Post, excludePostID string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.posts {
		if p.ID == post.ID || p.ID == excludePostID || p.UserID == post.UserID {
			continue
		}
		if p.Type != models.PostTypeSwap || p.Status != models.PostStatusActive {
			continue
		}
		if p.CourseCode == post.CourseCode && p.HaveSection == post.WantSection && p.WantSection == post.HaveSection {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (s *fakePostStore) LockForMatch(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok || s.failLock[postID] || p.Status != models.PostStatusActive {
		return ErrConditionFailed
	}
	p.Status = models.PostStatusPending
	return nil
}

func (s *fakePostStore) ReleaseToActive(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok || p.Status != models.PostStatusPending {
		return ErrConditionFailed
	}
	p.Status = models.PostStatusActive
	return nil
}

func (s *fakePostStore) SetPostStatus(_ context.Context, postID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	p.Status = status
	return nil
}

func (s *fakePostStore) DeletePost(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, postID)
	return nil
}

func (s *fakePostStore) status(postID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return "<deleted>"
	}
	return p.Status
}

// fakeMatchStore is an in-memory MatchStore that counts writes.
type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[string]*models.Match
	writes  int
}

func newFakeMatchStore(matches ...*models.Match) *fakeMatchStore {
	s := &fakeMatchStore{matches: map[string]*models.Match{}}
	for _, m := range matches {
		s.matches[m.ID] = m
	}
	return s
}

func (s *fakeMatchStore) PutMatch(_ context.Context, match models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	cp := match
	s.matches[match.ID] = &cp
	return nil
}

func (s *fakeMatchStore) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMatchStore) SetAccepted(_ context.Context, matchID, side string, markAccepted bool) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	s.writes++
	if side == models.SideA {
		m.UserAAccepted = true
	} else {
		m.UserBAccepted = true
	}
	if markAccepted {
		m.Status = models.MatchStatusAccepted
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMatchStore) SetMatchStatus(_ context.Context, matchID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return ErrMatchNotFound
	}
	s.writes++
	m.Status = status
	return nil
}

func (s *fakeMatchStore) SetResolved(_ context.Context, matchID, side string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return ErrMatchNotFound
	}
	s.writes++
	if side == models.SideA {
		m.UserAResolved = true
	} else {
		m.UserBResolved = true
	}
	return nil
}

func (s *fakeMatchStore) GetMatchesByUser(_ context.Context, userID string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Match
	for _, m := range s.matches {
		if m.UserAID == userID || m.UserBID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMatchStore) GetMatchesByPost(_ context.Context, postID string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Match
	for _, m := range s.matches {
		if m.PostAID == postID || m.PostBID == postID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMatchStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *fakeMatchStore) all() []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Match
	for _, m := range s.matches {
		out = append(out, *m)
	}
	return out
}

type fakeProfiles struct {
	profiles map[string]*models.Profile
}

func (s *fakeProfiles) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

type fakeNotifier struct {
	sent []models.MatchNotification
}

func (n *fakeNotifier) NotifyMatch(_ context.Context, notification models.MatchNotification) error {
	n.sent = append(n.sent, notification)
	return nil
}

type fakeBroadcaster struct {
	userIDs []string
}

func (b *fakeBroadcaster) BroadcastMatch(userID string, _ interface{}) {
	b.userIDs = append(b.userIDs, userID)
}

func swapPost(id, userID, have, want, createdAt string) *models.Post {
	return &models.Post{
		ID:          id,
		UserID:      userID,
		Type:        models.PostTypeSwap,
		CourseCode:  "CS2020",
		CourseName:  "Data Structures",
		HaveSection: have,
		WantSection: want,
		Status:      models.PostStatusActive,
		CreatedAt:   createdAt,
	}
}

func newEngine(posts *fakePostStore, matches *fakeMatchStore) (*MatchService, *fakeNotifier, *fakeBroadcaster) {
	notifier := &fakeNotifier{}
	broadcaster := &fakeBroadcaster{}
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"alice": {ID: "alice", Name: "Alice", StudentID: "U2310001", Phone: "+84 912 345 678", Email: "alice@example.edu"},
		"bob":   {ID: "bob", Name: "Bob", StudentID: "U2310002", Phone: "+84 987 654 321", Email: "bob@example.edu"},
		"carol": {ID: "carol", Name: "Carol", StudentID: "U2210003", Phone: "+84 911 222 333", Email: "carol@example.edu"},
	}}
	return &MatchService{
		Posts:    posts,
		Matches:  matches,
		Profiles: profiles,
		Notifier: notifier,
		Realtime: broadcaster,
	}, notifier, broadcaster
}

func TestTryMatchFormsPendingMatch(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T10:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T09:00:00Z")
	posts := newFakePostStore(alicePost, bobPost)
	matches := newFakeMatchStore()
	engine, notifier, broadcaster := newEngine(posts, matches)

	match, err := engine.TryMatch(ctx, alicePost)
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.Equal(t, models.MatchStatusPending, match.Status)
	assert.Equal(t, "p1", match.PostAID)
	assert.Equal(t, "p2", match.PostBID)
	assert.Equal(t, "alice", match.UserAID)
	assert.Equal(t, "bob", match.UserBID)
	assert.False(t, match.UserAAccepted)
	assert.False(t, match.UserBAccepted)

	assert.Equal(t, models.PostStatusPending, posts.status("p1"))
	assert.Equal(t, models.PostStatusPending, posts.status("p2"))

	require.Len(t, notifier.sent, 1)
	n := notifier.sent[0]
	assert.Equal(t, "alice", n.UserAID)
	assert.Equal(t, "bob", n.UserBID)
	assert.Equal(t, "CS2020", n.CourseCode)
	assert.Equal(t, "Data Structures", n.CourseName)
	assert.Equal(t, "S1", n.UserASection)
	assert.Equal(t, "S2", n.UserBSection)
	assert.Equal(t, "Alice", n.UserAName)
	assert.Equal(t, "Bob", n.UserBName)

	assert.ElementsMatch(t, []string{"alice", "bob"}, broadcaster.userIDs)
}

func TestTryMatchNoCandidates(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T10:00:00Z")
	// Same direction as alice's post, not complementary.
	bobPost := swapPost("p2", "bob", "S1", "S2", "2026-01-01T09:00:00Z")
	posts := newFakePostStore(alicePost, bobPost)
	matches := newFakeMatchStore()
	engine, notifier, _ := newEngine(posts, matches)

	match, err := engine.TryMatch(ctx, alicePost)
	require.NoError(t, err)
	assert.Nil(t, match)

	assert.Equal(t, models.PostStatusActive, posts.status("p1"))
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
	assert.Empty(t, notifier.sent)
	assert.Zero(t, matches.writeCount())
}

func TestTryMatchIgnoresOwnPosts(t *testing.T) {
	ctx := context.Background()
	post := swapPost("p1", "alice", "S1", "S2", "2026-01-01T10:00:00Z")
	mirror := swapPost("p2", "alice", "S2", "S1", "2026-01-01T09:00:00Z")
	posts := newFakePostStore(post, mirror)
	engine, _, _ := newEngine(posts, newFakeMatchStore())

	match, err := engine.TryMatch(ctx, post)
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Equal(t, models.PostStatusActive, posts.status("p1"))
}

func TestTryMatchSkipsNonSwapPosts(t *testing.T) {
	ctx := context.Background()
	giveaway := &models.Post{
		ID: "p1", UserID: "alice", Type: models.PostTypeGiveaway,
		CourseCode: "CS2020", HaveSection: "S1", Status: models.PostStatusActive,
	}
	posts := newFakePostStore(giveaway)
	engine, _, _ := newEngine(posts, newFakeMatchStore())

	match, err := engine.TryMatch(ctx, giveaway)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestTryMatchPrefersOldestCandidate(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-03T00:00:00Z")
	newer := swapPost("p2", "bob", "S2", "S1", "2026-01-02T00:00:00Z")
	older := swapPost("p3", "carol", "S2", "S1", "2026-01-01T00:00:00Z")
	posts := newFakePostStore(alicePost, newer, older)
	engine, _, _ := newEngine(posts, newFakeMatchStore())

	match, err := engine.TryMatch(ctx, alicePost)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "p3", match.PostBID)
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
}

func TestTryMatchLostRaceOnOwnPost(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T10:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T09:00:00Z")
	posts := newFakePostStore(alicePost, bobPost)
	posts.failLock["p1"] = true
	matches := newFakeMatchStore()
	engine, _, _ := newEngine(posts, matches)

	match, err := engine.TryMatch(ctx, alicePost)
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
	assert.Zero(t, matches.writeCount())
}

func TestTryMatchLostRaceOnCandidateFallsThrough(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-03T00:00:00Z")
	contested := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	fallback := swapPost("p3", "carol", "S2", "S1", "2026-01-02T00:00:00Z")
	posts := newFakePostStore(alicePost, contested, fallback)
	posts.failLock["p2"] = true
	engine, _, _ := newEngine(posts, newFakeMatchStore())

	match, err := engine.TryMatch(ctx, alicePost)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "p3", match.PostBID)
}

func TestTryMatchAllCandidatesLostReleasesOwnPost(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-02T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	posts := newFakePostStore(alicePost, bobPost)
	posts.failLock["p2"] = true
	engine, _, _ := newEngine(posts, newFakeMatchStore())

	match, err := engine.TryMatch(ctx, alicePost)
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Equal(t, models.PostStatusActive, posts.status("p1"))
}

func TestAcceptBothSides(t *testing.T) {
	ctx := context.Background()
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(newFakePostStore(), matches)

	afterA, err := engine.Accept(ctx, "m1", models.SideA)
	require.NoError(t, err)
	assert.True(t, afterA.UserAAccepted)
	assert.Equal(t, models.MatchStatusPending, afterA.Status)

	afterB, err := engine.Accept(ctx, "m1", models.SideB)
	require.NoError(t, err)
	assert.True(t, afterB.UserBAccepted)
	assert.Equal(t, models.MatchStatusAccepted, afterB.Status)
}

func TestAcceptSameSideTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	match := &models.Match{ID: "m1", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(newFakePostStore(), matches)

	_, err := engine.Accept(ctx, "m1", models.SideA)
	require.NoError(t, err)
	writesAfterFirst := matches.writeCount()

	again, err := engine.Accept(ctx, "m1", models.SideA)
	require.NoError(t, err)
	assert.True(t, again.UserAAccepted)
	assert.Equal(t, writesAfterFirst, matches.writeCount())
}

func TestAcceptDeclinedMatch(t *testing.T) {
	ctx := context.Background()
	match := &models.Match{ID: "m1", Status: models.MatchStatusDeclined}
	engine, _, _ := newEngine(newFakePostStore(), newFakeMatchStore(match))

	_, err := engine.Accept(ctx, "m1", models.SideA)
	assert.ErrorIs(t, err, ErrMatchNotPending)
}

func TestAcceptUnknownMatch(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newEngine(newFakePostStore(), newFakeMatchStore())

	_, err := engine.Accept(ctx, "missing", models.SideA)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestDeclineUnlocksBothPosts(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	alicePost.Status = models.PostStatusPending
	bobPost.Status = models.PostStatusPending
	posts := newFakePostStore(alicePost, bobPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(posts, matches)

	require.NoError(t, engine.Decline(ctx, "m1", models.SideA))

	declined, err := matches.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDeclined, declined.Status)
	assert.Equal(t, models.PostStatusActive, posts.status("p1"))
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
}

func TestDeclineRematchesDeclinerFirst(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	alicePost.Status = models.PostStatusPending
	bobPost.Status = models.PostStatusPending
	// Carol's post is complementary to alice's, so alice re-matches on decline.
	carolPost := swapPost("p3", "carol", "S2", "S1", "2026-01-02T00:00:00Z")
	posts := newFakePostStore(alicePost, bobPost, carolPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(posts, matches)

	require.NoError(t, engine.Decline(ctx, "m1", models.SideA))

	var fresh []models.Match
	for _, m := range matches.all() {
		if m.Status == models.MatchStatusPending {
			fresh = append(fresh, m)
		}
	}
	require.Len(t, fresh, 1)
	assert.Equal(t, "p1", fresh[0].PostAID)
	assert.Equal(t, "p3", fresh[0].PostBID)

	// Bob's post stays active; the declined counterpart is never re-paired
	// with the decliner.
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
}

func TestDeclineNeverRepairsSamePosts(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	alicePost.Status = models.PostStatusPending
	bobPost.Status = models.PostStatusPending
	posts := newFakePostStore(alicePost, bobPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(posts, matches)

	require.NoError(t, engine.Decline(ctx, "m1", models.SideB))

	for _, m := range matches.all() {
		assert.Equal(t, models.MatchStatusDeclined, m.Status)
	}
	assert.Equal(t, models.PostStatusActive, posts.status("p1"))
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
}

func TestDeclineNonPendingMatch(t *testing.T) {
	ctx := context.Background()
	match := &models.Match{ID: "m1", Status: models.MatchStatusAccepted}
	engine, _, _ := newEngine(newFakePostStore(), newFakeMatchStore(match))

	err := engine.Decline(ctx, "m1", models.SideA)
	assert.ErrorIs(t, err, ErrMatchNotPending)
}

func TestDeclineLeavesCompletedPostAlone(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	alicePost.Status = models.PostStatusCompleted
	bobPost.Status = models.PostStatusPending
	posts := newFakePostStore(alicePost, bobPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	engine, _, _ := newEngine(posts, newFakeMatchStore(match))

	require.NoError(t, engine.Decline(ctx, "m1", models.SideB))
	assert.Equal(t, models.PostStatusCompleted, posts.status("p1"))
	assert.Equal(t, models.PostStatusActive, posts.status("p2"))
}

func TestCompletePostResolvesOneSide(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	alicePost.Status = models.PostStatusPending
	bobPost.Status = models.PostStatusPending
	posts := newFakePostStore(alicePost, bobPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusAccepted, CreatedAt: "2026-01-01T00:00:00Z"}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(posts, matches)

	require.NoError(t, engine.CompletePost(ctx, "p1"))
	assert.Equal(t, models.PostStatusCompleted, posts.status("p1"))

	updated, err := matches.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, updated.UserAResolved)
	assert.False(t, updated.UserBResolved)

	// The completer no longer sees the match; the counterpart still does.
	aliceView, err := engine.GetUserMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceView)

	bobView, err := engine.GetUserMatches(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, "m1", bobView[0].ID)
}

func TestCompleteUnknownPost(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newEngine(newFakePostStore(), newFakeMatchStore())
	assert.ErrorIs(t, engine.CompletePost(ctx, "missing"), ErrPostNotFound)
}

func TestDeletePostUnwindsPendingMatch(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	alicePost.Status = models.PostStatusPending
	bobPost.Status = models.PostStatusPending
	// Complementary to bob's post, so bob re-matches once alice deletes.
	carolPost := swapPost("p3", "carol", "S1", "S2", "2026-01-02T00:00:00Z")
	posts := newFakePostStore(alicePost, bobPost, carolPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(posts, matches)

	require.NoError(t, engine.DeletePost(ctx, "p1"))
	assert.Equal(t, "<deleted>", posts.status("p1"))

	old, err := matches.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDeclined, old.Status)

	var fresh []models.Match
	for _, m := range matches.all() {
		if m.Status == models.MatchStatusPending {
			fresh = append(fresh, m)
		}
	}
	require.Len(t, fresh, 1)
	assert.Equal(t, "p2", fresh[0].PostAID)
	assert.Equal(t, "p3", fresh[0].PostBID)
}

func TestDeletePostWithoutMatches(t *testing.T) {
	ctx := context.Background()
	post := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	posts := newFakePostStore(post)
	engine, _, _ := newEngine(posts, newFakeMatchStore())

	require.NoError(t, engine.DeletePost(ctx, "p1"))
	assert.Equal(t, "<deleted>", posts.status("p1"))
}

func TestGetUserMatchesSharesPhoneOnlyWhenAccepted(t *testing.T) {
	ctx := context.Background()
	alicePost := swapPost("p1", "alice", "S1", "S2", "2026-01-01T00:00:00Z")
	bobPost := swapPost("p2", "bob", "S2", "S1", "2026-01-01T00:00:00Z")
	posts := newFakePostStore(alicePost, bobPost)
	match := &models.Match{ID: "m1", PostAID: "p1", PostBID: "p2", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending, CreatedAt: "2026-01-01T00:00:00Z"}
	matches := newFakeMatchStore(match)
	engine, _, _ := newEngine(posts, matches)

	view, err := engine.GetUserMatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "Bob", view[0].TheirName)
	assert.Equal(t, "U2310002", view[0].TheirStudentID)
	assert.Empty(t, view[0].TheirPhone)
	require.NotNil(t, view[0].MyPost)
	assert.Equal(t, "p1", view[0].MyPost.ID)
	require.NotNil(t, view[0].TheirPost)
	assert.Equal(t, "p2", view[0].TheirPost.ID)

	require.NoError(t, matches.SetMatchStatus(ctx, "m1", models.MatchStatusAccepted))
	view, err = engine.GetUserMatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "+84 987 654 321", view[0].TheirPhone)
}

func TestGetUserMatchesHidesDeclined(t *testing.T) {
	ctx := context.Background()
	match := &models.Match{ID: "m1", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusDeclined}
	engine, _, _ := newEngine(newFakePostStore(), newFakeMatchStore(match))

	view, err := engine.GetUserMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, view)
}

func TestGetUserMatchesNewestFirst(t *testing.T) {
	ctx := context.Background()
	older := &models.Match{ID: "m1", UserAID: "alice", UserBID: "bob", Status: models.MatchStatusPending, CreatedAt: "2026-01-01T00:00:00Z"}
	newer := &models.Match{ID: "m2", UserAID: "alice", UserBID: "carol", Status: models.MatchStatusPending, CreatedAt: "2026-01-02T00:00:00Z"}
	engine, _, _ := newEngine(newFakePostStore(), newFakeMatchStore(older, newer))

	view, err := engine.GetUserMatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "m2", view[0].ID)
	assert.Equal(t, "m1", view[1].ID)
}
