package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"courseswap_server/models"

	"github.com/google/uuid"
)

// PostStore is the post-side surface the matching engine mutates. The
// Lock/Release pair are conditional writes so the active→pending
// transition is a single compare-and-swap rather than read-then-write.
type PostStore interface {
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	FindComplementary(ctx context.Context, post *models.Post, excludePostID string) ([]models.Post, error)
	LockForMatch(ctx context.Context, postID string) error
	ReleaseToActive(ctx context.Context, postID string) error
	SetPostStatus(ctx context.Context, postID, status string) error
	DeletePost(ctx context.Context, postID string) error
}

// MatchStore is the match-record surface of the engine.
type MatchStore interface {
	PutMatch(ctx context.Context, match models.Match) error
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	SetAccepted(ctx context.Context, matchID, side string, markAccepted bool) (*models.Match, error)
	SetMatchStatus(ctx context.Context, matchID, status string) error
	SetResolved(ctx context.Context, matchID, side string) error
	GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error)
	GetMatchesByPost(ctx context.Context, postID string) ([]models.Match, error)
}

// ProfileStore supplies the user details notifications and listings carry.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// Notifier triggers the match-found email. Failures never abort matching.
type Notifier interface {
	NotifyMatch(ctx context.Context, n models.MatchNotification) error
}

// Broadcaster pushes realtime match events to connected clients.
type Broadcaster interface {
	BroadcastMatch(userID string, payload interface{})
}

// MatchService is the matching engine: it decides when two posts become a
// match and how accept/decline/complete/delete propagate between posts
// and match records.
type MatchService struct {
	Posts    PostStore
	Matches  MatchStore
	Profiles ProfileStore
	Notifier Notifier
	Realtime Broadcaster // optional
}

// TryMatch searches for a complementary active swap post and, on a hit,
// locks both posts and records a pending match. The candidate's own post
// is side A. Returns nil without error when nothing matched.
func (s *MatchService) TryMatch(ctx context.Context, post *models.Post) (*models.Match, error) {
	return s.tryMatchExcluding(ctx, post, "")
}

func (s *MatchService) tryMatchExcluding(ctx context.Context, post *models.Post, excludePostID string) (*models.Match, error) {
	if post == nil || post.Type != models.PostTypeSwap {
		return nil, nil
	}

	candidates, err := s.Posts.FindComplementary(ctx, post, excludePostID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if err := s.Posts.LockForMatch(ctx, post.ID); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			log.Printf("⚠️ Post %s was no longer active, skipping match attempt", post.ID)
			return nil, nil
		}
		return nil, err
	}

	for i := range candidates {
		counterpart := candidates[i]
		err := s.Posts.LockForMatch(ctx, counterpart.ID)
		if errors.Is(err, ErrConditionFailed) {
			// Lost the race for this candidate; try the next one.
			continue
		}
		if err != nil {
			s.releaseQuietly(ctx, post.ID)
			return nil, err
		}
		return s.formMatch(ctx, post, &counterpart)
	}

	s.releaseQuietly(ctx, post.ID)
	return nil, nil
}

// formMatch records the match between two already-locked posts and fires
// the notification side effects. A store failure here leaves both posts
// pending with no match record; that inconsistency is logged, not rolled
// back.
func (s *MatchService) formMatch(ctx context.Context, postA, postB *models.Post) (*models.Match, error) {
	match := models.Match{
		ID:        uuid.NewString(),
		PostAID:   postA.ID,
		PostBID:   postB.ID,
		UserAID:   postA.UserID,
		UserBID:   postB.UserID,
		Status:    models.MatchStatusPending,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Matches.PutMatch(ctx, match); err != nil {
		log.Printf("❌ Match insert failed after locking posts %s and %s — posts left pending: %v", postA.ID, postB.ID, err)
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("🎉 Match %s formed: %s (section %s) ⇄ %s (section %s) in %s",
		match.ID, postA.UserID, postA.HaveSection, postB.UserID, postB.HaveSection, postA.CourseCode)

	s.sendMatchNotification(ctx, &match, postA, postB)
	if s.Realtime != nil {
		s.Realtime.BroadcastMatch(match.UserAID, match)
		s.Realtime.BroadcastMatch(match.UserBID, match)
	}
	return &match, nil
}

// sendMatchNotification builds and fires the notify-match call. Any
// failure is logged and swallowed; match creation is never rolled back
// over email.
func (s *MatchService) sendMatchNotification(ctx context.Context, match *models.Match, postA, postB *models.Post) {
	if s.Notifier == nil {
		return
	}

	n := models.MatchNotification{
		UserAID:      match.UserAID,
		UserBID:      match.UserBID,
		CourseCode:   postA.CourseCode,
		CourseName:   postA.CourseName,
		UserASection: postA.HaveSection,
		UserBSection: postB.HaveSection,
	}
	if profile, err := s.Profiles.GetProfile(ctx, match.UserAID); err == nil && profile != nil {
		n.UserAName = profile.Name
	}
	if profile, err := s.Profiles.GetProfile(ctx, match.UserBID); err == nil && profile != nil {
		n.UserBName = profile.Name
	}

	if err := s.Notifier.NotifyMatch(ctx, n); err != nil {
		log.Printf("⚠️ Match notification for %s failed (ignored): %v", match.ID, err)
	}
}

// Accept records one side's acceptance. Once both sides have accepted the
// match status becomes accepted and contact info is shared. Accepting the
// same side twice is a no-op. Posts are never touched here.
func (s *MatchService) Accept(ctx context.Context, matchID, side string) (*models.Match, error) {
	match, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusDeclined {
		return nil, ErrMatchNotPending
	}
	if match.Accepted(side) {
		return match, nil
	}

	otherAccepted := match.Accepted(models.OtherSide(side))
	updated, err := s.Matches.SetAccepted(ctx, matchID, side, otherAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to accept match %s: %w", matchID, err)
	}

	if updated.Status == models.MatchStatusAccepted {
		log.Printf("✅ Match %s accepted by both sides", matchID)
	}
	return updated, nil
}

// Decline ends a pending match, frees both posts, and runs the re-match
// search: the declining user's post first, excluding the declined
// counterpart. A single decline produces at most one new match.
func (s *MatchService) Decline(ctx context.Context, matchID, side string) error {
	match, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.MatchStatusPending {
		return ErrMatchNotPending
	}

	if err := s.Matches.SetMatchStatus(ctx, matchID, models.MatchStatusDeclined); err != nil {
		return fmt.Errorf("failed to decline match %s: %w", matchID, err)
	}

	// Unlock both posts. A post that was completed or deleted in the
	// meantime fails the condition and stays as it is.
	freed := map[string]bool{}
	for _, postID := range []string{match.PostAID, match.PostBID} {
		err := s.Posts.ReleaseToActive(ctx, postID)
		switch {
		case err == nil:
			freed[postID] = true
		case errors.Is(err, ErrConditionFailed):
			log.Printf("⚠️ Post %s not unlocked on decline of %s (no longer pending)", postID, matchID)
		default:
			log.Printf("❌ Failed to unlock post %s on decline of %s: %v", postID, matchID, err)
		}
	}

	declinerPostID := match.PostFor(side)
	otherPostID := match.PostFor(models.OtherSide(side))

	if freed[declinerPostID] {
		newMatch, err := s.rematch(ctx, declinerPostID, otherPostID)
		if err != nil {
			log.Printf("⚠️ Re-match search for post %s failed: %v", declinerPostID, err)
		}
		if newMatch != nil {
			return nil
		}
	}
	if freed[otherPostID] {
		if _, err := s.rematch(ctx, otherPostID, declinerPostID); err != nil {
			log.Printf("⚠️ Re-match search for post %s failed: %v", otherPostID, err)
		}
	}
	return nil
}

func (s *MatchService) rematch(ctx context.Context, postID, excludePostID string) (*models.Match, error) {
	post, err := s.Posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.tryMatchExcluding(ctx, post, excludePostID)
}

// CompletePost marks a post completed (terminal) and resolves that side
// of every match still referencing it, so the completing user stops
// seeing those matches while the counterpart keeps their view.
func (s *MatchService) CompletePost(ctx context.Context, postID string) error {
	if _, err := s.Posts.GetPost(ctx, postID); err != nil {
		return err
	}
	if err := s.Posts.SetPostStatus(ctx, postID, models.PostStatusCompleted); err != nil {
		return fmt.Errorf("failed to complete post %s: %w", postID, err)
	}

	matches, err := s.Matches.GetMatchesByPost(ctx, postID)
	if err != nil {
		log.Printf("⚠️ Could not resolve matches of completed post %s: %v", postID, err)
		return nil
	}
	for _, m := range matches {
		if m.Status == models.MatchStatusDeclined {
			continue
		}
		side, ok := m.SideOfPost(postID)
		if !ok {
			continue
		}
		if err := s.Matches.SetResolved(ctx, m.ID, side); err != nil {
			log.Printf("⚠️ Failed to resolve side %s of match %s: %v", side, m.ID, err)
		}
	}
	return nil
}

// DeletePost removes a post. A pending match referencing it is declined
// and its counterpart freed and re-match searched, so no match keeps a
// dangling post reference in play.
func (s *MatchService) DeletePost(ctx context.Context, postID string) error {
	if _, err := s.Posts.GetPost(ctx, postID); err != nil {
		return err
	}

	matches, err := s.Matches.GetMatchesByPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to fetch matches of post %s: %w", postID, err)
	}
	for _, m := range matches {
		if m.Status != models.MatchStatusPending {
			continue
		}
		if err := s.Matches.SetMatchStatus(ctx, m.ID, models.MatchStatusDeclined); err != nil {
			log.Printf("❌ Failed to decline match %s of deleted post %s: %v", m.ID, postID, err)
			continue
		}

		side, _ := m.SideOfPost(postID)
		otherPostID := m.PostFor(models.OtherSide(side))
		err := s.Posts.ReleaseToActive(ctx, otherPostID)
		if err != nil {
			if !errors.Is(err, ErrConditionFailed) {
				log.Printf("❌ Failed to unlock post %s after deleting %s: %v", otherPostID, postID, err)
			}
			continue
		}
		if _, err := s.rematch(ctx, otherPostID, postID); err != nil {
			log.Printf("⚠️ Re-match search for post %s failed: %v", otherPostID, err)
		}
	}

	if err := s.Posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", postID, err)
	}
	log.Printf("🗑️ Post %s deleted", postID)
	return nil
}

// GetUserMatches returns the user's live matches (pending or accepted,
// not resolved on their side), newest first, with both posts and the
// counterpart's details. The counterpart's phone is only included once
// the match is accepted.
func (s *MatchService) GetUserMatches(ctx context.Context, userID string) ([]models.MatchWithDetails, error) {
	matches, err := s.Matches.GetMatchesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]models.MatchWithDetails, 0, len(matches))
	for _, m := range matches {
		if m.Status == models.MatchStatusDeclined {
			continue
		}
		side, ok := m.SideOfUser(userID)
		if !ok || m.Resolved(side) {
			continue
		}

		d := models.MatchWithDetails{Match: m}
		if myPost, err := s.Posts.GetPost(ctx, m.PostFor(side)); err == nil {
			d.MyPost = myPost
		}
		theirPost, err := s.Posts.GetPost(ctx, m.PostFor(models.OtherSide(side)))
		if err == nil {
			d.TheirPost = theirPost
			if profile, err := s.Profiles.GetProfile(ctx, theirPost.UserID); err == nil && profile != nil {
				d.TheirName = profile.Name
				d.TheirStudentID = profile.StudentID
				if m.Status == models.MatchStatusAccepted {
					d.TheirPhone = profile.Phone
				}
			}
		}
		details = append(details, d)
	}

	sort.Slice(details, func(i, j int) bool { return details[i].CreatedAt > details[j].CreatedAt })
	return details, nil
}

func (s *MatchService) releaseQuietly(ctx context.Context, postID string) {
	if err := s.Posts.ReleaseToActive(ctx, postID); err != nil && !errors.Is(err, ErrConditionFailed) {
		log.Printf("❌ Failed to release post %s: %v", postID, err)
	}
}
