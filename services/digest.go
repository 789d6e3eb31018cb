// services/digest.go
package services

import (
	"log"
	"time"

	"freestyle-backoffice/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// StartReviewDigestScheduler runs the periodic pending-review digest.
// Each run is at-most-once and fire-and-forget: it counts the
// moderation backlog, records a digest row, and hands the counts to the
// push relay if one is configured. Failures are logged and never
// retried — the next interval produces a fresh digest.
func (s *NotificationService) StartReviewDigestScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.runReviewDigest()
		}),
	)
	log.Printf("🗞️  Review digest scheduler started (every %s)", interval)
}

func (s *NotificationService) runReviewDigest() {
	digest := models.ReviewDigest{ID: uuid.NewString()}

	if err := s.DB.Model(&models.UserParticipation{}).
		Where("status = ?", models.ParticipationPending).
		Count(&digest.PendingParticipations).Error; err != nil {
		log.Printf("[Digest] DB error counting participations: %v", err)
		return
	}
	s.DB.Model(&models.UserSuggestion{}).
		Where("status = ?", models.SuggestionPending).
		Count(&digest.PendingSuggestions)
	s.DB.Model(&models.CommunityVideo{}).
		Where("status = ?", models.ModerationPending).
		Count(&digest.PendingCommunityClips)

	if s.Relay.Enabled() {
		err := s.Relay.Push(map[string]interface{}{
			"type":                    "review_digest",
			"pending_participations":  digest.PendingParticipations,
			"pending_suggestions":     digest.PendingSuggestions,
			"pending_community_clips": digest.PendingCommunityClips,
		})
		if err != nil {
			log.Printf("[Digest] relay delivery failed (will not retry): %v", err)
		} else {
			digest.Delivered = true
		}
	}

	if err := s.DB.Create(&digest).Error; err != nil {
		log.Printf("[Digest] failed to record digest row: %v", err)
		return
	}
	log.Printf("[Digest] pending: %d participations, %d suggestions, %d clips (delivered=%t)",
		digest.PendingParticipations, digest.PendingSuggestions, digest.PendingCommunityClips, digest.Delivered)
}
