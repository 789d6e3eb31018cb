// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"freestyle-backoffice/models"
	"freestyle-backoffice/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileChange matches the JSON the hosted auth provider's profile
// service returns for changed users.
type ProfileChange struct {
	ExternalID        string    `json:"external_id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	AvatarURL         *string   `json:"avatar_url,omitempty"`
	CountryCode       string    `json:"country_code,omitempty"`
	UnlockedMoveCount int64     `json:"unlocked_move_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProfileChangesResponse is the top-level sync payload.
type ProfileChangesResponse struct {
	Users []ProfileChange `json:"users"`
}

// UserSyncWorker mirrors profile-service users into platform_users so
// the back-office can list, search, and moderate them locally. It also
// watches each user's unlocked-move count and grants milestone honors
// when the count reaches a new threshold.
type UserSyncWorker struct {
	db           *gorm.DB
	honors       *services.HonorService
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewUserSyncWorker(db *gorm.DB, profileServiceURL, endpointPath, serviceToken string) *UserSyncWorker {
	return &UserSyncWorker{
		db:           db,
		honors:       services.NewHonorService(db),
		interval:     1 * time.Minute,
		baseURL:      profileServiceURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting User Sync Worker (profile-service → platform_users)…")
	go w.run(ctx)
}

func (w *UserSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.lastSyncTime()); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ User Sync Worker stopped")
			return
		}
	}
}

// lastSyncTime is the most recent UpdatedAt in the local mirror.
func (w *UserSyncWorker) lastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM platform_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch pulls changed profiles since the given time and upserts
// them into the local mirror.
func (w *UserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid profile service URL %q: %w", w.baseURL, err)
	}
	endpoint := base.JoinPath(w.endpointPath)
	q := endpoint.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("profile service returned %d: %s", resp.StatusCode, string(body))
	}

	var changes ProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		return fmt.Errorf("failed to decode profile changes: %w", err)
	}
	if len(changes.Users) == 0 {
		return nil
	}

	synced := 0
	for _, p := range changes.Users {
		if p.ExternalID == "" {
			continue
		}
		user := models.PlatformUser{
			ID:                uuid.NewString(),
			ExternalUserID:    p.ExternalID,
			Username:          p.Username,
			SearchName:        models.SearchFold(p.Username),
			Email:             p.Email,
			AvatarURL:         p.AvatarURL,
			CountryCode:       p.CountryCode,
			UnlockedMoveCount: p.UnlockedMoveCount,
		}
		err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "search_name", "email", "avatar_url", "country_code", "unlocked_move_count", "updated_at",
			}),
		}).Create(&user).Error
		if err != nil {
			log.Printf("[SYNC] ⚠️ upsert failed for %s: %v", p.ExternalID, err)
			continue
		}
		synced++

		// Unlock counting lives in the profile service; the mirror is
		// where milestone honors get granted from.
		if p.UnlockedMoveCount > 0 {
			if _, err := w.honors.GrantMilestoneHonors(p.ExternalID, p.UnlockedMoveCount); err != nil {
				log.Printf("[SYNC] ⚠️ milestone grant failed for %s: %v", p.ExternalID, err)
			}
		}
	}

	log.Printf("[SYNC] ✅ Synced %d/%d changed users (since=%s)", synced, len(changes.Users), since.UTC().Format(time.RFC3339))
	return nil
}
