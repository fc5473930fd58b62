package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	cacheport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/cache/port"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

const lastSeenKeyPrefix = "lastseen:"

// UserStatusView answers a presence query for one user.
type UserStatusView struct {
	UserID   string     `json:"userId"`
	IsOnline bool       `json:"isOnline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// GetUserStatusUseCase resolves whether a user is online and when they were
// last seen. LastSeen goes through the cache to keep the hot presence path
// off the user store; the store stays the source of truth on a miss.
type GetUserStatusUseCase struct {
	Users    repository.UserRepository
	Notifier realtime.Notifier
	Cache    cacheport.Cache // optional
	TTL      time.Duration
	log      zerolog.Logger
}

func NewGetUserStatusUseCase(users repository.UserRepository, notifier realtime.Notifier, cache cacheport.Cache, ttl time.Duration, log zerolog.Logger) *GetUserStatusUseCase {
	return &GetUserStatusUseCase{Users: users, Notifier: notifier, Cache: cache, TTL: ttl, log: log.With().Str("component", "user_status").Logger()}
}

// Execute returns the presence snapshot for userID.
func (uc *GetUserStatusUseCase) Execute(ctx context.Context, userID string) (*UserStatusView, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	if uc.Notifier.IsOnline(userID) {
		now := time.Now()
		return &UserStatusView{UserID: userID, IsOnline: true, LastSeen: &now}, nil
	}

	if last, ok := uc.cachedLastSeen(ctx, userID); ok {
		return &UserStatusView{UserID: userID, IsOnline: false, LastSeen: last}, nil
	}

	u, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	view := &UserStatusView{UserID: userID, IsOnline: false}
	if !u.LastSeen.IsZero() {
		last := u.LastSeen
		view.LastSeen = &last
		uc.storeLastSeen(ctx, userID, last)
	}
	return view, nil
}

func (uc *GetUserStatusUseCase) cachedLastSeen(ctx context.Context, userID string) (*time.Time, bool) {
	if uc.Cache == nil {
		return nil, false
	}
	raw, err := uc.Cache.Get(ctx, lastSeenKeyPrefix+userID)
	if err != nil {
		if err != cacheport.ErrMiss {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("last seen cache read failed")
		}
		return nil, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (uc *GetUserStatusUseCase) storeLastSeen(ctx context.Context, userID string, last time.Time) {
	if uc.Cache == nil {
		return
	}
	if err := uc.Cache.Set(ctx, lastSeenKeyPrefix+userID, last.Format(time.RFC3339Nano), uc.TTL); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("last seen cache write failed")
	}
}
