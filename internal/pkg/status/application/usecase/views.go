package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// StatusView is the client-facing shape of a status post. Viewers are only
// populated for the author's own statuses.
type StatusView struct {
	ID          string               `json:"id"`
	Author      repository.Summary   `json:"author"`
	Content     string               `json:"content"`
	ContentType chat.ContentType     `json:"contentType"`
	Viewers     []repository.Summary `json:"viewers,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	ExpiresAt   time.Time            `json:"expiresAt"`
}

// StatusViewedPayload tells an author who looked at their status.
type StatusViewedPayload struct {
	StatusID     string               `json:"statusId"`
	ViewerID     string               `json:"viewerId"`
	Viewer       repository.Summary   `json:"viewer"`
	TotalViewers int                  `json:"totalViewers"`
	Viewers      []repository.Summary `json:"viewers"`
}

// StatusDeletedPayload announces a status removal.
type StatusDeletedPayload struct {
	StatusID string `json:"statusId"`
}

func summariesFor(ctx context.Context, users repository.UserRepository, ids []string) (map[string]repository.Summary, error) {
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	out := make(map[string]repository.Summary, len(found))
	for id, u := range found {
		out[id] = u.Summary()
	}
	return out, nil
}

func summaryOrStub(summaries map[string]repository.Summary, id string) repository.Summary {
	if s, ok := summaries[id]; ok {
		return s
	}
	return repository.Summary{ID: id}
}

// statusView renders s for the given caller, hiding the viewer list from
// everyone but the author.
func statusView(s *status.Status, callerID string, summaries map[string]repository.Summary) StatusView {
	view := StatusView{
		ID:          s.ID,
		Author:      summaryOrStub(summaries, s.AuthorID),
		Content:     s.Content,
		ContentType: s.ContentType,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
	if callerID == s.AuthorID {
		view.Viewers = make([]repository.Summary, 0, len(s.Viewers))
		for _, v := range s.Viewers {
			view.Viewers = append(view.Viewers, summaryOrStub(summaries, v))
		}
	}
	return view
}
