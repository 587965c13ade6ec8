package resources

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// Notifier is told about newly created notification documents so delivery
// can happen out of band.
type Notifier interface {
	NotifyCreated(ctx context.Context, kind string, id int64, payload json.RawMessage) error
}

// Service handles resource store logic.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance. notifier may be nil.
func NewService(repo RepositoryPort, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// List returns resources of a kind within the pagination window.
func (s *Service) List(ctx context.Context, kind string, window shared.ListRange) ([]Resource, error) {
	if !KnownKind(kind) {
		return nil, shared.ErrNotFound
	}
	return s.repo.List(ctx, kind, window)
}

// Get fetches one resource.
func (s *Service) Get(ctx context.Context, kind string, id int64) (*Resource, error) {
	if !KnownKind(kind) {
		return nil, shared.ErrNotFound
	}
	return s.repo.Find(ctx, kind, id)
}

// Create stores a new document and, for notifications, enqueues delivery.
func (s *Service) Create(ctx context.Context, kind string, payload json.RawMessage, createdBy *int64) (*Resource, error) {
	if !KnownKind(kind) {
		return nil, shared.ErrNotFound
	}
	created, err := s.repo.Create(ctx, Resource{Kind: kind, Payload: payload, CreatedBy: createdBy})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil && kind == shared.ResourceNotifications {
		if err := s.notifier.NotifyCreated(ctx, kind, created.ID, created.Payload); err != nil && s.logger != nil {
			// Delivery is best effort; the stored row is the source of truth.
			s.logger.Warn("enqueue notification delivery", slog.Int64("id", created.ID), slog.Any("error", err))
		}
	}
	return created, nil
}

// Update replaces a document's payload.
func (s *Service) Update(ctx context.Context, kind string, id int64, payload json.RawMessage) (*Resource, error) {
	if !KnownKind(kind) {
		return nil, shared.ErrNotFound
	}
	return s.repo.Update(ctx, Resource{Kind: kind, ID: id, Payload: payload})
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, kind string, id int64) error {
	if !KnownKind(kind) {
		return shared.ErrNotFound
	}
	return s.repo.Delete(ctx, kind, id)
}
