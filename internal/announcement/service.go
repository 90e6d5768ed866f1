package announcement

import (
	"context"
	"fmt"
	"log/slog"

	"records-service/internal/integrity"
	"records-service/internal/metrics"
)

// AuthorshipChecker is the slice of the integrity engine this package needs.
type AuthorshipChecker interface {
	ValidateAnnouncementAuthorship(ctx context.Context, classID, authorID int) error
}

// EventPublisher fans posted announcements out to enrolled users' consumers.
type EventPublisher interface {
	Publish(event string, value interface{}) error
}

type Service interface {
	PostAnnouncement(ctx context.Context, a *Announcement) (*Announcement, error)
	GetAllAnnouncements(ctx context.Context, classID, limit, offset int) ([]Announcement, error)
	GetAnnouncementByID(ctx context.Context, id int) (*Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int) error
}

type service struct {
	repo       Repository
	authorship AuthorshipChecker
	publisher  EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(repo Repository, authorship AuthorshipChecker, publisher EventPublisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:       repo,
		authorship: authorship,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
	}
}

func (s *service) PostAnnouncement(ctx context.Context, a *Announcement) (*Announcement, error) {
	if err := s.authorship.ValidateAnnouncementAuthorship(ctx, a.ClassID, a.AuthorID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnnouncementPosted(ctx)

	if s.publisher != nil {
		if err := s.publisher.Publish("announcement.posted", created); err != nil {
			s.logger.Warn("failed to publish announcement event", "id", created.ID, "error", err)
		}
	}
	return created, nil
}

func (s *service) GetAllAnnouncements(ctx context.Context, classID, limit, offset int) ([]Announcement, error) {
	return s.repo.GetAll(ctx, classID, limit, offset)
}

func (s *service) GetAnnouncementByID(ctx context.Context, id int) (*Announcement, error) {
	if id <= 0 {
		return nil, fmt.Errorf("announcement %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) DeleteAnnouncement(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("announcement %d: %w", id, integrity.ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}
