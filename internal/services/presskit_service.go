package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"presskit/internal/models"
	"presskit/internal/repositories"
	"presskit/pkg/rabbitmq"
)

// PressKitUpdate is a partial patch for a press kit. Nil fields are
// left untouched; this is never a full replace.
type PressKitUpdate struct {
	Title       *string
	Description *string
	Theme       *string
	IsPublic    *bool
}

// Visitor describes the client behind a public press kit view, for
// analytics recording.
type Visitor struct {
	IP        string
	Referrer  string
	UserAgent string
}

// PressKitService orchestrates the press kit aggregate: creation,
// ownership-guarded reads and writes, cascading deletion, deep
// duplication and the public view.
type PressKitService struct {
	repo     repositories.PressKitRepository
	mqClient *rabbitmq.Client
}

// NewPressKitService creates a new PressKitService. mqClient may be
// nil; lifecycle events are published best-effort and never fail an
// operation.
func NewPressKitService(repo repositories.PressKitRepository, mqClient *rabbitmq.Client) *PressKitService {
	return &PressKitService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// authorizeOwner is the ownership guard: it compares the requester's
// musician ID against the resource owner's. Callers must establish
// existence first, so a missing kit reports ErrNotFound and a foreign
// kit reports ErrForbidden.
func authorizeOwner(requesterMusicianID, ownerMusicianID string) error {
	if requesterMusicianID != ownerMusicianID {
		return ErrForbidden
	}
	return nil
}

// Create creates a new press kit owned by musicianID with the given
// fields. Description defaults to empty, theme to "default" and
// isPublic to false. Duplicate titles are permitted.
func (s *PressKitService) Create(musicianID, title, description, theme string, isPublic bool) (*models.PressKit, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if theme == "" {
		theme = "default"
	}

	kit := &models.PressKit{
		Title:       title,
		Description: description,
		Theme:       theme,
		IsPublic:    isPublic,
		MusicianID:  musicianID,
	}
	if err := s.repo.Create(kit); err != nil {
		return nil, fmt.Errorf("failed to create press kit: %w", err)
	}

	s.publishEvent("presskit.created", kit.ID, musicianID)
	return kit, nil
}

// List retrieves every press kit owned by the musician, most recently
// updated first.
func (s *PressKitService) List(musicianID string) ([]models.PressKit, error) {
	return s.repo.GetAllByMusician(musicianID)
}

// Get retrieves a press kit with all child collections. The kit must
// exist and belong to the requesting musician.
func (s *PressKitService) Get(id, requesterMusicianID string) (*models.PressKit, error) {
	kit, err := s.repo.GetByIDWithChildren(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get press kit: %w", err)
	}
	if err := authorizeOwner(requesterMusicianID, kit.MusicianID); err != nil {
		return nil, err
	}
	return kit, nil
}

// Update applies a partial patch to a press kit, after the same
// existence and ownership checks as Get. It returns the updated kit.
func (s *PressKitService) Update(id, requesterMusicianID string, patch PressKitUpdate) (*models.PressKit, error) {
	kit, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get press kit: %w", err)
	}
	if err := authorizeOwner(requesterMusicianID, kit.MusicianID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Theme != nil {
		fields["theme"] = *patch.Theme
	}
	if patch.IsPublic != nil {
		fields["is_public"] = *patch.IsPublic
	}
	if len(fields) == 0 {
		return kit, nil
	}

	if err := s.repo.UpdateFields(id, fields); err != nil {
		return nil, fmt.Errorf("failed to update press kit: %w", err)
	}
	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload press kit: %w", err)
	}
	return updated, nil
}

// Delete removes a press kit and every child row referencing it
// (including analytics) in one atomic transaction.
func (s *PressKitService) Delete(id, requesterMusicianID string) error {
	kit, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get press kit: %w", err)
	}
	if err := authorizeOwner(requesterMusicianID, kit.MusicianID); err != nil {
		return err
	}

	if err := s.repo.DeleteCascade(id); err != nil {
		return fmt.Errorf("failed to delete press kit: %w", err)
	}

	s.publishEvent("presskit.deleted", id, requesterMusicianID)
	return nil
}

// Duplicate deep-copies a press kit the requester owns. The copy keeps
// the source's description, theme and children (media items, social
// links, events, testimonials, contacts) but gets a " (Copy)" title
// suffix and is always private, and analytics rows are never copied.
func (s *PressKitService) Duplicate(id, requesterMusicianID string) (*models.PressKit, error) {
	source, err := s.repo.GetByIDWithChildren(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get press kit: %w", err)
	}
	if err := authorizeOwner(requesterMusicianID, source.MusicianID); err != nil {
		return nil, err
	}

	duplicate := &models.PressKit{
		Title:       source.Title + " (Copy)",
		Description: source.Description,
		Theme:       source.Theme,
		IsPublic:    false, // Copies always start private
		MusicianID:  requesterMusicianID,
	}
	for _, item := range source.MediaItems {
		duplicate.MediaItems = append(duplicate.MediaItems, models.MediaItem{
			Type:         item.Type,
			Title:        item.Title,
			Description:  item.Description,
			FileURL:      item.FileURL,
			ThumbnailURL: item.ThumbnailURL,
			ExternalURL:  item.ExternalURL,
			Order:        item.Order,
		})
	}
	for _, link := range source.SocialLinks {
		duplicate.SocialLinks = append(duplicate.SocialLinks, models.SocialLink{
			Platform: link.Platform,
			URL:      link.URL,
		})
	}
	for _, event := range source.Events {
		duplicate.Events = append(duplicate.Events, models.Event{
			Name:        event.Name,
			Venue:       event.Venue,
			City:        event.City,
			Country:     event.Country,
			Date:        event.Date,
			Description: event.Description,
			TicketURL:   event.TicketURL,
		})
	}
	for _, testimonial := range source.Testimonials {
		duplicate.Testimonials = append(duplicate.Testimonials, models.Testimonial{
			Quote:  testimonial.Quote,
			Author: testimonial.Author,
			Source: testimonial.Source,
			Date:   testimonial.Date,
		})
	}
	for _, contact := range source.Contacts {
		duplicate.Contacts = append(duplicate.Contacts, models.Contact{
			Name:  contact.Name,
			Role:  contact.Role,
			Email: contact.Email,
			Phone: contact.Phone,
		})
	}

	if err := s.repo.Create(duplicate); err != nil {
		return nil, fmt.Errorf("failed to create duplicate press kit: %w", err)
	}

	s.publishEvent("presskit.duplicated", duplicate.ID, requesterMusicianID)
	return duplicate, nil
}

// GetPublic retrieves a press kit for unauthenticated viewing. There
// is no ownership check; the kit must exist and have isPublic set.
// Events are filtered to upcoming ones sorted soonest first, and the
// musician's public profile is embedded. Every successful view appends
// one analytics row; a failed analytics insert fails the whole read.
func (s *PressKitService) GetPublic(id string, visitor Visitor) (*models.PressKit, error) {
	kit, err := s.repo.GetPublicByID(id, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get press kit: %w", err)
	}
	if !kit.IsPublic {
		return nil, ErrNotPublic
	}

	analytic := &models.Analytic{
		PressKitID: kit.ID,
		VisitorIP:  visitor.IP,
		Referrer:   visitor.Referrer,
		UserAgent:  visitor.UserAgent,
	}
	if err := s.repo.CreateAnalytic(analytic); err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}

	s.publishEvent("presskit.viewed", kit.ID, kit.MusicianID)
	return kit, nil
}

func (s *PressKitService) publishEvent(eventType, pressKitID, musicianID string) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"pressKitID": pressKitID,
		"musicianID": musicianID,
	}
	if err := s.mqClient.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for press kit %s: %v", eventType, pressKitID, err)
	}
}
