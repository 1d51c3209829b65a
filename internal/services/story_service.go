package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/images"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MsgStoryNotFound   = "Travel Story not found"
	MsgQueryRequired   = "query is required"
	MsgInvalidDateSpan = "startDate and endDate must be epoch milliseconds"
	MsgImageNotOwned   = "imageUrl must reference one of your uploads"
)

// ImageReleaser knows who uploaded a managed image and disposes of images
// that are no longer referenced. Release must not block the caller.
type ImageReleaser interface {
	// OwnerOf yields images.ErrForeignURL for images it does not manage.
	OwnerOf(url string) (uuid.UUID, error)
	Release(owner uuid.UUID, url string)
}

// MutationRecorder counts successful story mutations by operation name.
type MutationRecorder interface {
	StoryMutation(op string)
}

type noopRecorder struct{}

func (noopRecorder) StoryMutation(string) {}

type StoryService struct {
	repo        repository.StoryRepository
	images      ImageReleaser
	placeholder string
	metrics     MutationRecorder
}

func NewStoryService(repo repository.StoryRepository, images ImageReleaser, placeholder string) *StoryService {
	return &StoryService{
		repo:        repo,
		images:      images,
		placeholder: placeholder,
		metrics:     noopRecorder{},
	}
}

func (s *StoryService) WithMetrics(m MutationRecorder) *StoryService {
	if m != nil {
		s.metrics = m
	}
	return s
}

func (s *StoryService) Placeholder() string { return s.placeholder }

func (s *StoryService) Create(ctx context.Context, owner uuid.UUID, req *dto.StoryRequest) (*models.Story, error) {
	if err := validateStory(req); err != nil {
		return nil, err
	}
	if err := s.checkImage(owner, req.ImageURL); err != nil {
		return nil, err
	}

	story := models.Story{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       req.Title,
		Body:        req.Story,
		Locations:   datatypes.JSONSlice[string](append([]string{}, req.VisitedLocation...)),
		ImageURL:    s.imageOrPlaceholder(req.ImageURL),
		VisitedDate: req.VisitedDate.Time,
		IsFavourite: false,
	}
	if err := s.repo.Create(ctx, &story); err != nil {
		return nil, apperror.Storage(err)
	}
	s.metrics.StoryMutation("create")
	return &story, nil
}

func (s *StoryService) Get(ctx context.Context, owner uuid.UUID, rawID string) (*models.Story, error) {
	id, err := parseStoryID(rawID)
	if err != nil {
		return nil, err
	}
	story, err := s.repo.FindOwned(ctx, owner, id)
	if err != nil {
		return nil, storyErr(err)
	}
	return story, nil
}

func (s *StoryService) List(ctx context.Context, owner uuid.UUID) ([]models.Story, error) {
	return s.list(ctx, repository.Query{OwnerID: owner})
}

func (s *StoryService) Edit(ctx context.Context, owner uuid.UUID, rawID string, req *dto.StoryRequest) (*models.Story, error) {
	if err := validateStory(req); err != nil {
		return nil, err
	}
	id, err := parseStoryID(rawID)
	if err != nil {
		return nil, err
	}
	if err := s.checkImage(owner, req.ImageURL); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateOwned(ctx, &models.Story{
		ID:          id,
		OwnerID:     owner,
		Title:       req.Title,
		Body:        req.Story,
		Locations:   datatypes.JSONSlice[string](append([]string{}, req.VisitedLocation...)),
		ImageURL:    s.imageOrPlaceholder(req.ImageURL),
		VisitedDate: req.VisitedDate.Time,
	})
	if err != nil {
		return nil, storyErr(err)
	}
	s.metrics.StoryMutation("edit")
	return updated, nil
}

// Delete removes the story and hands its image to the releaser once no
// story references it. Releasing is best effort and never fails the delete.
func (s *StoryService) Delete(ctx context.Context, owner uuid.UUID, rawID string) error {
	id, err := parseStoryID(rawID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteOwned(ctx, owner, id)
	if err != nil {
		return storyErr(err)
	}
	s.metrics.StoryMutation("delete")

	s.releaseImage(ctx, owner, deleted.ImageURL)
	return nil
}

func (s *StoryService) releaseImage(ctx context.Context, owner uuid.UUID, url string) {
	if url == "" || url == s.placeholder || s.images == nil {
		return
	}
	inUse, err := s.repo.ImageInUse(ctx, url)
	if err != nil {
		slog.Warn("image reference check failed, keeping image", "image_url", url, "error", err)
		return
	}
	if !inUse {
		s.images.Release(owner, url)
	}
}

// ImageInUse reports whether any story still references url.
func (s *StoryService) ImageInUse(ctx context.Context, url string) (bool, error) {
	inUse, err := s.repo.ImageInUse(ctx, url)
	if err != nil {
		return false, apperror.Storage(err)
	}
	return inUse, nil
}

func (s *StoryService) SetFavourite(ctx context.Context, owner uuid.UUID, rawID string, favourite bool) error {
	id, err := parseStoryID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.SetFavourite(ctx, owner, id, favourite); err != nil {
		return storyErr(err)
	}
	s.metrics.StoryMutation("favourite")
	return nil
}

func (s *StoryService) Search(ctx context.Context, owner uuid.UUID, query string) ([]models.Story, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.Validation(MsgQueryRequired)
	}
	return s.list(ctx, repository.Query{OwnerID: owner, Text: query})
}

// FilterByDateRange returns stories visited within [startDate, endDate],
// both given as epoch milliseconds. A reversed range yields no stories.
func (s *StoryService) FilterByDateRange(ctx context.Context, owner uuid.UUID, startDate, endDate string) ([]models.Story, error) {
	startDate, endDate = strings.TrimSpace(startDate), strings.TrimSpace(endDate)
	if startDate == "" || endDate == "" {
		return nil, apperror.Validation(MsgInvalidDateSpan)
	}
	from, err := dto.ParseEpochMillis(startDate)
	if err != nil {
		return nil, apperror.Validation(MsgInvalidDateSpan)
	}
	to, err := dto.ParseEpochMillis(endDate)
	if err != nil {
		return nil, apperror.Validation(MsgInvalidDateSpan)
	}
	return s.list(ctx, repository.Query{
		OwnerID: owner,
		Visited: &repository.DateRange{From: from, To: to},
	})
}

func (s *StoryService) list(ctx context.Context, q repository.Query) ([]models.Story, error) {
	stories, err := s.repo.ListOwned(ctx, q)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return stories, nil
}

// checkImage rejects managed images uploaded by someone else. External URLs
// pass through untouched.
func (s *StoryService) checkImage(owner uuid.UUID, url string) error {
	if strings.TrimSpace(url) == "" || url == s.placeholder || s.images == nil {
		return nil
	}
	uploader, err := s.images.OwnerOf(url)
	if errors.Is(err, images.ErrForeignURL) {
		return nil
	}
	if err != nil || uploader != owner {
		return apperror.Validation(MsgImageNotOwned)
	}
	return nil
}

func (s *StoryService) imageOrPlaceholder(url string) string {
	if strings.TrimSpace(url) == "" {
		return s.placeholder
	}
	return url
}

func validateStory(req *dto.StoryRequest) error {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Story) == "" ||
		len(req.VisitedLocation) == 0 ||
		!req.VisitedDate.Set {
		return apperror.Validation(MsgAllFieldsRequired)
	}
	return nil
}

// parseStoryID maps malformed ids to the same not-found outcome as a
// missing record.
func parseStoryID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound(MsgStoryNotFound)
	}
	return id, nil
}

func storyErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(MsgStoryNotFound)
	}
	return apperror.Storage(err)
}
