package documents

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	maxNameLength      = 255
	defaultContentType = "application/octet-stream"
)

type Service struct {
	repo   Repository
	blobs  BlobStore
	groups GroupLookup
	engine *access.Engine
	log    logger.Logger
}

func NewService(repo Repository, blobs BlobStore, groups GroupLookup, engine *access.Engine, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		groups: groups,
		engine: engine,
		log:    log,
	}
}

func (s *Service) List(ctx context.Context, caller access.Principal) ([]WithURL, error) {
	scope, err := s.engine.Scope(ctx, caller, access.CategoryDocuments)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []WithURL{}, nil
	}

	items, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	result := make([]WithURL, 0, len(items))
	for _, item := range items {
		view, err := s.withURL(ctx, item)
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, caller access.Principal, id string) (*WithURL, error) {
	document, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, document.GroupID, access.CategoryDocuments, access.LevelRead); err != nil {
		return nil, err
	}
	view, err := s.withURL(ctx, *document)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Create stores the payload first and the row second. A failed insert removes
// the payload again.
func (s *Service) Create(ctx context.Context, caller access.Principal, input CreateInput) (*WithURL, error) {
	groupID := strings.TrimSpace(input.GroupID)
	if groupID == "" {
		return nil, apperr.Validation("group_id", "group_id is required")
	}
	if _, err := s.groups.GroupAdminID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, groupID, access.CategoryDocuments, access.LevelWrite); err != nil {
		return nil, err
	}
	if err := validateUpload(input.File); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	contentType := strings.TrimSpace(input.File.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}
	document := Document{
		ID:          id,
		GroupID:     groupID,
		Name:        strings.TrimSpace(input.Name),
		FileKey:     objectKey(groupID, id, input.File.Filename),
		ContentType: contentType,
		Size:        input.File.Size,
		Type:        input.Type,
		ExpiryDate:  truncateDate(input.ExpiryDate),
	}
	if err := validate(&document); err != nil {
		return nil, err
	}

	body := io.LimitReader(input.File.Body, input.File.Size)
	if err := s.blobs.Put(ctx, document.FileKey, body, document.Size, document.ContentType); err != nil {
		return nil, apperr.Storage(err)
	}

	if err := s.repo.Create(ctx, &document); err != nil {
		if delErr := s.blobs.Delete(ctx, document.FileKey); delErr != nil {
			s.log.InternalError("documents.create: remove orphaned blob failed", delErr, "key", document.FileKey)
		}
		return nil, err
	}

	view, err := s.withURL(ctx, document)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Update changes metadata only; the stored payload is immutable.
func (s *Service) Update(ctx context.Context, caller access.Principal, id string, input UpdateInput) (*WithURL, error) {
	document, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, document.GroupID, access.CategoryDocuments, access.LevelWrite); err != nil {
		return nil, err
	}

	if input.Name != nil {
		document.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		document.Type = *input.Type
	}
	if input.ExpiryDate.Set {
		document.ExpiryDate = truncateDate(input.ExpiryDate.Value)
		document.RemindedAt = nil
	}
	if err := validate(document); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, document); err != nil {
		return nil, err
	}
	view, err := s.withURL(ctx, *document)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ExpiringBetween lists documents due for an expiry reminder. It is used by
// background jobs and carries no caller.
func (s *Service) ExpiringBetween(ctx context.Context, from, until time.Time) ([]Document, error) {
	return s.repo.ListExpiring(ctx, truncateTime(from), truncateTime(until))
}

func (s *Service) MarkReminded(ctx context.Context, id string, at time.Time) error {
	return s.repo.MarkReminded(ctx, id, at.UTC())
}

func (s *Service) withURL(ctx context.Context, document Document) (WithURL, error) {
	url, err := s.blobs.URL(ctx, document.FileKey)
	if err != nil {
		return WithURL{}, apperr.Storage(err)
	}
	return WithURL{Document: document, URL: url}, nil
}

func validateUpload(file Upload) error {
	if file.Body == nil {
		return apperr.Validation("file", "no file was submitted")
	}
	if file.Size <= 0 {
		return apperr.Validation("file", "the submitted file is empty")
	}
	if file.Size > MaxUploadSize {
		return apperr.Validation("file", "file size cannot exceed 10MB")
	}
	return nil
}

func validate(document *Document) error {
	if document.Name == "" {
		return apperr.Validation("name", "name is required")
	}
	if len([]rune(document.Name)) > maxNameLength {
		return apperr.Validation("name", "must be at most 255 characters")
	}
	if !document.Type.Valid() {
		return apperr.Validation("type", "invalid document type: "+string(document.Type))
	}
	return nil
}

func objectKey(groupID, id, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 16 {
		ext = ""
	}
	return "documents/" + groupID + "/" + id + ext
}

func truncateDate(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	date := truncateTime(*value)
	return &date
}

func truncateTime(value time.Time) time.Time {
	value = value.UTC()
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
