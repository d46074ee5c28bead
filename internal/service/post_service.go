package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

type postStore interface {
	FeedRows(ctx context.Context, filters database.Columns) ([]models.PostRow, error)
	CreateWithResources(ctx context.Context, post database.Columns, resources []database.Columns) (int64, error)
}

// PostService serves the shaped post feed and creates posts with attachments.
type PostService struct {
	store     postStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(store postStore, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{store: store, validator: validate, logger: logger}
}

// List returns shaped posts matching filters, newest first.
func (s *PostService) List(ctx context.Context, filters database.Columns) ([]models.PostView, error) {
	rows, err := s.store.FeedRows(ctx, filters)
	if err != nil {
		return nil, err
	}
	return ShapePosts(rows), nil
}

// Get returns one shaped post.
func (s *PostService) Get(ctx context.Context, postID int64) (*models.PostView, error) {
	rows, err := s.store.FeedRows(ctx, database.Columns{{Name: "post_id", Value: postID}})
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.CodeNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, err
	}
	views := ShapePosts(rows)
	return &views[0], nil
}

// Create stores a post authored by the caller together with its resources.
func (s *PostService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreatePostRequest) (*models.PostView, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !claims.IsAdmin() {
		if req.AuthorERP != 0 && req.AuthorERP != claims.ERP {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot post on behalf of another student")
		}
		req.AuthorERP = claims.ERP
	}
	if req.Visibility == "" {
		req.Visibility = "PUBLIC"
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	if req.AuthorERP == 0 {
		return nil, appErrors.Invalid(appErrors.FieldError{Param: "author_erp", Msg: "is required"})
	}

	post := database.Columns{
		{Name: "author_erp", Value: req.AuthorERP},
		{Name: "body", Value: req.Body},
		{Name: "visibility", Value: req.Visibility},
	}
	resources := make([]database.Columns, 0, len(req.Resources))
	for _, res := range req.Resources {
		resources = append(resources, database.Columns{
			{Name: "resource_type", Value: res.ResourceType},
			{Name: "resource_url", Value: res.ResourceURL},
		})
	}
	postID, err := s.store.CreateWithResources(ctx, post, resources)
	if err != nil {
		return nil, err
	}
	s.logger.Info("post created", zap.Int64("post_id", postID), zap.Int("resources", len(resources)))
	return s.Get(ctx, postID)
}
