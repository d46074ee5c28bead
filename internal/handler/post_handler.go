package handler

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	"github.com/noah-isme/campus-connect-api/pkg/response"
)

type postService interface {
	List(ctx context.Context, filters database.Columns) ([]models.PostView, error)
	Get(ctx context.Context, postID int64) (*models.PostView, error)
	Create(ctx context.Context, claims *models.JWTClaims, req models.CreatePostRequest) (*models.PostView, error)
}

type columnCoercer interface {
	Coerce(column, raw string) (interface{}, error)
}

// PostHandler serves the shaped post feed.
type PostHandler struct {
	service postService
	columns columnCoercer
}

// NewPostHandler constructs the handler. columns parses query filters against
// the posts table.
func NewPostHandler(svc postService, columns columnCoercer) *PostHandler {
	return &PostHandler{service: svc, columns: columns}
}

// List godoc
// @Summary List posts
// @Description Posts with their resources and top three reaction types, newest first
// @Tags Posts
// @Produce json
// @Param author_erp query int false "Filter by author"
// @Param visibility query string false "Filter by visibility"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	query := c.Request.URL.Query()
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)
	filters := make(database.Columns, 0, len(names))
	for _, name := range names {
		v, err := h.columns.Coerce(name, query.Get(name))
		if err != nil {
			response.Error(c, err)
			return
		}
		filters = append(filters, database.Column{Name: name, Value: v})
	}
	posts, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, posts)
}

// Get godoc
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param post_id path int true "Post ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts/{post_id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := int64Param(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	post, err := h.service.Get(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, post)
}

// Create godoc
// @Summary Create post
// @Description Creates a post and its attached resources in one transaction
// @Tags Posts
// @Accept json
// @Produce json
// @Param payload body models.CreatePostRequest true "Post payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	post, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "post created", post)
}
