package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/internal/service"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	"github.com/noah-isme/campus-connect-api/pkg/response"
)

type resourceService[T any] interface {
	Spec() service.ResourceSpec
	Coerce(column, raw string) (interface{}, error)
	List(ctx context.Context, claims *models.JWTClaims, filters database.Columns) ([]T, error)
	Get(ctx context.Context, claims *models.JWTClaims, key database.Columns) (*T, error)
	Create(ctx context.Context, claims *models.JWTClaims, body map[string]interface{}) (*models.CreateResult, error)
	Update(ctx context.Context, claims *models.JWTClaims, key database.Columns, body map[string]interface{}) (*models.UpdateResult, error)
	Delete(ctx context.Context, claims *models.JWTClaims, key database.Columns) (*models.DeleteResult, error)
}

// ResourceHandler exposes one table over HTTP. Route parameters are named
// after the columns they address, so /students/:erp/hobbies/:hobby_id keys a
// student_hobbies row by erp and hobby_id.
type ResourceHandler[T any] struct {
	service resourceService[T]
}

// NewResourceHandler constructs a handler for svc.
func NewResourceHandler[T any](svc resourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: svc}
}

// pathColumns turns route parameters into columns in route order.
func (h *ResourceHandler[T]) pathColumns(c *gin.Context) (database.Columns, error) {
	cols := make(database.Columns, 0, len(c.Params))
	for _, p := range c.Params {
		v, err := h.service.Coerce(p.Key, p.Value)
		if err != nil {
			return nil, err
		}
		cols = append(cols, database.Column{Name: p.Key, Value: v})
	}
	return cols, nil
}

// filterColumns adds equality filters from the query string, sorted by name.
// A query value never overrides a path parameter.
func (h *ResourceHandler[T]) filterColumns(c *gin.Context) (database.Columns, error) {
	cols, err := h.pathColumns(c)
	if err != nil {
		return nil, err
	}
	query := c.Request.URL.Query()
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := cols.Get(name); ok {
			continue
		}
		v, err := h.service.Coerce(name, query.Get(name))
		if err != nil {
			return nil, err
		}
		cols = append(cols, database.Column{Name: name, Value: v})
	}
	return cols, nil
}

// List returns every row matching the path and query filters.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	filters, err := h.filterColumns(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.List(c.Request.Context(), claimsFromContext(c), filters)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}

// Get returns one row.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	key, err := h.pathColumns(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	row, err := h.service.Get(c.Request.Context(), claimsFromContext(c), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, row)
}

// Create inserts a row. Path parameters of a nested route are part of the row.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	body := map[string]interface{}{}
	if err := bindJSON(c, &body); err != nil {
		response.Error(c, err)
		return
	}
	parent, err := h.pathColumns(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	for _, col := range parent {
		body[col.Name] = col.Value
	}
	result, err := h.service.Create(c.Request.Context(), claimsFromContext(c), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("%s created", h.service.Spec().Name), result)
}

// Update writes the changed columns of one row.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	key, err := h.pathColumns(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	body := map[string]interface{}{}
	if err := bindJSON(c, &body); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Update(c.Request.Context(), claimsFromContext(c), key, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fmt.Sprintf("%s updated", h.service.Spec().Name), result)
}

// Delete removes one row.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	key, err := h.pathColumns(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Delete(c.Request.Context(), claimsFromContext(c), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fmt.Sprintf("%s deleted", h.service.Spec().Name), result)
}
