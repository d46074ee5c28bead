package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

// ResourceSpec configures one table exposed through the generic CRUD pattern.
type ResourceSpec struct {
	Name string
	// Owner is the column holding the owning student's ERP. Empty means the
	// resource has no per-row ownership.
	Owner string
	// Participant is the column holding the receiving student's ERP. The
	// participant may read and delete the row but not create it.
	Participant string
	// ParticipantColumns are the only columns a participant may update, and
	// the owner may not.
	ParticipantColumns []string
	// PrivateReads restricts student reads to rows they own or take part in.
	PrivateReads bool
	// ReadOnly columns are rejected in request bodies.
	ReadOnly    []string
	CreateRules Rules
	UpdateRules Rules
	// Cached lists are served from the lookup cache when read without filters.
	Cached bool
}

type crudStore[T any] interface {
	Keys() []string
	Has(column string) bool
	Bag(attrs map[string]interface{}) (database.Columns, error)
	Coerce(column, raw string) (interface{}, error)
	Value(row *T, column string) (interface{}, bool)
	FindAll(ctx context.Context, exec sqlx.ExtContext, filters database.Columns) ([]T, error)
	FindOne(ctx context.Context, exec sqlx.ExtContext, filters database.Columns) (*T, error)
	Create(ctx context.Context, exec sqlx.ExtContext, attrs database.Columns) (*models.CreateResult, error)
	Update(ctx context.Context, exec sqlx.ExtContext, attrs, key database.Columns) (*models.UpdateResult, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, key database.Columns) (*models.DeleteResult, error)
}

// CRUDService applies validation and ownership rules around a generic table.
type CRUDService[T any] struct {
	store     crudStore[T]
	spec      ResourceSpec
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
}

// NewCRUDService constructs the service for one resource.
func NewCRUDService[T any](store crudStore[T], spec ResourceSpec, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *CRUDService[T] {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CRUDService[T]{store: store, spec: spec, validator: validate, cache: cache, logger: logger.With(zap.String("resource", spec.Name))}
}

// Spec returns the resource configuration.
func (s *CRUDService[T]) Spec() ResourceSpec { return s.spec }

// Coerce parses a raw path or query value for column.
func (s *CRUDService[T]) Coerce(column, raw string) (interface{}, error) {
	return s.store.Coerce(column, raw)
}

func (s *CRUDService[T]) cacheKey() string {
	return "lookup:" + s.spec.Name + ":all"
}

// List returns every row matching filters.
func (s *CRUDService[T]) List(ctx context.Context, claims *models.JWTClaims, filters database.Columns) ([]T, error) {
	if s.spec.PrivateReads && s.spec.Owner != "" && !claims.IsAdmin() {
		if claims == nil {
			return nil, appErrors.ErrUnauthorized
		}
		if !s.participantFilter(filters, claims.ERP) {
			if v, ok := filters.Get(s.spec.Owner); ok && !sameERP(v, claims.ERP) {
				return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("cannot read %s of another student", s.spec.Name))
			}
			filters = filters.With(s.spec.Owner, claims.ERP)
		}
	}

	useCache := s.spec.Cached && len(filters) == 0
	if useCache {
		var cached []T
		if s.cache.Get(ctx, s.cacheKey(), &cached) {
			return cached, nil
		}
	}
	rows, err := s.store.FindAll(ctx, nil, filters)
	if err != nil {
		return nil, err
	}
	if useCache {
		s.cache.Set(ctx, s.cacheKey(), rows)
	}
	return rows, nil
}

// Get returns the row identified by key.
func (s *CRUDService[T]) Get(ctx context.Context, claims *models.JWTClaims, key database.Columns) (*T, error) {
	row, err := s.store.FindOne(ctx, nil, key)
	if err != nil {
		return nil, err
	}
	if s.spec.PrivateReads {
		if err := s.checkOwner(claims, row); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Create validates body, stamps the owner and inserts the row.
func (s *CRUDService[T]) Create(ctx context.Context, claims *models.JWTClaims, body map[string]interface{}) (*models.CreateResult, error) {
	if err := s.rejectReadOnly(body, nil); err != nil {
		return nil, err
	}
	if s.spec.Owner != "" && !claims.IsAdmin() {
		if claims == nil {
			return nil, appErrors.ErrUnauthorized
		}
		if v, ok := body[s.spec.Owner]; ok && v != nil {
			if !sameERP(v, claims.ERP) {
				return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("cannot create %s for another student", s.spec.Name))
			}
		}
		body[s.spec.Owner] = claims.ERP
	}
	if err := validateMap(s.validator, body, s.spec.CreateRules); err != nil {
		return nil, err
	}
	attrs, err := s.store.Bag(body)
	if err != nil {
		return nil, err
	}
	result, err := s.store.Create(ctx, nil, attrs)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return result, nil
}

// Update validates body and writes it to the row identified by key.
func (s *CRUDService[T]) Update(ctx context.Context, claims *models.JWTClaims, key database.Columns, body map[string]interface{}) (*models.UpdateResult, error) {
	if err := s.rejectReadOnly(body, s.store.Keys()); err != nil {
		return nil, err
	}
	if err := s.authorizeUpdate(ctx, claims, key, body); err != nil {
		return nil, err
	}
	if err := validateMap(s.validator, body, s.spec.UpdateRules); err != nil {
		return nil, err
	}
	attrs, err := s.store.Bag(body)
	if err != nil {
		return nil, err
	}
	result, err := s.store.Update(ctx, nil, attrs, key)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return result, nil
}

// Delete removes the row identified by key.
func (s *CRUDService[T]) Delete(ctx context.Context, claims *models.JWTClaims, key database.Columns) (*models.DeleteResult, error) {
	if err := s.Authorize(ctx, claims, key); err != nil {
		return nil, err
	}
	result, err := s.store.Delete(ctx, nil, key)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return result, nil
}

// Authorize checks that a student caller owns, or takes part in, the row
// identified by key. Admins and resources without an owner column pass.
func (s *CRUDService[T]) Authorize(ctx context.Context, claims *models.JWTClaims, key database.Columns) error {
	if s.spec.Owner == "" || claims.IsAdmin() {
		return nil
	}
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	// the owner may be part of the key itself
	if v, ok := key.Get(s.spec.Owner); ok && s.spec.Participant == "" {
		if !sameERP(v, claims.ERP) {
			return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s belongs to another student", s.spec.Name))
		}
		return nil
	}
	row, err := s.store.FindOne(ctx, nil, key)
	if err != nil {
		return err
	}
	return s.checkOwner(claims, row)
}

func (s *CRUDService[T]) authorizeUpdate(ctx context.Context, claims *models.JWTClaims, key database.Columns, body map[string]interface{}) error {
	if s.spec.Owner == "" || claims.IsAdmin() {
		return nil
	}
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if v, ok := body[s.spec.Owner]; ok && !sameERP(v, claims.ERP) {
		return appErrors.Clone(appErrors.ErrForbidden, "ownership cannot be transferred")
	}
	if s.spec.Participant == "" {
		return s.Authorize(ctx, claims, key)
	}

	row, err := s.store.FindOne(ctx, nil, key)
	if err != nil {
		return err
	}
	owner, participant := s.roles(claims, row)
	if !owner && !participant {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s belongs to another student", s.spec.Name))
	}
	if _, ok := body[s.spec.Participant]; ok {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s cannot be changed", s.spec.Participant))
	}
	for column := range body {
		reserved := contains(s.spec.ParticipantColumns, column)
		if reserved && !participant {
			return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("only %s can change %s", s.spec.Participant, column))
		}
		if !reserved && !owner {
			return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("only %s can change %s", s.spec.Owner, column))
		}
	}
	return nil
}

func (s *CRUDService[T]) checkOwner(claims *models.JWTClaims, row *T) error {
	if s.spec.Owner == "" || claims.IsAdmin() {
		return nil
	}
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if owner, participant := s.roles(claims, row); !owner && !participant {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s belongs to another student", s.spec.Name))
	}
	return nil
}

// roles reports whether the caller is the row's owner and its participant.
func (s *CRUDService[T]) roles(claims *models.JWTClaims, row *T) (owner, participant bool) {
	v, _ := s.store.Value(row, s.spec.Owner)
	owner = sameERP(v, claims.ERP)
	if s.spec.Participant != "" {
		v, _ = s.store.Value(row, s.spec.Participant)
		participant = sameERP(v, claims.ERP)
	}
	return owner, participant
}

// participantFilter reports whether filters select rows the caller takes part in.
func (s *CRUDService[T]) participantFilter(filters database.Columns, erp int64) bool {
	if s.spec.Participant == "" {
		return false
	}
	v, ok := filters.Get(s.spec.Participant)
	return ok && sameERP(v, erp)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func (s *CRUDService[T]) rejectReadOnly(body map[string]interface{}, extra []string) error {
	if len(body) == 0 {
		return appErrors.Clone(appErrors.ErrInvalidProperties, "request body is empty")
	}
	var fields []appErrors.FieldError
	for _, column := range append(append([]string{}, s.spec.ReadOnly...), extra...) {
		if _, ok := body[column]; ok {
			fields = append(fields, appErrors.FieldError{Param: column, Msg: "is read-only"})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Param < fields[j].Param })
	return appErrors.Invalid(fields...)
}

func (s *CRUDService[T]) invalidate(ctx context.Context) {
	if s.spec.Cached {
		s.cache.Invalidate(ctx, "lookup:"+s.spec.Name+":*")
	}
}

// sameERP compares an owner value of any decoded numeric shape with an ERP.
func sameERP(v interface{}, erp int64) bool {
	switch n := v.(type) {
	case int64:
		return n == erp
	case int:
		return int64(n) == erp
	case int32:
		return int64(n) == erp
	case float64:
		return n == float64(erp)
	case json.Number:
		i, err := n.Int64()
		return err == nil && i == erp
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return err == nil && i == erp
	}
	return false
}
