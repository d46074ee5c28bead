package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

type teacherReviewStore interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	LockAggregate(ctx context.Context, tx *sqlx.Tx, teacherID int64) (*models.RatingAggregate, error)
	WriteAggregate(ctx context.Context, tx *sqlx.Tx, teacherID int64, average float64, total int64) error
	Insert(ctx context.Context, tx *sqlx.Tx, review *models.TeacherReview) (int64, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, reviewID int64) (*models.TeacherReview, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherReview, error)
	Delete(ctx context.Context, tx *sqlx.Tx, reviewID int64) error
}

// TeacherReviewService keeps each teacher's rating aggregate consistent with
// the reviews stored for that teacher.
type TeacherReviewService struct {
	store     teacherReviewStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTeacherReviewService constructs the service.
func NewTeacherReviewService(store teacherReviewStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *TeacherReviewService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherReviewService{store: store, validator: validate, metrics: metrics, logger: logger}
}

// ListByTeacher returns the reviews of a teacher.
func (s *TeacherReviewService) ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherReview, error) {
	return s.store.ListByTeacher(ctx, teacherID)
}

// Create stores a review and folds its rating into the teacher aggregate in
// one transaction.
func (s *TeacherReviewService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateTeacherReviewRequest) (*models.ReviewOutcome, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !claims.IsAdmin() {
		if req.ReviewedByERP != 0 && req.ReviewedByERP != claims.ERP {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot review on behalf of another student")
		}
		req.ReviewedByERP = claims.ERP
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	if req.ReviewedByERP == 0 {
		return nil, appErrors.Invalid(appErrors.FieldError{Param: "reviewed_by_erp", Msg: "is required"})
	}

	review := &models.TeacherReview{
		TeacherID:     req.TeacherID,
		SubjectCode:   req.SubjectCode,
		ReviewedByERP: req.ReviewedByERP,
		Learning:      req.Learning,
		Grading:       req.Grading,
		Attendance:    req.Attendance,
		Difficulty:    req.Difficulty,
		OverallRating: ComputeReviewRating(req.Learning, req.Grading, req.Attendance, req.Difficulty),
		Comment:       req.Comment,
	}

	outcome := &models.ReviewOutcome{TeacherID: req.TeacherID}
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		agg, err := s.store.LockAggregate(ctx, tx, req.TeacherID)
		if err != nil {
			if appErrors.FromError(err).Code == appErrors.CodeNotFound {
				return appErrors.Clone(appErrors.ErrForeignKeyViolation, "teacher does not exist")
			}
			return err
		}
		id, err := s.store.Insert(ctx, tx, review)
		if err != nil {
			return err
		}
		review.ReviewID = id

		outcome.AverageRating = IncrementTeacherRating(review.OverallRating, agg.AverageRating, agg.TotalReviews)
		outcome.TotalReviews = agg.TotalReviews + 1
		return s.store.WriteAggregate(ctx, tx, req.TeacherID, outcome.AverageRating, outcome.TotalReviews)
	})
	s.metrics.RecordRatingUpdate("create", err)
	if err != nil {
		return nil, err
	}

	outcome.ReviewID = review.ReviewID
	outcome.Review = review
	s.logger.Info("teacher review created",
		zap.Int64("review_id", review.ReviewID),
		zap.Int64("teacher_id", review.TeacherID),
		zap.Float64("average_rating", outcome.AverageRating),
		zap.Int64("total_reviews", outcome.TotalReviews),
	)
	return outcome, nil
}

// Delete removes a review and takes its rating out of the teacher aggregate in
// one transaction. The snapshot is optional; the locked stored values are used
// and a disagreeing snapshot is only logged.
func (s *TeacherReviewService) Delete(ctx context.Context, claims *models.JWTClaims, reviewID int64, snapshot models.RatingSnapshot) (*models.ReviewOutcome, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validateStruct(s.validator, snapshot); err != nil {
		return nil, err
	}

	outcome := &models.ReviewOutcome{ReviewID: reviewID}
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		review, err := s.store.FindByID(ctx, tx, reviewID)
		if err != nil {
			return err
		}
		if !claims.IsAdmin() && review.ReviewedByERP != claims.ERP {
			return appErrors.Clone(appErrors.ErrForbidden, "review belongs to another student")
		}
		agg, err := s.store.LockAggregate(ctx, tx, review.TeacherID)
		if err != nil {
			return err
		}
		s.compareSnapshot(review, agg, snapshot)

		if err := s.store.Delete(ctx, tx, reviewID); err != nil {
			return err
		}

		outcome.TeacherID = review.TeacherID
		outcome.TotalReviews = agg.TotalReviews - 1
		outcome.AverageRating = DecrementTeacherRating(review.OverallRating, agg.AverageRating, agg.TotalReviews)
		if outcome.TotalReviews <= 0 {
			outcome.TotalReviews = 0
			outcome.AverageRating = 0
		}
		return s.store.WriteAggregate(ctx, tx, review.TeacherID, outcome.AverageRating, outcome.TotalReviews)
	})
	s.metrics.RecordRatingUpdate("delete", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("teacher review deleted",
		zap.Int64("review_id", reviewID),
		zap.Int64("teacher_id", outcome.TeacherID),
		zap.Float64("average_rating", outcome.AverageRating),
		zap.Int64("total_reviews", outcome.TotalReviews),
	)
	return outcome, nil
}

func (s *TeacherReviewService) compareSnapshot(review *models.TeacherReview, agg *models.RatingAggregate, snap models.RatingSnapshot) {
	stale := (snap.OverallRating != nil && math.Abs(*snap.OverallRating-review.OverallRating) > ratingEpsilon) ||
		(snap.AverageRating != nil && math.Abs(*snap.AverageRating-agg.AverageRating) > ratingEpsilon) ||
		(snap.TotalReviews != nil && *snap.TotalReviews != agg.TotalReviews)
	if stale {
		s.logger.Warn("stale rating snapshot on review delete",
			zap.Int64("review_id", review.ReviewID),
			zap.Int64("teacher_id", agg.TeacherID),
			zap.Float64("stored_average", agg.AverageRating),
			zap.Int64("stored_total", agg.TotalReviews),
		)
	}
}
