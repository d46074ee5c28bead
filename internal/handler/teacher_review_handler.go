package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
	"github.com/noah-isme/campus-connect-api/pkg/response"
)

type teacherReviewService interface {
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherReview, error)
	Create(ctx context.Context, claims *models.JWTClaims, req models.CreateTeacherReviewRequest) (*models.ReviewOutcome, error)
	Delete(ctx context.Context, claims *models.JWTClaims, reviewID int64, snapshot models.RatingSnapshot) (*models.ReviewOutcome, error)
}

// TeacherReviewHandler exposes reviews and their effect on teacher ratings.
type TeacherReviewHandler struct {
	service teacherReviewService
}

// NewTeacherReviewHandler constructs the handler.
func NewTeacherReviewHandler(svc teacherReviewService) *TeacherReviewHandler {
	return &TeacherReviewHandler{service: svc}
}

// List godoc
// @Summary List reviews of a teacher
// @Tags Teacher Reviews
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{teacher_id}/reviews [get]
func (h *TeacherReviewHandler) List(c *gin.Context) {
	teacherID, err := int64Param(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	reviews, err := h.service.ListByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reviews)
}

// Create godoc
// @Summary Review a teacher
// @Description Stores the review and updates the teacher's running average in one transaction
// @Tags Teacher Reviews
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 512 {object} response.Envelope
// @Router /teacher-reviews [post]
func (h *TeacherReviewHandler) Create(c *gin.Context) {
	var req models.CreateTeacherReviewRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "teacher review created", outcome)
}

// Delete godoc
// @Summary Delete a review
// @Description Removes the review and takes its rating out of the teacher's average. The observed aggregate may be sent as query parameters or a JSON body.
// @Tags Teacher Reviews
// @Produce json
// @Param review_id path int true "Review ID"
// @Param overall_rating query number false "Rating of the review"
// @Param average_rating query number false "Teacher average before delete"
// @Param total_reviews query int false "Teacher review count before delete"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher-reviews/{review_id} [delete]
func (h *TeacherReviewHandler) Delete(c *gin.Context) {
	reviewID, err := int64Param(c, "review_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var snapshot models.RatingSnapshot
	if err := c.ShouldBindQuery(&snapshot); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidProperties.Code, appErrors.ErrInvalidProperties.Status, "invalid rating snapshot"))
		return
	}
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &snapshot); err != nil {
			response.Error(c, err)
			return
		}
	}
	outcome, err := h.service.Delete(c.Request.Context(), claimsFromContext(c), reviewID, snapshot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "teacher review deleted", outcome)
}
