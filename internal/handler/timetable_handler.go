package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
	"github.com/noah-isme/campus-connect-api/pkg/export"
	"github.com/noah-isme/campus-connect-api/pkg/response"
)

type timetableService interface {
	Get(ctx context.Context, claims *models.JWTClaims, timetableID int64) (*models.TimetableView, error)
	AddClass(ctx context.Context, claims *models.JWTClaims, timetableID int64, req models.AddTimetableClassRequest) (*models.TimetableView, error)
	RemoveClass(ctx context.Context, claims *models.JWTClaims, timetableID int64, classNbr string) error
	Generate(ctx context.Context, req models.GenerateTimetableRequest) ([]models.GeneratedTimetable, error)
	Export(ctx context.Context, claims *models.JWTClaims, timetableID int64, format export.Format) ([]byte, string, error)
}

// TimetableHandler serves timetables with their classes.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Get godoc
// @Summary Get timetable
// @Tags Timetables
// @Produce json
// @Param timetable_id path int true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{timetable_id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	timetableID, err := int64Param(c, "timetable_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Get(c.Request.Context(), claimsFromContext(c), timetableID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// AddClass godoc
// @Summary Add class to timetable
// @Description Rejects classes that clash with the timetable; the clashing class numbers are returned in headers.data
// @Tags Timetables
// @Accept json
// @Produce json
// @Param timetable_id path int true "Timetable ID"
// @Param payload body models.AddTimetableClassRequest true "Class"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{timetable_id}/classes [post]
func (h *TimetableHandler) AddClass(c *gin.Context) {
	timetableID, err := int64Param(c, "timetable_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AddTimetableClassRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.AddClass(c.Request.Context(), claimsFromContext(c), timetableID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "class added", view)
}

// RemoveClass godoc
// @Summary Remove class from timetable
// @Tags Timetables
// @Produce json
// @Param timetable_id path int true "Timetable ID"
// @Param class_nbr path string true "Class number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{timetable_id}/classes/{class_nbr} [delete]
func (h *TimetableHandler) RemoveClass(c *gin.Context) {
	timetableID, err := int64Param(c, "timetable_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.RemoveClass(c.Request.Context(), claimsFromContext(c), timetableID, c.Param("class_nbr")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "class removed", nil)
}

// Generate godoc
// @Summary Generate timetables
// @Description Lists conflict-free combinations of one class per requested subject
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body models.GenerateTimetableRequest true "Term and subjects"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req models.GenerateTimetableRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	options, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, options)
}

// Export godoc
// @Summary Export timetable
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param timetable_id path int true "Timetable ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /timetables/{timetable_id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	timetableID, err := int64Param(c, "timetable_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Invalid(appErrors.FieldError{Param: "format", Msg: "must be one of [csv pdf]"}))
		return
	}
	data, filename, err := h.service.Export(c.Request.Context(), claimsFromContext(c), timetableID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}
