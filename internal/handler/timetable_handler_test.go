package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
	"github.com/noah-isme/campus-connect-api/pkg/export"
)

type fakeTimetableService struct {
	format export.Format
	addErr error
}

func (f *fakeTimetableService) Get(context.Context, *models.JWTClaims, int64) (*models.TimetableView, error) {
	return &models.TimetableView{TimetableID: 5}, nil
}

func (f *fakeTimetableService) AddClass(context.Context, *models.JWTClaims, int64, models.AddTimetableClassRequest) (*models.TimetableView, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.TimetableView{TimetableID: 5}, nil
}

func (f *fakeTimetableService) RemoveClass(context.Context, *models.JWTClaims, int64, string) error {
	return nil
}

func (f *fakeTimetableService) Generate(context.Context, models.GenerateTimetableRequest) ([]models.GeneratedTimetable, error) {
	return []models.GeneratedTimetable{}, nil
}

func (f *fakeTimetableService) Export(_ context.Context, _ *models.JWTClaims, _ int64, format export.Format) ([]byte, string, error) {
	f.format = format
	return []byte("Class\n1001\n"), "timetable-5." + string(format), nil
}

func timetableRouter(svc *fakeTimetableService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTimetableHandler(svc)
	r := gin.New()
	r.GET("/timetables/:timetable_id/export", h.Export)
	r.POST("/timetables/:timetable_id/classes", h.AddClass)
	r.POST("/timetables/generate", h.Generate)
	return r
}

func TestTimetableExportSetsAttachmentHeaders(t *testing.T) {
	svc := &fakeTimetableService{}
	w := do(timetableRouter(svc), http.MethodGet, "/timetables/5/export?format=csv", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatCSV, svc.format)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="timetable-5.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Class\n1001\n", w.Body.String())

	w = do(timetableRouter(svc), http.MethodGet, "/timetables/5/export?format=xlsx", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTimetableConflictCarriesClassNumbers(t *testing.T) {
	svc := &fakeTimetableService{addErr: appErrors.WithDetails(appErrors.ErrClassConflict, "class 1002 conflicts with 1001", []string{"1001"})}
	w := do(timetableRouter(svc), http.MethodPost, "/timetables/5/classes", `{"class_nbr":"1002"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	out := decode(t, w)
	assert.Equal(t, appErrors.CodeClassConflict, out.Headers.Code)
	assert.JSONEq(t, `["1001"]`, string(out.Headers.Data))
}

func TestTimetableGenerateStaticRoute(t *testing.T) {
	w := do(timetableRouter(&fakeTimetableService{}), http.MethodPost, "/timetables/generate", `{"term_id":"2261","subjects":["CSE101"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Body))
}

type fakeReviewService struct {
	snapshot models.RatingSnapshot
	reviewID int64
}

func (f *fakeReviewService) ListByTeacher(context.Context, int64) ([]models.TeacherReview, error) {
	return nil, nil
}

func (f *fakeReviewService) Create(context.Context, *models.JWTClaims, models.CreateTeacherReviewRequest) (*models.ReviewOutcome, error) {
	return &models.ReviewOutcome{}, nil
}

func (f *fakeReviewService) Delete(_ context.Context, _ *models.JWTClaims, reviewID int64, snapshot models.RatingSnapshot) (*models.ReviewOutcome, error) {
	f.reviewID, f.snapshot = reviewID, snapshot
	return &models.ReviewOutcome{ReviewID: reviewID, TeacherID: 7, AverageRating: 4.5, TotalReviews: 1}, nil
}

func TestTeacherReviewDeleteReadsSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeReviewService{}
	r := gin.New()
	r.DELETE("/teacher-reviews/:review_id", NewTeacherReviewHandler(svc).Delete)

	w := do(r, http.MethodDelete, "/teacher-reviews/31?overall_rating=4&average_rating=4.25&total_reviews=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(31), svc.reviewID)
	require.NotNil(t, svc.snapshot.AverageRating)
	assert.Equal(t, 4.25, *svc.snapshot.AverageRating)
	assert.Equal(t, int64(2), *svc.snapshot.TotalReviews)

	w = do(r, http.MethodDelete, "/teacher-reviews/32", `{"overall_rating":3.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.snapshot.OverallRating)
	assert.Equal(t, 3.5, *svc.snapshot.OverallRating)
	assert.Nil(t, svc.snapshot.TotalReviews)
}
