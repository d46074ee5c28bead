//go:build integration

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap/zaptest"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/internal/repository"
	"github.com/noah-isme/campus-connect-api/internal/service"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
	"github.com/noah-isme/campus-connect-api/pkg/migrations"
)

const seedSQL = `
INSERT INTO students (erp, first_name, last_name, email) VALUES
    (21001, 'Ayesha', 'Khan', 'ayesha@campus.edu'),
    (21002, 'Bilal', 'Ahmed', 'bilal@campus.edu');
INSERT INTO subjects (subject_code, title) VALUES ('CSE101', 'Programming'), ('MTH101', 'Calculus');
INSERT INTO teachers (teacher_id, full_name) VALUES (1, 'Dr. Saima');
INSERT INTO classes (class_nbr, term_id, subject_code, teacher_id, days, start_time, end_time) VALUES
    ('1001', '2261', 'CSE101', 1, 'MON,WED', '08:30', '09:45'),
    ('2001', '2261', 'MTH101', 1, 'MON', '09:00', '10:15'),
    ('2002', '2261', 'MTH101', 1, 'TUE', '09:00', '10:15');
INSERT INTO timetables (timetable_id, student_erp, term_id, title) VALUES (1, 21001, '2261', 'Spring');
`

func startPostgres(t *testing.T) *database.Gateway {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("campus"),
		postgres.WithUsername("campus"),
		postgres.WithPassword("campus"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var db *sqlx.DB
	require.Eventually(t, func() bool {
		db, err = sqlx.Connect("postgres", uri)
		return err == nil
	}, 30*time.Second, 250*time.Millisecond)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(ctx, db.DB))
	_, err = db.ExecContext(ctx, seedSQL)
	require.NoError(t, err)

	return database.NewGateway(db, zaptest.NewLogger(t), true, nil)
}

func student(erp int64) *models.JWTClaims {
	return &models.JWTClaims{ERP: erp, Role: models.RoleStudent}
}

func TestReviewAggregateRoundTrip(t *testing.T) {
	gw := startPostgres(t)
	ctx := context.Background()
	svc := service.NewTeacherReviewService(repository.NewTeacherReviewRepository(gw), nil, nil, zaptest.NewLogger(t))
	teachers := repository.NewTable[models.Teacher](gw, "teachers", "teacher_id")
	teacherKey := database.Columns{{Name: "teacher_id", Value: int64(1)}}

	first, err := svc.Create(ctx, student(21001), models.CreateTeacherReviewRequest{
		TeacherID: 1, SubjectCode: "CSE101", Learning: 5, Grading: 4, Attendance: 5, Difficulty: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalReviews)

	second, err := svc.Create(ctx, student(21002), models.CreateTeacherReviewRequest{
		TeacherID: 1, SubjectCode: "CSE101", Learning: 2, Grading: 2, Attendance: 3, Difficulty: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.TotalReviews)

	stored, err := teachers.FindOne(ctx, nil, teacherKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.TotalReviews)
	assert.InDelta(t, second.AverageRating, stored.AverageRating, 0.001)

	_, err = svc.Create(ctx, student(21001), models.CreateTeacherReviewRequest{
		TeacherID: 1, SubjectCode: "CSE101", Learning: 1, Grading: 1, Attendance: 1, Difficulty: 1,
	})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateEntry))

	// the failed insert must leave the aggregate untouched
	stored, err = teachers.FindOne(ctx, nil, teacherKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.TotalReviews)

	_, err = svc.Delete(ctx, student(21002), first.ReviewID, models.RatingSnapshot{})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Delete(ctx, student(21001), first.ReviewID, models.RatingSnapshot{})
	require.NoError(t, err)
	last, err := svc.Delete(ctx, student(21002), second.ReviewID, models.RatingSnapshot{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), last.TotalReviews)
	assert.Equal(t, 0.0, last.AverageRating)

	stored, err = teachers.FindOne(ctx, nil, teacherKey)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.TotalReviews)
	assert.Equal(t, 0.0, stored.AverageRating)
}

func TestStudentWithReviewsCannotBeDeleted(t *testing.T) {
	gw := startPostgres(t)
	ctx := context.Background()
	svc := service.NewTeacherReviewService(repository.NewTeacherReviewRepository(gw), nil, nil, zaptest.NewLogger(t))
	students := repository.NewTable[models.Student](gw, "students", "erp")
	teachers := repository.NewTable[models.Teacher](gw, "teachers", "teacher_id")

	review, err := svc.Create(ctx, student(21001), models.CreateTeacherReviewRequest{
		TeacherID: 1, SubjectCode: "CSE101", Learning: 4, Grading: 4, Attendance: 4, Difficulty: 4,
	})
	require.NoError(t, err)

	_, err = students.Delete(ctx, nil, database.Columns{{Name: "erp", Value: int64(21001)}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeForeignKeyViolation, appErr.Code)
	assert.Equal(t, 512, appErr.Status)

	var stored int64
	require.NoError(t, gw.Get(ctx, nil, &stored, "SELECT COUNT(*) FROM teacher_reviews WHERE teacher_id = $1", int64(1)))
	teacher, err := teachers.FindOne(ctx, nil, database.Columns{{Name: "teacher_id", Value: int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored)
	assert.Equal(t, stored, teacher.TotalReviews)

	// once the review goes through the aggregate path the student can be removed
	_, err = svc.Delete(ctx, student(21001), review.ReviewID, models.RatingSnapshot{})
	require.NoError(t, err)
	_, err = students.Delete(ctx, nil, database.Columns{{Name: "erp", Value: int64(21001)}})
	require.NoError(t, err)
}

func TestTimetableConflictsAgainstPostgres(t *testing.T) {
	gw := startPostgres(t)
	ctx := context.Background()
	svc := service.NewTimetableService(repository.NewTimetableRepository(gw), nil, nil, zaptest.NewLogger(t), service.TimetableConfig{})

	view, err := svc.AddClass(ctx, student(21001), 1, models.AddTimetableClassRequest{ClassNbr: "1001"})
	require.NoError(t, err)
	require.Len(t, view.Classes, 1)

	_, err = svc.AddClass(ctx, student(21001), 1, models.AddTimetableClassRequest{ClassNbr: "2001"})
	require.True(t, errors.Is(err, appErrors.ErrClassConflict))
	assert.Equal(t, []string{"1001"}, appErrors.FromError(err).Details)

	view, err = svc.AddClass(ctx, student(21001), 1, models.AddTimetableClassRequest{ClassNbr: "2002"})
	require.NoError(t, err)
	assert.Len(t, view.Classes, 2)

	generated, err := svc.Generate(ctx, models.GenerateTimetableRequest{TermID: "2261", Subjects: []string{"CSE101", "MTH101"}})
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, "2002", generated[0].Classes[1].ClassNbr)
}
