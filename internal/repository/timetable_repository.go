package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

const timetableViewQuery = `SELECT t.timetable_id, t.student_erp, t.term_id, t.title, t.created_at,
       c.class_nbr, c.subject_code, s.title AS subject_title, te.full_name AS teacher_name,
       c.section, c.classroom, c.days, c.start_time, c.end_time
FROM timetables t
LEFT JOIN timetable_classes tc ON tc.timetable_id = t.timetable_id
LEFT JOIN classes c ON c.class_nbr = tc.class_nbr
LEFT JOIN subjects s ON s.subject_code = c.subject_code
LEFT JOIN teachers te ON te.teacher_id = c.teacher_id
WHERE t.timetable_id = $1
ORDER BY c.start_time, c.class_nbr`

const timetableClassesQuery = `SELECT c.class_nbr, c.term_id, c.subject_code, c.teacher_id, c.section, c.classroom, c.days, c.start_time, c.end_time
FROM timetable_classes tc
JOIN classes c ON c.class_nbr = tc.class_nbr
WHERE tc.timetable_id = $1
ORDER BY c.class_nbr`

const lockTimetableQuery = `SELECT timetable_id, student_erp, term_id, title, created_at
FROM timetables
WHERE timetable_id = $1
FOR UPDATE`

const sectionsQuery = `SELECT class_nbr, term_id, subject_code, teacher_id, section, classroom, days, start_time, end_time
FROM classes
WHERE term_id = $1 AND subject_code = ANY($2)
ORDER BY subject_code, class_nbr`

// TimetableRepository manages timetables and their classes.
type TimetableRepository struct {
	gw      *database.Gateway
	classes *Table[models.Class]
	links   *Table[models.TimetableClass]
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(gw *database.Gateway) *TimetableRepository {
	return &TimetableRepository{
		gw:      gw,
		classes: NewTable[models.Class](gw, "classes", "class_nbr"),
		links:   NewTable[models.TimetableClass](gw, "timetable_classes", "timetable_id", "class_nbr"),
	}
}

// WithTx runs fn in a transaction on the underlying gateway.
func (r *TimetableRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.gw.WithTx(ctx, fn)
}

// ViewRows returns the timetable joined with its classes. A timetable without
// classes yields one row with empty class columns.
func (r *TimetableRepository) ViewRows(ctx context.Context, timetableID int64) ([]models.TimetableRow, error) {
	var rows []models.TimetableRow
	if err := r.gw.Select(ctx, nil, &rows, timetableViewQuery, timetableID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return rows, nil
}

// Lock reads the timetable and holds it for the rest of the transaction so
// concurrent class additions are checked one at a time.
func (r *TimetableRepository) Lock(ctx context.Context, tx *sqlx.Tx, timetableID int64) (*models.Timetable, error) {
	var t models.Timetable
	if err := r.gw.Get(ctx, tx, &t, lockTimetableQuery, timetableID); err != nil {
		if appErrors.FromError(err).Code == appErrors.CodeNotFound {
			return nil, appErrors.Wrap(err, appErrors.CodeNotFound, appErrors.ErrNotFound.Status, "timetable not found")
		}
		return nil, err
	}
	return &t, nil
}

// Classes lists the classes currently in a timetable.
func (r *TimetableRepository) Classes(ctx context.Context, exec sqlx.ExtContext, timetableID int64) ([]models.Class, error) {
	var classes []models.Class
	if err := r.gw.Select(ctx, exec, &classes, timetableClassesQuery, timetableID); err != nil {
		return nil, err
	}
	return classes, nil
}

// FindClass loads one class by number.
func (r *TimetableRepository) FindClass(ctx context.Context, exec sqlx.ExtContext, classNbr string) (*models.Class, error) {
	return r.classes.FindOne(ctx, exec, database.Columns{{Name: "class_nbr", Value: classNbr}})
}

// AddClass links a class to a timetable.
func (r *TimetableRepository) AddClass(ctx context.Context, tx *sqlx.Tx, timetableID int64, classNbr string) error {
	_, err := r.links.Create(ctx, tx, database.Columns{
		{Name: "timetable_id", Value: timetableID},
		{Name: "class_nbr", Value: classNbr},
	})
	return err
}

// RemoveClass unlinks a class from a timetable.
func (r *TimetableRepository) RemoveClass(ctx context.Context, tx *sqlx.Tx, timetableID int64, classNbr string) error {
	_, err := r.links.Delete(ctx, tx, database.Columns{
		{Name: "timetable_id", Value: timetableID},
		{Name: "class_nbr", Value: classNbr},
	})
	return err
}

// Sections lists every class of the given subjects in a term.
func (r *TimetableRepository) Sections(ctx context.Context, termID string, subjects []string) ([]models.Class, error) {
	var classes []models.Class
	if err := r.gw.Select(ctx, nil, &classes, sectionsQuery, termID, pq.Array(subjects)); err != nil {
		return nil, err
	}
	return classes, nil
}
