package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
	"github.com/noah-isme/campus-connect-api/pkg/export"
)

type timetableStore interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	ViewRows(ctx context.Context, timetableID int64) ([]models.TimetableRow, error)
	Lock(ctx context.Context, tx *sqlx.Tx, timetableID int64) (*models.Timetable, error)
	Classes(ctx context.Context, exec sqlx.ExtContext, timetableID int64) ([]models.Class, error)
	FindClass(ctx context.Context, exec sqlx.ExtContext, classNbr string) (*models.Class, error)
	AddClass(ctx context.Context, tx *sqlx.Tx, timetableID int64, classNbr string) error
	RemoveClass(ctx context.Context, tx *sqlx.Tx, timetableID int64, classNbr string) error
	Sections(ctx context.Context, termID string, subjects []string) ([]models.Class, error)
}

// TimetableConfig bounds timetable generation.
type TimetableConfig struct {
	MaxGenerated int
}

// TimetableService manages the classes of student timetables.
type TimetableService struct {
	store     timetableStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    TimetableConfig
}

// NewTimetableService constructs the service.
func NewTimetableService(store timetableStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxGenerated <= 0 {
		cfg.MaxGenerated = 50
	}
	return &TimetableService{store: store, validator: validate, metrics: metrics, logger: logger, config: cfg}
}

func ownsTimetable(claims *models.JWTClaims, studentERP int64) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.IsAdmin() || claims.ERP == studentERP {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "timetable belongs to another student")
}

// Get returns a timetable with its classes.
func (s *TimetableService) Get(ctx context.Context, claims *models.JWTClaims, timetableID int64) (*models.TimetableView, error) {
	rows, err := s.store.ViewRows(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	view := ShapeTimetable(rows)
	if err := ownsTimetable(claims, view.StudentERP); err != nil {
		return nil, err
	}
	return view, nil
}

// AddClass adds a class after checking it fits the timetable. Clashing classes
// are reported in the error data.
func (s *TimetableService) AddClass(ctx context.Context, claims *models.JWTClaims, timetableID int64, req models.AddTimetableClassRequest) (*models.TimetableView, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		timetable, err := s.store.Lock(ctx, tx, timetableID)
		if err != nil {
			return err
		}
		if err := ownsTimetable(claims, timetable.StudentERP); err != nil {
			return err
		}
		class, err := s.store.FindClass(ctx, tx, req.ClassNbr)
		if err != nil {
			return err
		}
		if class.TermID != timetable.TermID {
			return appErrors.Invalid(appErrors.FieldError{
				Param: "class_nbr",
				Msg:   fmt.Sprintf("class is offered in term %s, timetable is for term %s", class.TermID, timetable.TermID),
			})
		}
		current, err := s.store.Classes(ctx, tx, timetableID)
		if err != nil {
			return err
		}
		for _, c := range current {
			if c.ClassNbr == class.ClassNbr {
				return appErrors.Clone(appErrors.ErrDuplicateEntry, "class is already in the timetable")
			}
		}
		conflicts, err := conflictsWith(*class, current)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrUnexpected.Code, appErrors.ErrUnexpected.Status, "stored class schedule is malformed")
		}
		if len(conflicts) > 0 {
			return appErrors.WithDetails(appErrors.ErrClassConflict,
				fmt.Sprintf("class %s conflicts with %s", class.ClassNbr, strings.Join(conflicts, ", ")),
				conflicts)
		}
		return s.store.AddClass(ctx, tx, timetableID, class.ClassNbr)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, claims, timetableID)
}

// RemoveClass removes a class from a timetable.
func (s *TimetableService) RemoveClass(ctx context.Context, claims *models.JWTClaims, timetableID int64, classNbr string) error {
	return s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		timetable, err := s.store.Lock(ctx, tx, timetableID)
		if err != nil {
			return err
		}
		if err := ownsTimetable(claims, timetable.StudentERP); err != nil {
			return err
		}
		return s.store.RemoveClass(ctx, tx, timetableID, classNbr)
	})
}

// Generate enumerates conflict-free timetables taking one class per subject.
func (s *TimetableService) Generate(ctx context.Context, req models.GenerateTimetableRequest) ([]models.GeneratedTimetable, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	classes, err := s.store.Sections(ctx, req.TermID, req.Subjects)
	if err != nil {
		return nil, err
	}
	sections := make(map[string][]models.Class, len(req.Subjects))
	for _, c := range classes {
		sections[c.SubjectCode] = append(sections[c.SubjectCode], c)
	}
	var missing []string
	for _, subject := range req.Subjects {
		if len(sections[subject]) == 0 {
			missing = append(missing, subject)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrNotFound,
			fmt.Sprintf("no classes offered in term %s for %s", req.TermID, strings.Join(missing, ", ")),
			missing)
	}

	results, err := generateTimetables(sections, s.config.MaxGenerated)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnexpected.Code, appErrors.ErrUnexpected.Status, "stored class schedule is malformed")
	}
	s.metrics.ObserveGenerated(len(results))
	s.logger.Debug("timetables generated", zap.String("term_id", req.TermID), zap.Int("results", len(results)))
	return results, nil
}

// Export renders a timetable in the requested format.
func (s *TimetableService) Export(ctx context.Context, claims *models.JWTClaims, timetableID int64, format export.Format) ([]byte, string, error) {
	view, err := s.Get(ctx, claims, timetableID)
	if err != nil {
		return nil, "", err
	}
	sheet := export.Sheet{
		Title:    view.Title,
		Subtitle: fmt.Sprintf("Term %s, student %d", view.TermID, view.StudentERP),
		Headers:  []string{"Class", "Subject", "Title", "Teacher", "Section", "Room", "Days", "Start", "End"},
		Widths:   []float64{1, 1.2, 3, 2.2, 0.8, 1, 1.2, 0.8, 0.8},
	}
	for _, c := range view.Classes {
		sheet.Rows = append(sheet.Rows, []string{
			c.ClassNbr, c.SubjectCode, c.SubjectTitle, deref(c.TeacherName),
			deref(c.Section), deref(c.Classroom), c.Days, c.StartTime, c.EndTime,
		})
	}
	out, err := export.Render(format, sheet)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnknown.Code, appErrors.ErrUnknown.Status, "failed to render timetable export")
	}
	filename := fmt.Sprintf("timetable-%d.%s", view.TimetableID, format)
	return out, filename, nil
}
