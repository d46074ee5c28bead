package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

func newGatewayMock(t *testing.T) (*database.Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewGateway(sqlx.NewDb(db, "sqlmock"), zap.NewNop(), false, nil), mock
}

const updateCampusQuery = "WITH matched AS (SELECT 1 FROM campuses WHERE campus_id = $1), " +
	"changed AS (UPDATE campuses SET name = $2 WHERE campus_id = $1 AND (name IS DISTINCT FROM $2) RETURNING 1) " +
	"SELECT (SELECT COUNT(*) FROM matched) AS matched_rows, (SELECT COUNT(*) FROM changed) AS changed_rows"

func TestTableDeclaredColumns(t *testing.T) {
	gw, _ := newGatewayMock(t)
	table := NewTable[models.Campus](gw, "campuses", "campus_id")
	assert.Equal(t, []string{"campus_id", "name", "location"}, table.Columns())
	assert.True(t, table.Has("location"))
	assert.False(t, table.Has("password"))
}

func TestTableUpdateThreeWayResult(t *testing.T) {
	cases := []struct {
		name    string
		matched int64
		changed int64
		code    string
	}{
		{"missing row", 0, 0, appErrors.CodeNotFound},
		{"identical values", 1, 0, appErrors.CodeUpdateFailed},
		{"changed", 1, 1, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, mock := newGatewayMock(t)
			table := NewTable[models.Campus](gw, "campuses", "campus_id")
			mock.ExpectQuery(regexp.QuoteMeta(updateCampusQuery)).
				WithArgs(int64(3), "North").
				WillReturnRows(sqlmock.NewRows([]string{"matched_rows", "changed_rows"}).AddRow(tc.matched, tc.changed))

			result, err := table.Update(context.Background(), nil,
				database.Columns{{Name: "name", Value: "North"}},
				database.Columns{{Name: "campus_id", Value: int64(3)}})
			if tc.code != "" {
				require.Error(t, err)
				assert.Equal(t, tc.code, appErrors.FromError(err).Code)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), result.MatchedRows)
				assert.Equal(t, int64(1), result.ChangedRows)
				assert.Equal(t, "Rows matched: 1  Changed: 1  Warnings: 0", result.Info)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTableUpdateRejectsUndeclaredColumns(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Campus](gw, "campuses", "campus_id")

	_, err := table.Update(context.Background(), nil,
		database.Columns{{Name: "name; DROP TABLE campuses", Value: "x"}},
		database.Columns{{Name: "campus_id", Value: int64(3)}})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeInvalidProperties, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableFindAll(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Campus](gw, "campuses", "campus_id")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT campus_id, name, location FROM campuses ORDER BY campus_id")).
		WillReturnRows(sqlmock.NewRows([]string{"campus_id", "name", "location"}).
			AddRow(1, "Main", "City").
			AddRow(2, "North", nil))

	rows, err := table.FindAll(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "North", rows[1].Name)
	assert.Nil(t, rows[1].Location)
}

func TestTableFindAllEmptyIsNotFound(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Campus](gw, "campuses", "campus_id")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT campus_id, name, location FROM campuses WHERE name = $1 ORDER BY campus_id")).
		WithArgs("Nowhere").
		WillReturnRows(sqlmock.NewRows([]string{"campus_id", "name", "location"}))

	_, err := table.FindAll(context.Background(), nil, database.Columns{{Name: "name", Value: "Nowhere"}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTableFindOneNotFound(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Hobby](gw, "hobbies", "hobby_id")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT hobby_id, name FROM hobbies WHERE hobby_id = $1 LIMIT 1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"hobby_id", "name"}))

	_, err := table.FindOne(context.Background(), nil, database.Columns{{Name: "hobby_id", Value: int64(9)}})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.FromError(err).Code)
	assert.Equal(t, "hobbies not found", appErrors.FromError(err).Message)
}

func TestTableCreateReturnsGeneratedKey(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Hobby](gw, "hobbies", "hobby_id")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO hobbies (name) VALUES ($1) RETURNING hobby_id")).
		WithArgs("chess").
		WillReturnRows(sqlmock.NewRows([]string{"hobby_id"}).AddRow(int64(12)))

	result, err := table.Create(context.Background(), nil, database.Columns{{Name: "name", Value: "chess"}})
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.GeneratedID)
	assert.Equal(t, int64(1), result.AffectedRows)
}

func TestTableCreateWithoutReturnedRowFails(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.StudentHobby](gw, "student_hobbies", "erp", "hobby_id")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO student_hobbies (erp, hobby_id) VALUES ($1, $2) RETURNING 1")).
		WithArgs(int64(21001), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	_, err := table.Create(context.Background(), nil, database.Columns{
		{Name: "erp", Value: int64(21001)},
		{Name: "hobby_id", Value: int64(4)},
	})
	assert.ErrorIs(t, err, appErrors.ErrCreateFailed)
}

func TestTableDelete(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Hobby](gw, "hobbies", "hobby_id")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM hobbies WHERE hobby_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	result, err := table.Delete(context.Background(), nil, database.Columns{{Name: "hobby_id", Value: int64(4)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.AffectedRows)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM hobbies WHERE hobby_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = table.Delete(context.Background(), nil, database.Columns{{Name: "hobby_id", Value: int64(5)}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = table.Delete(context.Background(), nil, nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidProperties)
}

func TestTableDeleteReferencedRowIsForeignKeyViolation(t *testing.T) {
	gw, mock := newGatewayMock(t)
	table := NewTable[models.Student](gw, "students", "erp")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE erp = $1")).
		WithArgs(int64(21001)).
		WillReturnError(&pq.Error{
			Code:    "23503",
			Message: "update or delete on table \"students\" violates foreign key constraint \"teacher_reviews_reviewed_by_erp_fkey\" on table \"teacher_reviews\"",
		})
	_, err := table.Delete(context.Background(), nil, database.Columns{{Name: "erp", Value: int64(21001)}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeForeignKeyViolation, appErr.Code)
	assert.Equal(t, 512, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableBagUsesDeclaredOrder(t *testing.T) {
	gw, _ := newGatewayMock(t)
	table := NewTable[models.Activity](gw, "activities", "activity_id")

	cols, err := table.Bag(map[string]interface{}{
		"title":            "Chess night",
		"max_participants": float64(12),
		"campus_id":        float64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, database.Columns{
		{Name: "campus_id", Value: int64(2)},
		{Name: "title", Value: "Chess night"},
		{Name: "max_participants", Value: int64(12)},
	}, cols)

	_, err = table.Bag(map[string]interface{}{"title": []interface{}{"x"}, "secret": 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeInvalidProperties, appErr.Code)
	assert.Len(t, appErr.Details, 2)
}

func TestTableCoerceAndValue(t *testing.T) {
	gw, _ := newGatewayMock(t)
	table := NewTable[models.Activity](gw, "activities", "activity_id")

	v, err := table.Coerce("activity_id", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = table.Coerce("activity_id", "abc")
	assert.ErrorIs(t, err, appErrors.ErrInvalidProperties)

	v, err = table.Coerce("title", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	owner, ok := table.Value(&models.Activity{OrganizerERP: 21001}, "organizer_erp")
	assert.True(t, ok)
	assert.Equal(t, int64(21001), owner)
}
