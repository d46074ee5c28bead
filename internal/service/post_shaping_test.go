package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-connect-api/internal/models"
)

func i64(v int64) *int64    { return &v }
func str(v string) *string { return &v }

func feedRow(postID, resourceID, reactionID int64) models.PostRow {
	row := models.PostRow{
		PostID:         postID,
		AuthorERP:      21001,
		AuthorName:     "Ayesha Khan",
		Body:           "post body",
		Visibility:     "PUBLIC",
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ReactionsCount: 5,
	}
	if resourceID != 0 {
		row.ResourceID = i64(resourceID)
		row.ResourceType = str("IMAGE")
		row.ResourceURL = str("https://cdn.example.com/r.png")
	}
	if reactionID != 0 {
		row.ReactionTypeID = i64(reactionID)
		row.ReactionName = str("like")
		row.ReactionCount = i64(reactionID)
	}
	return row
}

func TestShapePostsCollapsesJoinRows(t *testing.T) {
	rows := []models.PostRow{
		feedRow(9, 100, 1),
		feedRow(9, 100, 2),
		feedRow(9, 101, 1),
		feedRow(9, 101, 2),
		feedRow(4, 0, 3),
		feedRow(7, 0, 0),
	}

	views := ShapePosts(rows)
	require.Len(t, views, 3)
	assert.Equal(t, []int64{9, 4, 7}, []int64{views[0].PostID, views[1].PostID, views[2].PostID})

	require.Len(t, views[0].Resources, 2)
	assert.Equal(t, int64(100), views[0].Resources[0].ResourceID)
	assert.Equal(t, int64(101), views[0].Resources[1].ResourceID)
	require.Len(t, views[0].TopReactions, 2)
	assert.Equal(t, int64(1), views[0].TopReactions[0].ReactionTypeID)
	assert.Equal(t, int64(2), views[0].TopReactions[1].ReactionTypeID)

	assert.Empty(t, views[1].Resources)
	assert.Len(t, views[1].TopReactions, 1)
	assert.NotNil(t, views[2].Resources)
	assert.Empty(t, views[2].TopReactions)
}

func TestShapePostsIsIdempotent(t *testing.T) {
	rows := []models.PostRow{
		feedRow(3, 10, 1),
		feedRow(3, 11, 1),
		feedRow(2, 12, 2),
		feedRow(3, 10, 2),
	}
	first := ShapePosts(rows)
	second := ShapePosts(rows)
	assert.Equal(t, first, second)

	// duplicated input rows never duplicate nested entries
	doubled := ShapePosts(append(append([]models.PostRow{}, rows...), rows...))
	assert.Equal(t, first, doubled)
}

func TestShapePostsEmpty(t *testing.T) {
	views := ShapePosts(nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestShapeTimetable(t *testing.T) {
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	base := models.TimetableRow{TimetableID: 5, StudentERP: 21001, TermID: "2261", Title: "Spring", CreatedAt: created}

	withClass := func(nbr, days string) models.TimetableRow {
		r := base
		r.ClassNbr = str(nbr)
		r.SubjectCode = str("CSE" + nbr)
		r.Days = str(days)
		r.StartTime = str("09:00")
		r.EndTime = str("10:15")
		return r
	}

	view := ShapeTimetable([]models.TimetableRow{withClass("1001", "MON,WED"), withClass("1002", "TUE"), withClass("1001", "MON,WED")})
	require.NotNil(t, view)
	assert.Equal(t, int64(5), view.TimetableID)
	require.Len(t, view.Classes, 2)
	assert.Equal(t, "1002", view.Classes[1].ClassNbr)

	empty := ShapeTimetable([]models.TimetableRow{base})
	require.NotNil(t, empty)
	assert.Empty(t, empty.Classes)
	assert.Nil(t, ShapeTimetable(nil))
}
