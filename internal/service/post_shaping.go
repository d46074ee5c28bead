package service

import "github.com/noah-isme/campus-connect-api/internal/models"

// ShapePosts folds flat post × resource × top reaction rows into one view per
// post. Posts keep first-seen order; nested resources and reactions are
// de-duplicated by their own ids in first-seen order. The fold is pure, so
// shaping the same rows twice yields the same result.
func ShapePosts(rows []models.PostRow) []models.PostView {
	views := make([]models.PostView, 0)
	index := make(map[int64]int)
	seenResource := make(map[int64]map[int64]struct{})
	seenReaction := make(map[int64]map[int64]struct{})

	for _, row := range rows {
		i, ok := index[row.PostID]
		if !ok {
			i = len(views)
			index[row.PostID] = i
			views = append(views, models.PostView{
				PostID:         row.PostID,
				AuthorERP:      row.AuthorERP,
				AuthorName:     row.AuthorName,
				Body:           row.Body,
				Visibility:     row.Visibility,
				CreatedAt:      row.CreatedAt,
				ReactionsCount: row.ReactionsCount,
				Resources:      []models.PostResourceView{},
				TopReactions:   []models.TopReaction{},
			})
			seenResource[row.PostID] = make(map[int64]struct{})
			seenReaction[row.PostID] = make(map[int64]struct{})
		}
		view := &views[i]

		if row.ResourceID != nil {
			if _, dup := seenResource[row.PostID][*row.ResourceID]; !dup {
				seenResource[row.PostID][*row.ResourceID] = struct{}{}
				view.Resources = append(view.Resources, models.PostResourceView{
					ResourceID:   *row.ResourceID,
					ResourceType: deref(row.ResourceType),
					ResourceURL:  deref(row.ResourceURL),
				})
			}
		}
		if row.ReactionTypeID != nil {
			if _, dup := seenReaction[row.PostID][*row.ReactionTypeID]; !dup {
				seenReaction[row.PostID][*row.ReactionTypeID] = struct{}{}
				reaction := models.TopReaction{
					ReactionTypeID: *row.ReactionTypeID,
					Name:           deref(row.ReactionName),
					Emoji:          row.ReactionEmoji,
				}
				if row.ReactionCount != nil {
					reaction.Count = *row.ReactionCount
				}
				view.TopReactions = append(view.TopReactions, reaction)
			}
		}
	}
	return views
}

// ShapeTimetable folds timetable × class rows into one timetable view.
// Rows of other timetables than the first one seen are ignored.
func ShapeTimetable(rows []models.TimetableRow) *models.TimetableView {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]
	view := &models.TimetableView{
		TimetableID: first.TimetableID,
		StudentERP:  first.StudentERP,
		TermID:      first.TermID,
		Title:       first.Title,
		CreatedAt:   first.CreatedAt,
		Classes:     []models.TimetableClassView{},
	}
	seen := make(map[string]struct{})
	for _, row := range rows {
		if row.TimetableID != first.TimetableID || row.ClassNbr == nil {
			continue
		}
		if _, dup := seen[*row.ClassNbr]; dup {
			continue
		}
		seen[*row.ClassNbr] = struct{}{}
		view.Classes = append(view.Classes, models.TimetableClassView{
			ClassNbr:     *row.ClassNbr,
			SubjectCode:  deref(row.SubjectCode),
			SubjectTitle: deref(row.SubjectTitle),
			TeacherName:  row.TeacherName,
			Section:      row.Section,
			Classroom:    row.Classroom,
			Days:         deref(row.Days),
			StartTime:    deref(row.StartTime),
			EndTime:      deref(row.EndTime),
		})
	}
	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
