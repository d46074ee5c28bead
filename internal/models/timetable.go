package models

import "time"

// Timetable is a student's plan of classes for a term.
type Timetable struct {
	TimetableID int64     `db:"timetable_id" json:"timetable_id"`
	StudentERP  int64     `db:"student_erp" json:"student_erp"`
	TermID      string    `db:"term_id" json:"term_id"`
	Title       string    `db:"title" json:"title"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TimetableClass links a class to a timetable.
type TimetableClass struct {
	TimetableID int64  `db:"timetable_id" json:"timetable_id"`
	ClassNbr    string `db:"class_nbr" json:"class_nbr"`
}

// TimetableRow is one row of the timetable × class join.
type TimetableRow struct {
	TimetableID  int64     `db:"timetable_id"`
	StudentERP   int64     `db:"student_erp"`
	TermID       string    `db:"term_id"`
	Title        string    `db:"title"`
	CreatedAt    time.Time `db:"created_at"`
	ClassNbr     *string   `db:"class_nbr"`
	SubjectCode  *string   `db:"subject_code"`
	SubjectTitle *string   `db:"subject_title"`
	TeacherName  *string   `db:"teacher_name"`
	Section      *string   `db:"section"`
	Classroom    *string   `db:"classroom"`
	Days         *string   `db:"days"`
	StartTime    *string   `db:"start_time"`
	EndTime      *string   `db:"end_time"`
}

// TimetableClassView is a class nested in a shaped timetable.
type TimetableClassView struct {
	ClassNbr     string  `json:"class_nbr"`
	SubjectCode  string  `json:"subject_code"`
	SubjectTitle string  `json:"subject_title"`
	TeacherName  *string `json:"teacher_name"`
	Section      *string `json:"section"`
	Classroom    *string `json:"classroom"`
	Days         string  `json:"days"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
}

// TimetableView is a timetable with its classes.
type TimetableView struct {
	TimetableID int64                `json:"timetable_id"`
	StudentERP  int64                `json:"student_erp"`
	TermID      string               `json:"term_id"`
	Title       string               `json:"title"`
	CreatedAt   time.Time            `json:"created_at"`
	Classes     []TimetableClassView `json:"classes"`
}

// AddTimetableClassRequest adds a class to a timetable.
type AddTimetableClassRequest struct {
	ClassNbr string `json:"class_nbr" validate:"required,max=20"`
}

// GenerateTimetableRequest asks for conflict-free class combinations.
type GenerateTimetableRequest struct {
	TermID   string   `json:"term_id" validate:"required"`
	Subjects []string `json:"subjects" validate:"required,min=1,max=10,unique,dive,required"`
}

// GeneratedTimetable is one conflict-free combination.
type GeneratedTimetable struct {
	Classes []Class `json:"classes"`
}
