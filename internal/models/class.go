package models

// Class is a scheduled section of a subject in a term.
type Class struct {
	ClassNbr    string  `db:"class_nbr" json:"class_nbr"`
	TermID      string  `db:"term_id" json:"term_id"`
	SubjectCode string  `db:"subject_code" json:"subject_code"`
	TeacherID   *int64  `db:"teacher_id" json:"teacher_id"`
	Section     *string `db:"section" json:"section"`
	Classroom   *string `db:"classroom" json:"classroom"`
	Days        string  `db:"days" json:"days"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     string  `db:"end_time" json:"end_time"`
}
