package models

import "time"

// Activity is a student-organized event.
type Activity struct {
	ActivityID      int64      `db:"activity_id" json:"activity_id"`
	OrganizerERP    int64      `db:"organizer_erp" json:"organizer_erp"`
	CampusID        *int64     `db:"campus_id" json:"campus_id"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description"`
	Location        *string    `db:"location" json:"location"`
	StartsAt        time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt          *time.Time `db:"ends_at" json:"ends_at"`
	MaxParticipants *int64     `db:"max_participants" json:"max_participants"`
	Visibility      string     `db:"visibility" json:"visibility"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ActivityAttendee records a student joining an activity.
type ActivityAttendee struct {
	ActivityID int64     `db:"activity_id" json:"activity_id"`
	StudentERP int64     `db:"student_erp" json:"student_erp"`
	JoinedAt   time.Time `db:"joined_at" json:"joined_at"`
}
