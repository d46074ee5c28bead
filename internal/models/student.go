package models

import "time"

// Student is a platform member keyed by ERP.
type Student struct {
	ERP               int64      `db:"erp" json:"erp"`
	FirstName         string     `db:"first_name" json:"first_name"`
	LastName          string     `db:"last_name" json:"last_name"`
	Email             string     `db:"email" json:"email"`
	Gender            *string    `db:"gender" json:"gender"`
	ContactNumber     *string    `db:"contact_number" json:"contact_number"`
	Birthday          *time.Time `db:"birthday" json:"birthday"`
	ProfilePictureURL *string    `db:"profile_picture_url" json:"profile_picture_url"`
	GraduationYear    *int64     `db:"graduation_year" json:"graduation_year"`
	Bio               *string    `db:"bio" json:"bio"`
	ProgramID         *int64     `db:"program_id" json:"program_id"`
	CampusID          *int64     `db:"campus_id" json:"campus_id"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// StudentHobby links a student to a hobby.
type StudentHobby struct {
	ERP     int64 `db:"erp" json:"erp"`
	HobbyID int64 `db:"hobby_id" json:"hobby_id"`
}
