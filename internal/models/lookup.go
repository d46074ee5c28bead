package models

// Campus is a physical campus.
type Campus struct {
	CampusID int64   `db:"campus_id" json:"campus_id"`
	Name     string  `db:"name" json:"name"`
	Location *string `db:"location" json:"location"`
}

// Program is a degree program.
type Program struct {
	ProgramID    int64  `db:"program_id" json:"program_id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
}

// Hobby is a selectable student interest.
type Hobby struct {
	HobbyID int64  `db:"hobby_id" json:"hobby_id"`
	Name    string `db:"name" json:"name"`
}

// ReactionType is a post reaction kind.
type ReactionType struct {
	ReactionTypeID int64   `db:"reaction_type_id" json:"reaction_type_id"`
	Name           string  `db:"name" json:"name"`
	Emoji          *string `db:"emoji" json:"emoji"`
}
