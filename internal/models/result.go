package models

// CreateResult is returned by repository inserts.
type CreateResult struct {
	GeneratedID  interface{} `json:"generated_id,omitempty"`
	AffectedRows int64       `json:"affected_rows"`
}

// UpdateResult distinguishes matched rows from rows whose values changed.
type UpdateResult struct {
	MatchedRows int64  `json:"matched_rows"`
	ChangedRows int64  `json:"changed_rows"`
	Info        string `json:"info"`
}

// DeleteResult is returned by repository deletes.
type DeleteResult struct {
	AffectedRows int64 `json:"affected_rows"`
}
