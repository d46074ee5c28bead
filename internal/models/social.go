package models

import "time"

// FriendRequest is a pending friendship invitation.
type FriendRequest struct {
	FriendRequestID int64     `db:"friend_request_id" json:"friend_request_id"`
	SenderERP       int64     `db:"sender_erp" json:"sender_erp"`
	ReceiverERP     int64     `db:"receiver_erp" json:"receiver_erp"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Friend is one direction of an accepted friendship.
type Friend struct {
	ERP       int64     `db:"erp" json:"erp"`
	FriendERP int64     `db:"friend_erp" json:"friend_erp"`
	Since     time.Time `db:"since" json:"since"`
}

// HangoutRequest invites another student to meet up.
type HangoutRequest struct {
	HangoutRequestID int64     `db:"hangout_request_id" json:"hangout_request_id"`
	SenderERP        int64     `db:"sender_erp" json:"sender_erp"`
	ReceiverERP      int64     `db:"receiver_erp" json:"receiver_erp"`
	Purpose          string    `db:"purpose" json:"purpose"`
	MeetupLocation   *string   `db:"meetup_location" json:"meetup_location"`
	MeetupAt         time.Time `db:"meetup_at" json:"meetup_at"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
