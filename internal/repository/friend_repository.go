package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

const lockFriendRequestQuery = `SELECT friend_request_id, sender_erp, receiver_erp, created_at
FROM friend_requests
WHERE friend_request_id = $1
FOR UPDATE`

// Both directions go in one statement; an existing friendship is kept as is.
const insertFriendshipQuery = `INSERT INTO friends (erp, friend_erp)
VALUES ($1, $2), ($2, $1)
ON CONFLICT (erp, friend_erp) DO NOTHING`

// FriendRepository turns friend requests into friendships.
type FriendRepository struct {
	gw       *database.Gateway
	requests *Table[models.FriendRequest]
}

// NewFriendRepository constructs the repository.
func NewFriendRepository(gw *database.Gateway) *FriendRepository {
	return &FriendRepository{gw: gw, requests: NewTable[models.FriendRequest](gw, "friend_requests", "friend_request_id")}
}

// WithTx runs fn in a transaction on the underlying gateway.
func (r *FriendRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.gw.WithTx(ctx, fn)
}

// LockRequest loads a pending request and holds it until the transaction ends.
func (r *FriendRepository) LockRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.gw.Get(ctx, tx, &req, lockFriendRequestQuery, requestID); err != nil {
		if appErrors.FromError(err).Code == appErrors.CodeNotFound {
			return nil, appErrors.Wrap(err, appErrors.CodeNotFound, appErrors.ErrNotFound.Status, "friend request not found")
		}
		return nil, err
	}
	return &req, nil
}

// Befriend records the friendship in both directions.
func (r *FriendRepository) Befriend(ctx context.Context, tx *sqlx.Tx, erp, friendERP int64) error {
	_, err := r.gw.Exec(ctx, tx, insertFriendshipQuery, erp, friendERP)
	return err
}

// DeleteRequest removes an answered request.
func (r *FriendRepository) DeleteRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) error {
	_, err := r.requests.Delete(ctx, tx, database.Columns{{Name: "friend_request_id", Value: requestID}})
	return err
}
