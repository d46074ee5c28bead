package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

type friendStore interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	LockRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) (*models.FriendRequest, error)
	Befriend(ctx context.Context, tx *sqlx.Tx, erp, friendERP int64) error
	DeleteRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) error
}

// FriendRequestService accepts friend requests.
type FriendRequestService struct {
	store  friendStore
	logger *zap.Logger
}

// NewFriendRequestService constructs the service.
func NewFriendRequestService(store friendStore, logger *zap.Logger) *FriendRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FriendRequestService{store: store, logger: logger}
}

// Accept makes sender and receiver friends and consumes the request. Only the
// receiver (or an admin) may accept.
func (s *FriendRequestService) Accept(ctx context.Context, claims *models.JWTClaims, requestID int64) (*models.Friend, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	var accepted *models.FriendRequest
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		req, err := s.store.LockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if !claims.IsAdmin() && claims.ERP != req.ReceiverERP {
			return appErrors.Clone(appErrors.ErrForbidden, "only the receiver can accept a friend request")
		}
		if err := s.store.Befriend(ctx, tx, req.ReceiverERP, req.SenderERP); err != nil {
			return err
		}
		if err := s.store.DeleteRequest(ctx, tx, requestID); err != nil {
			return err
		}
		accepted = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("friend request accepted",
		zap.Int64("friend_request_id", requestID),
		zap.Int64("sender_erp", accepted.SenderERP),
		zap.Int64("receiver_erp", accepted.ReceiverERP),
	)
	return &models.Friend{ERP: accepted.ReceiverERP, FriendERP: accepted.SenderERP}, nil
}
