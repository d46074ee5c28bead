package repository

import (
	"context"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
)

// AccountRepository reads login accounts.
type AccountRepository struct {
	accounts *Table[models.Account]
}

// NewAccountRepository constructs the repository.
func NewAccountRepository(gw *database.Gateway) *AccountRepository {
	return &AccountRepository{accounts: NewTable[models.Account](gw, "accounts", "account_id")}
}

// FindByEmail looks up an account by its lower-cased email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.accounts.FindOne(ctx, nil, database.Columns{{Name: "email", Value: email}})
}
