package postgres

import (
	"context"
	"errors"

	"github.com/wirasatya/business-management/internal/transaction"
	"gorm.io/gorm"
)

// TransactionRepository implements transaction.Repository using GORM.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	err := r.db.WithContext(ctx).Order("transaction_date DESC").Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&transaction.Transaction{}, "id = ?", id).Error
}
