package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/auth"
	"github.com/wirasatya/business-management/internal/rbac"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context) ([]*Transaction, error)
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo   Repository
	guard  *auth.Guard
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, guard *auth.Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateTransactionDTO) (*Transaction, error) {
	identity, err := s.guard.RequirePermission(ctx, rbac.PermFinanceCreate)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	date := dto.TransactionDate
	if date.IsZero() {
		date = now
	}
	txn := &Transaction{
		ID:              uuid.NewString(),
		Description:     dto.Description,
		AmountIDR:       dto.AmountIDR,
		Type:            dto.Type,
		Category:        dto.Category,
		ProjectID:       dto.ProjectID,
		TransactionDate: date,
		CreatedBy:       identity.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, internal.NewInternalError("failed to create transaction", err)
	}

	s.logger.Info("transaction created", "transaction_id", txn.ID, "user_id", identity.ID, "amount_idr", txn.AmountIDR)
	return txn, nil
}

// List narrows results with the finance view permission: members see only
// their own entries while managers and admins see everyone's.
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	identity, err := s.guard.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list transactions", err)
	}

	return auth.FilterAccessible(identity, transactions, rbac.PermFinanceView), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	txn, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.RequireOwnershipOrPermission(ctx, txn.CreatedBy, rbac.PermFinanceView); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateTransactionDTO) (*Transaction, error) {
	txn, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, err := s.guard.RequireOwnershipOrPermission(ctx, txn.CreatedBy, rbac.PermFinanceEdit)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Description != nil {
		txn.Description = *dto.Description
	}
	if dto.AmountIDR != nil {
		txn.AmountIDR = *dto.AmountIDR
	}
	if dto.Category != nil {
		txn.Category = *dto.Category
	}
	if dto.TransactionDate != nil {
		txn.TransactionDate = *dto.TransactionDate
	}
	txn.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, internal.NewInternalError("failed to update transaction", err)
	}

	s.logger.Info("transaction updated", "transaction_id", txn.ID, "user_id", identity.ID)
	return txn, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	identity, err := s.guard.RequirePermission(ctx, rbac.PermFinanceDelete)
	if err != nil {
		return err
	}

	txn, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, txn.ID); err != nil {
		return internal.NewInternalError("failed to delete transaction", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", txn.ID, "user_id", identity.ID)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up transaction", err)
	}
	if txn == nil {
		return nil, internal.ErrTransactionNotFound
	}
	return txn, nil
}
