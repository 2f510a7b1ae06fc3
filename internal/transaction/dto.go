package transaction

import (
	"strings"
	"time"

	"github.com/wirasatya/business-management/internal"
)

type CreateTransactionDTO struct {
	Description     string    `json:"description"`
	AmountIDR       int64     `json:"amount_idr"`
	Type            string    `json:"type"`
	Category        string    `json:"category,omitempty"`
	ProjectID       string    `json:"project_id,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
}

func (d CreateTransactionDTO) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return internal.NewValidationError("description is required", internal.ErrCodeValidationFailed)
	}
	if d.AmountIDR <= 0 {
		return internal.NewValidationError("amount must be positive", internal.ErrCodeValidationFailed)
	}
	if d.Type != TypeIncome && d.Type != TypeExpense {
		return internal.NewValidationError("type must be income or expense", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateTransactionDTO struct {
	Description     *string    `json:"description,omitempty"`
	AmountIDR       *int64     `json:"amount_idr,omitempty"`
	Category        *string    `json:"category,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
}

func (d UpdateTransactionDTO) Validate() error {
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		return internal.NewValidationError("description cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.AmountIDR != nil && *d.AmountIDR <= 0 {
		return internal.NewValidationError("amount must be positive", internal.ErrCodeValidationFailed)
	}
	return nil
}

type TransactionListResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
