package transaction

import (
	"time"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single financial entry. Entries are personal records
// with no team: visibility outside the owner requires the finance
// permissions.
type Transaction struct {
	ID              string    `json:"id" gorm:"primaryKey;column:id"`
	Description     string    `json:"description" gorm:"column:description;not null"`
	AmountIDR       int64     `json:"amount_idr" gorm:"column:amount_idr;not null"`
	Type            string    `json:"type" gorm:"column:type;not null"`
	Category        string    `json:"category" gorm:"column:category"`
	ProjectID       string    `json:"project_id,omitempty" gorm:"column:project_id;index"`
	TransactionDate time.Time `json:"transaction_date" gorm:"column:transaction_date"`
	CreatedBy       string    `json:"created_by" gorm:"column:created_by;index;not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) OwnerID() string {
	return t.CreatedBy
}

func (t *Transaction) MemberIDs() []string {
	return nil
}
