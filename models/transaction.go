package models

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is append-only: financial fields (type, amount, category,
// project_id) are fixed once created; only descriptive fields may be edited.
// Transactions are the sole source of truth for project balances and worker
// payment totals.
type Transaction struct {
	ID              int               `gorm:"primary_key" json:"id"`
	ProjectId       int               `gorm:"index;not null" json:"project_id" binding:"required"`
	Type            TransactionType   `gorm:"type:enum('income','expense');not null" json:"type"`
	Category        string            `gorm:"size:128;not null" json:"category" binding:"required"`
	Amount          decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description     string            `gorm:"type:text" json:"description"`
	Reference       string            `gorm:"size:255" json:"reference"`
	AttachmentUrl   string            `gorm:"size:1024" json:"attachment_url"`
	WorkerId        *int              `gorm:"index" json:"worker_id"`
	MaterialId      *int              `gorm:"index" json:"material_id"`
	CreatedBy       int               `gorm:"not null" json:"created_by"`
	TransactionDate time.Time         `gorm:"index;not null" json:"transaction_date"`
	Status          TransactionStatus `gorm:"type:enum('pending','completed','cancelled');not null;default:'completed'" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTransaction struct {
	ProjectId       int               `json:"project_id" binding:"required"`
	Type            TransactionType   `json:"type" binding:"required"`
	Category        string            `json:"category" binding:"required"`
	Amount          decimal.Decimal   `json:"amount"`
	Description     string            `json:"description"`
	Reference       string            `json:"reference"`
	AttachmentUrl   string            `json:"attachment_url"`
	WorkerId        *int              `json:"worker_id"`
	MaterialId      *int              `json:"material_id"`
	TransactionDate *time.Time        `json:"transaction_date"`
	Status          TransactionStatus `json:"status"`
}

// UpdateTransactionInput is restricted to descriptive fields. Financial
// fields (amount, type, category, project, date) are immutable after
// creation.
type UpdateTransactionInput struct {
	Description   *string `json:"description"`
	Reference     *string `json:"reference"`
	AttachmentUrl *string `json:"attachment_url"`
	// Status is editable alongside the descriptive fields: aggregation
	// ignores it, so changing it never moves a balance.
	Status *TransactionStatus `json:"status"`
}

func (input *NewTransaction) Validate(ctx context.Context) error {
	if !input.Type.Valid() {
		return utils.NewInvalidInput("invalid transaction type %q", input.Type)
	}
	if !input.Amount.IsPositive() {
		return utils.NewInvalidInput("amount must be greater than zero")
	}
	if input.Status != "" && !input.Status.Valid() {
		return utils.NewInvalidInput("invalid transaction status %q", input.Status)
	}
	if err := utils.ValidateResourceId[Project](ctx, input.ProjectId); err != nil {
		return utils.NewNotFound("project %d not found", input.ProjectId)
	}
	return nil
}

func (input *UpdateTransactionInput) Validate(_ context.Context) error {
	if input.Status != nil && !input.Status.Valid() {
		return utils.NewInvalidInput("invalid transaction status %q", *input.Status)
	}
	return nil
}

func (input *UpdateTransactionInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Reference != nil {
		changes["reference"] = *input.Reference
	}
	if input.AttachmentUrl != nil {
		changes["attachment_url"] = *input.AttachmentUrl
	}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	return changes
}

// RecordTransaction is the single ledger entry point. Both user-initiated
// creation and side-effect creation (material receive, worker payment) go
// through here; there is no second path that appends ledger rows.
func RecordTransaction(tx *gorm.DB, input NewTransaction, createdBy int) (*Transaction, error) {
	if !input.Type.Valid() {
		return nil, utils.NewInvalidInput("invalid transaction type %q", input.Type)
	}
	if !input.Amount.IsPositive() {
		return nil, utils.NewInvalidInput("amount must be greater than zero")
	}
	status := input.Status
	if status == "" {
		status = TransactionStatusCompleted
	}
	date := time.Now()
	if input.TransactionDate != nil {
		date = *input.TransactionDate
	}
	txn := Transaction{
		ProjectId:       input.ProjectId,
		Type:            input.Type,
		Category:        input.Category,
		Amount:          input.Amount,
		Description:     input.Description,
		Reference:       input.Reference,
		AttachmentUrl:   input.AttachmentUrl,
		WorkerId:        input.WorkerId,
		MaterialId:      input.MaterialId,
		CreatedBy:       createdBy,
		TransactionDate: date,
		Status:          status,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

type ProjectTransactionSummary struct {
	ProjectId int             `json:"project_id"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Balance   decimal.Decimal `json:"balance"`
}

type WorkerPaymentSummary struct {
	WorkerId     int             `json:"worker_id"`
	TotalSalary  decimal.Decimal `json:"total_salary"`
	TotalAdvance decimal.Decimal `json:"total_advance"`
}

// AggregateProjectSummaries groups transactions by (project, type) and sums
// amounts. Pure and order-independent; projects with no transactions yield
// zero rows, not absence.
func AggregateProjectSummaries(projectIds []int, txns []*Transaction) []*ProjectTransactionSummary {
	byProject := make(map[int]*ProjectTransactionSummary, len(projectIds))
	out := make([]*ProjectTransactionSummary, 0, len(projectIds))
	for _, id := range projectIds {
		s := &ProjectTransactionSummary{
			ProjectId: id,
			Income:    decimal.Zero,
			Expense:   decimal.Zero,
			Balance:   decimal.Zero,
		}
		byProject[id] = s
		out = append(out, s)
	}
	for _, t := range txns {
		s, ok := byProject[t.ProjectId]
		if !ok {
			continue
		}
		switch t.Type {
		case TransactionTypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case TransactionTypeExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	for _, s := range out {
		s.Balance = s.Income.Sub(s.Expense)
	}
	return out
}

// AggregateWorkerPayments sums transactions carrying the worker's id over the
// reserved salary/advance categories. Both totals default to zero.
func AggregateWorkerPayments(workerId int, txns []*Transaction) *WorkerPaymentSummary {
	summary := &WorkerPaymentSummary{
		WorkerId:     workerId,
		TotalSalary:  decimal.Zero,
		TotalAdvance: decimal.Zero,
	}
	for _, t := range txns {
		if t.WorkerId == nil || *t.WorkerId != workerId {
			continue
		}
		switch t.Category {
		case CategoryWorkerSalary:
			summary.TotalSalary = summary.TotalSalary.Add(t.Amount)
		case CategoryWorkerAdvance:
			summary.TotalAdvance = summary.TotalAdvance.Add(t.Amount)
		}
	}
	return summary
}
