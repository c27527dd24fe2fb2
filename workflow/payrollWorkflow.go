package workflow

import (
	"context"
	"fmt"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayWorkerInput struct {
	WorkerId    int                `json:"worker_id" binding:"required"`
	ProjectId   int                `json:"project_id" binding:"required"`
	Amount      decimal.Decimal    `json:"amount"`
	PaymentType models.PaymentType `json:"payment_type" binding:"required"`
	Description string             `json:"description"`
	Reference   string             `json:"reference"`
}

// PayWorker appends one expense to the ledger under the reserved
// worker-salary / worker-advance category. It shares the ledger entry point
// with user-initiated transaction creation.
func PayWorker(ctx context.Context, p models.Principal, input PayWorkerInput) (*models.Transaction, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	projectId := input.ProjectId
	if err := models.Authorize(p, scope, models.ActionWrite, &projectId); err != nil {
		return nil, err
	}
	if !input.PaymentType.Valid() {
		return nil, utils.NewInvalidInput("invalid payment type %q", input.PaymentType)
	}
	if !input.Amount.IsPositive() {
		return nil, utils.NewInvalidInput("amount must be greater than zero")
	}
	if err := utils.ValidateResourceId[models.Project](ctx, input.ProjectId); err != nil {
		return nil, utils.NewNotFound("project %d not found", input.ProjectId)
	}
	worker, err := fetchWorkerCached(ctx, input.WorkerId)
	if err != nil {
		return nil, utils.NewNotFound("worker %d not found", input.WorkerId)
	}

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("%s payment for %s", input.PaymentType, worker.Name)
	}

	var txn *models.Transaction
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireProjectPostingLock(tx, input.ProjectId); err != nil {
			return err
		}
		defer ReleaseProjectPostingLock(tx, input.ProjectId)

		workerId := worker.ID
		txn, err = models.RecordTransaction(tx, models.NewTransaction{
			ProjectId:   input.ProjectId,
			Type:        models.TransactionTypeExpense,
			Category:    input.PaymentType.Category(),
			Amount:      input.Amount,
			Description: description,
			Reference:   input.Reference,
			WorkerId:    &workerId,
		}, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}
