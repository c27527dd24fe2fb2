package workflow

import (
	"context"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"gorm.io/gorm"
)

func CreateTransaction(ctx context.Context, p models.Principal, input models.NewTransaction) (*models.Transaction, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	projectId := input.ProjectId
	if err := models.Authorize(p, scope, models.ActionWrite, &projectId); err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}
	if input.WorkerId != nil {
		if err := utils.ValidateResourceId[models.Worker](utils.WithoutProjectScope(ctx), *input.WorkerId); err != nil {
			return nil, utils.NewNotFound("worker %d not found", *input.WorkerId)
		}
	}
	if input.MaterialId != nil {
		if err := utils.ValidateResourceId[models.Material](utils.WithoutProjectScope(ctx), *input.MaterialId); err != nil {
			return nil, utils.NewNotFound("material %d not found", *input.MaterialId)
		}
	}

	var txn *models.Transaction
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireProjectPostingLock(tx, input.ProjectId); err != nil {
			return err
		}
		defer ReleaseProjectPostingLock(tx, input.ProjectId)

		txn, err = models.RecordTransaction(tx, input, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateTransaction amends descriptive fields only. Financial fields are
// append-only and never change after creation.
func UpdateTransaction(ctx context.Context, p models.Principal, transactionId int, input models.UpdateTransactionInput) (*models.Transaction, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	txn, err := utils.FetchModel[models.Transaction](utils.WithoutProjectScope(ctx), transactionId)
	if err != nil {
		return nil, utils.NewNotFound("transaction %d not found", transactionId)
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &txn.ProjectId); err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}
	changes := input.Changes()
	if len(changes) == 0 {
		return txn, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(txn).Updates(changes).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction is an explicit, separately authorized operation; the
// lifecycle engine itself never removes ledger rows.
func DeleteTransaction(ctx context.Context, p models.Principal, transactionId int) error {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return err
	}
	txn, err := utils.FetchModel[models.Transaction](utils.WithoutProjectScope(ctx), transactionId)
	if err != nil {
		return utils.NewNotFound("transaction %d not found", transactionId)
	}
	if err := models.Authorize(p, scope, models.ActionDeleteTransaction, &txn.ProjectId); err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(txn).Error
}

// ProjectTransactionSummaries computes income/expense/balance per project.
// With no ids given it covers the principal's whole scope. Projects without
// transactions yield zero rows, not absence.
func ProjectTransactionSummaries(ctx context.Context, p models.Principal, projectIds []int) ([]*models.ProjectTransactionSummary, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()

	if len(projectIds) == 0 {
		if scope.All {
			if err := db.WithContext(ctx).Model(&models.Project{}).Pluck("id", &projectIds).Error; err != nil {
				return nil, err
			}
		} else {
			projectIds = scope.ProjectIds
		}
	} else {
		projectIds = utils.UniqueSlice(projectIds)
		for _, id := range projectIds {
			idCopy := id
			if err := models.Authorize(p, scope, models.ActionRead, &idCopy); err != nil {
				return nil, err
			}
		}
	}

	var txns []*models.Transaction
	if len(projectIds) > 0 {
		if err := db.WithContext(ctx).Where("project_id IN ?", projectIds).Find(&txns).Error; err != nil {
			return nil, err
		}
	}
	return models.AggregateProjectSummaries(projectIds, txns), nil
}

// WorkerPayments sums salary and advance totals for one worker from the
// ledger. The worker's current project decides who may ask.
func WorkerPayments(ctx context.Context, p models.Principal, workerId int) (*models.WorkerPaymentSummary, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	worker, err := utils.FetchModel[models.Worker](utils.WithoutProjectScope(ctx), workerId)
	if err != nil {
		return nil, utils.NewNotFound("worker %d not found", workerId)
	}
	if err := models.Authorize(p, scope, models.ActionRead, worker.ProjectId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var txns []*models.Transaction
	if err := db.WithContext(ctx).
		Where("worker_id = ? AND category IN ?", workerId,
			[]string{models.CategoryWorkerSalary, models.CategoryWorkerAdvance}).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return models.AggregateWorkerPayments(workerId, txns), nil
}
