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

// MaterialResult bundles the updated material with any ledger entry the
// transition emitted.
type MaterialResult struct {
	Material    *models.Material    `json:"material"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// fetchMaterialUnscoped loads a material without the project guard so the
// caller can distinguish Forbidden (exists, out of scope) from NotFound.
// Authorization must follow before any mutation.
func fetchMaterialUnscoped(ctx context.Context, id int) (*models.Material, error) {
	m, err := utils.FetchModel[models.Material](utils.WithoutProjectScope(ctx), id)
	if err != nil {
		return nil, utils.NewNotFound("material %d not found", id)
	}
	return m, nil
}

func CreateMaterial(ctx context.Context, p models.Principal, input models.NewMaterial) (*models.Material, error) {
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

	material := models.Material{
		ProjectId:   input.ProjectId,
		Name:        input.Name,
		Unit:        input.Unit,
		Supplier:    input.Supplier,
		Notes:       input.Notes,
		Quantity:    input.Quantity,
		Cost:        input.Cost,
		Status:      models.MaterialStatusRequested,
		RequestedBy: p.ID,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func ApproveMaterial(ctx context.Context, p models.Principal, materialId int, approvedQuantity decimal.NullDecimal) (*models.Material, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionApproveMaterial, &material.ProjectId); err != nil {
		return nil, err
	}
	if err := material.Approve(approvedQuantity, p.ID); err != nil {
		return nil, err
	}

	db := config.GetDB()
	// Optimistic status predicate: a concurrent approve/reject loses here.
	res := db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ? AND status = ?", material.ID, models.MaterialStatusRequested).
		Updates(map[string]interface{}{
			"status":            material.Status,
			"approved_quantity": material.ApprovedQuantity,
			"approved_by":       p.ID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NewConflict("material %d is no longer in requested status", material.ID)
	}
	return material, nil
}

func RejectMaterial(ctx context.Context, p models.Principal, materialId int) (*models.Material, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionRejectMaterial, &material.ProjectId); err != nil {
		return nil, err
	}
	if err := material.Reject(p.ID); err != nil {
		return nil, err
	}

	db := config.GetDB()
	res := db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ? AND status = ?", material.ID, models.MaterialStatusRequested).
		Updates(map[string]interface{}{
			"status":      material.Status,
			"approved_by": p.ID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NewConflict("material %d is no longer in requested status", material.ID)
	}
	return material, nil
}

// ReceiveMaterial transitions approved -> received and atomically appends the
// matching expense to the ledger in the same DB transaction.
func ReceiveMaterial(ctx context.Context, p models.Principal, materialId int, receivedQuantity decimal.NullDecimal, cost *decimal.Decimal) (*MaterialResult, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &material.ProjectId); err != nil {
		return nil, err
	}
	if err := material.Receive(receivedQuantity, cost); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireProjectPostingLock(tx, material.ProjectId); err != nil {
			return err
		}
		defer ReleaseProjectPostingLock(tx, material.ProjectId)

		res := tx.Model(&models.Material{}).
			Where("id = ? AND status = ?", material.ID, models.MaterialStatusApproved).
			Updates(map[string]interface{}{
				"status":            material.Status,
				"received_quantity": material.ReceivedQuantity,
				"cost":              material.Cost,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NewConflict("material %d is no longer in approved status", material.ID)
		}

		// A zero-quantity (or zero-cost) receipt carries no money movement,
		// so there is no ledger row to append.
		if !material.ReceiveExpenseAmount().IsPositive() {
			return nil
		}
		materialId := material.ID
		txn, err = models.RecordTransaction(tx, models.NewTransaction{
			ProjectId:   material.ProjectId,
			Type:        models.TransactionTypeExpense,
			Category:    models.CategoryMaterials,
			Amount:      material.ReceiveExpenseAmount(),
			Description: fmt.Sprintf("Received %s %s of %s", material.ReceivedQuantity.Decimal, material.Unit, material.Name),
			MaterialId:  &materialId,
		}, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &MaterialResult{Material: material, Transaction: txn}, nil
}

// ConsumeMaterial increments usedQuantity, bounded by the available pool.
// The bound is enforced by a conditional atomic update so two concurrent
// consume calls cannot jointly overshoot; the per-material redis lock only
// narrows the window in which one of them has to fail.
func ConsumeMaterial(ctx context.Context, p models.Principal, materialId int, delta decimal.Decimal) (*models.Material, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &material.ProjectId); err != nil {
		return nil, err
	}
	if !delta.IsPositive() {
		return nil, utils.NewInvalidInput("consumed quantity must be greater than zero")
	}
	if material.Status != models.MaterialStatusReceived && material.Status != models.MaterialStatusUsed {
		return nil, utils.NewConflict("material %d cannot be consumed from status %s", material.ID, material.Status)
	}

	lock, err := utils.ObtainLock(ctx, "material-consume", fmt.Sprint(materialId), "MaterialWorkflow.go", "ConsumeMaterial")
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE materials
			 SET used_quantity = used_quantity + ?
			 WHERE id = ?
			   AND status IN (?, ?)
			   AND used_quantity + ? <= COALESCE(received_quantity, approved_quantity, quantity)`,
			delta, material.ID,
			models.MaterialStatusReceived, models.MaterialStatusUsed,
			delta,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Re-read to report the actual remaining pool.
			var current models.Material
			if err := tx.First(&current, material.ID).Error; err != nil {
				return err
			}
			if current.Status != models.MaterialStatusReceived && current.Status != models.MaterialStatusUsed {
				return utils.NewConflict("material %d cannot be consumed from status %s", current.ID, current.Status)
			}
			return utils.NewConflict("insufficient quantity for material %d", current.ID).
				WithMeta("available", current.Remaining().String())
		}

		if err := tx.First(material, material.ID).Error; err != nil {
			return err
		}
		if material.Remaining().IsZero() && material.Status != models.MaterialStatusUsed {
			if err := tx.Model(&models.Material{}).
				Where("id = ?", material.ID).
				Update("status", models.MaterialStatusUsed).Error; err != nil {
				return err
			}
			material.Status = models.MaterialStatusUsed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

// UpdateMaterial edits descriptive fields. Allowed in any non-terminal state.
func UpdateMaterial(ctx context.Context, p models.Principal, materialId int, input models.UpdateMaterialInput) (*models.Material, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &material.ProjectId); err != nil {
		return nil, err
	}
	if material.Status == models.MaterialStatusRejected || material.Status == models.MaterialStatusUsed {
		return nil, utils.NewConflict("material %d is in terminal status %s", material.ID, material.Status)
	}
	changes := input.Changes()
	if len(changes) == 0 {
		return material, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(material).Updates(changes).Error; err != nil {
		return nil, err
	}
	return material, nil
}

// SetMaterialStatus is the admin escape hatch: it writes the status field
// directly, bypassing the guarded transitions.
func SetMaterialStatus(ctx context.Context, p models.Principal, materialId int, status models.MaterialStatus) (*models.Material, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionSetMaterialStatus, &material.ProjectId); err != nil {
		return nil, err
	}
	if err := material.SetStatus(status); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(material).Update("status", status).Error; err != nil {
		return nil, err
	}
	return material, nil
}
