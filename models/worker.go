package models

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
)

// Worker may exist unassigned (ProjectId nil); an unassigned worker has no
// resolvable project and is therefore admin-only until assigned.
type Worker struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Phone     string          `gorm:"size:32" json:"phone"`
	Trade     string          `gorm:"size:128" json:"trade"`
	ProjectId *int            `gorm:"index" json:"project_id"`
	DailyWage decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"daily_wage"`
	IsActive  *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedBy int             `gorm:"not null" json:"created_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWorker struct {
	Name      string          `json:"name" binding:"required,notblank"`
	Phone     string          `json:"phone"`
	Trade     string          `json:"trade"`
	ProjectId *int            `json:"project_id"`
	DailyWage decimal.Decimal `json:"daily_wage"`
}

type UpdateWorkerInput struct {
	Name      *string          `json:"name"`
	Phone     *string          `json:"phone"`
	Trade     *string          `json:"trade"`
	DailyWage *decimal.Decimal `json:"daily_wage"`
	IsActive  *bool            `json:"is_active"`
}

func (input *NewWorker) Validate(ctx context.Context) error {
	if input.DailyWage.IsNegative() {
		return utils.NewInvalidInput("daily wage must not be negative")
	}
	if input.ProjectId != nil {
		if err := utils.ValidateResourceId[Project](ctx, *input.ProjectId); err != nil {
			return utils.NewNotFound("project %d not found", *input.ProjectId)
		}
	}
	return nil
}

func (input *UpdateWorkerInput) Validate(_ context.Context) error {
	if input.DailyWage != nil && input.DailyWage.IsNegative() {
		return utils.NewInvalidInput("daily wage must not be negative")
	}
	return nil
}

func (input *UpdateWorkerInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if input.Name != nil {
		changes["name"] = *input.Name
	}
	if input.Phone != nil {
		changes["phone"] = *input.Phone
	}
	if input.Trade != nil {
		changes["trade"] = *input.Trade
	}
	if input.DailyWage != nil {
		changes["daily_wage"] = *input.DailyWage
	}
	if input.IsActive != nil {
		changes["is_active"] = *input.IsActive
	}
	return changes
}
