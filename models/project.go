package models

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Location     string          `gorm:"size:255" json:"location"`
	Description  string          `gorm:"type:text" json:"description"`
	SupervisorId int             `gorm:"index;not null" json:"supervisor_id" binding:"required"`
	Status       ProjectStatus   `gorm:"type:enum('planning','ongoing','completed','onHold');not null;default:'planning'" json:"status"`
	Budget       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	StartDate    *time.Time      `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
	CreatedBy    int             `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	Name         string          `json:"name" binding:"required,notblank"`
	Location     string          `json:"location"`
	Description  string          `json:"description"`
	SupervisorId int             `json:"supervisor_id" binding:"required"`
	Status       ProjectStatus   `json:"status"`
	Budget       decimal.Decimal `json:"budget"`
	StartDate    *time.Time      `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
}

// UpdateProjectInput carries partial changes; nil means "leave unchanged".
type UpdateProjectInput struct {
	Name         *string          `json:"name"`
	Location     *string          `json:"location"`
	Description  *string          `json:"description"`
	SupervisorId *int             `json:"supervisor_id"`
	Status       *ProjectStatus   `json:"status"`
	Budget       *decimal.Decimal `json:"budget"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date"`
}

func (input *NewProject) Validate(ctx context.Context) error {
	if input.Status == "" {
		input.Status = ProjectStatusPlanning
	}
	if !input.Status.Valid() {
		return utils.NewInvalidInput("invalid project status %q", input.Status)
	}
	if input.Budget.IsNegative() {
		return utils.NewInvalidInput("budget must not be negative")
	}
	count, err := utils.ResourceCountWhere[User](ctx, "id = ? AND role = ?", input.SupervisorId, RoleSupervisor)
	if err != nil {
		return err
	}
	if count == 0 {
		return utils.NewNotFound("supervisor %d not found", input.SupervisorId)
	}
	return nil
}

func (input *UpdateProjectInput) Validate(ctx context.Context) error {
	if input.Status != nil && !input.Status.Valid() {
		return utils.NewInvalidInput("invalid project status %q", *input.Status)
	}
	if input.Budget != nil && input.Budget.IsNegative() {
		return utils.NewInvalidInput("budget must not be negative")
	}
	if input.SupervisorId != nil {
		count, err := utils.ResourceCountWhere[User](ctx, "id = ? AND role = ?", *input.SupervisorId, RoleSupervisor)
		if err != nil {
			return err
		}
		if count == 0 {
			return utils.NewNotFound("supervisor %d not found", *input.SupervisorId)
		}
	}
	return nil
}

// Changes flattens the input into a gorm Updates map.
func (input *UpdateProjectInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if input.Name != nil {
		changes["name"] = *input.Name
	}
	if input.Location != nil {
		changes["location"] = *input.Location
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.SupervisorId != nil {
		changes["supervisor_id"] = *input.SupervisorId
	}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	if input.Budget != nil {
		changes["budget"] = *input.Budget
	}
	if input.StartDate != nil {
		changes["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		changes["end_date"] = *input.EndDate
	}
	return changes
}
