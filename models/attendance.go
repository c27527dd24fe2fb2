package models

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
)

// Attendance holds one record per worker per project per calendar day.
// The composite unique index is the authority for that invariant; the
// application-level pre-check only produces a friendlier error.
type Attendance struct {
	ID             int              `gorm:"primary_key" json:"id"`
	ProjectId      int              `gorm:"not null;uniqueIndex:uniq_project_worker_day,priority:1" json:"project_id" binding:"required"`
	WorkerId       int              `gorm:"not null;uniqueIndex:uniq_project_worker_day,priority:2" json:"worker_id" binding:"required"`
	AttendanceDate time.Time        `gorm:"type:date;not null;uniqueIndex:uniq_project_worker_day,priority:3" json:"attendance_date" binding:"required"`
	Status         AttendanceStatus `gorm:"type:enum('present','absent','halfDay');not null" json:"status"`
	HoursWorked    decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"hours_worked"`
	OvertimeHours  decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"overtime_hours"`
	DailyWage      decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"daily_wage"`
	RecordedBy     int              `gorm:"not null" json:"recorded_by"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAttendance struct {
	ProjectId      int              `json:"project_id" binding:"required"`
	WorkerId       int              `json:"worker_id" binding:"required"`
	AttendanceDate time.Time        `json:"attendance_date" binding:"required"`
	Status         AttendanceStatus `json:"status" binding:"required"`
	HoursWorked    *decimal.Decimal `json:"hours_worked"`
	OvertimeHours  *decimal.Decimal `json:"overtime_hours"`
	DailyWage      *decimal.Decimal `json:"daily_wage"`
}

type UpdateAttendanceInput struct {
	Status        *AttendanceStatus `json:"status"`
	HoursWorked   *decimal.Decimal  `json:"hours_worked"`
	OvertimeHours *decimal.Decimal  `json:"overtime_hours"`
	DailyWage     *decimal.Decimal  `json:"daily_wage"`
}

func (input *NewAttendance) Validate(ctx context.Context) error {
	if !input.Status.Valid() {
		return utils.NewInvalidInput("invalid attendance status %q", input.Status)
	}
	if input.HoursWorked != nil && input.HoursWorked.IsNegative() {
		return utils.NewInvalidInput("hours worked must not be negative")
	}
	if input.OvertimeHours != nil && input.OvertimeHours.IsNegative() {
		return utils.NewInvalidInput("overtime hours must not be negative")
	}
	if input.DailyWage != nil && input.DailyWage.IsNegative() {
		return utils.NewInvalidInput("daily wage must not be negative")
	}
	if err := utils.ValidateResourceId[Project](ctx, input.ProjectId); err != nil {
		return utils.NewNotFound("project %d not found", input.ProjectId)
	}
	return nil
}

func (input *UpdateAttendanceInput) Validate(_ context.Context) error {
	if input.Status != nil && !input.Status.Valid() {
		return utils.NewInvalidInput("invalid attendance status %q", *input.Status)
	}
	if input.HoursWorked != nil && input.HoursWorked.IsNegative() {
		return utils.NewInvalidInput("hours worked must not be negative")
	}
	if input.OvertimeHours != nil && input.OvertimeHours.IsNegative() {
		return utils.NewInvalidInput("overtime hours must not be negative")
	}
	if input.DailyWage != nil && input.DailyWage.IsNegative() {
		return utils.NewInvalidInput("daily wage must not be negative")
	}
	return nil
}

func (input *UpdateAttendanceInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	if input.HoursWorked != nil {
		changes["hours_worked"] = *input.HoursWorked
	}
	if input.OvertimeHours != nil {
		changes["overtime_hours"] = *input.OvertimeHours
	}
	if input.DailyWage != nil {
		changes["daily_wage"] = *input.DailyWage
	}
	return changes
}
