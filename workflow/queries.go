package workflow

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

// Scoped reads. Every list runs with the project guard active so supervisors
// only ever see rows inside their resolved scope; every single get fetches
// unscoped and then authorizes explicitly, so an out-of-scope id is reported
// as Forbidden rather than silently absent.

func ListProjects(ctx context.Context, p models.Principal) ([]*models.Project, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if !scope.All {
		dbCtx = dbCtx.Where("supervisor_id = ?", p.ID)
	}
	var projects []*models.Project
	if err := dbCtx.Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func GetProject(ctx context.Context, p models.Principal, projectId int) (*models.Project, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	project, err := utils.FetchModel[models.Project](utils.WithoutProjectScope(ctx), projectId)
	if err != nil {
		return nil, utils.NewNotFound("project %d not found", projectId)
	}
	if err := models.Authorize(p, scope, models.ActionRead, &project.ID); err != nil {
		return nil, err
	}
	return project, nil
}

type WorkerFilter struct {
	ProjectId *int `form:"project_id"`
}

func ListWorkers(ctx context.Context, p models.Principal, filter WorkerFilter) ([]*models.Worker, error) {
	ctx, _, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.ProjectId != nil {
		dbCtx = dbCtx.Where("project_id = ?", *filter.ProjectId)
	}
	var workers []*models.Worker
	if err := dbCtx.Order("id").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func GetWorker(ctx context.Context, p models.Principal, workerId int) (*models.Worker, error) {
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
	return worker, nil
}

type MaterialFilter struct {
	ProjectId *int                   `form:"project_id"`
	Status    *models.MaterialStatus `form:"status"`
}

func ListMaterials(ctx context.Context, p models.Principal, filter MaterialFilter) ([]*models.Material, error) {
	ctx, _, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.ProjectId != nil {
		dbCtx = dbCtx.Where("project_id = ?", *filter.ProjectId)
	}
	if filter.Status != nil {
		dbCtx = dbCtx.Where("status = ?", *filter.Status)
	}
	var materials []*models.Material
	if err := dbCtx.Order("id").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func GetMaterial(ctx context.Context, p models.Principal, materialId int) (*models.Material, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	material, err := fetchMaterialUnscoped(ctx, materialId)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionRead, &material.ProjectId); err != nil {
		return nil, err
	}
	return material, nil
}

type AttendanceFilter struct {
	ProjectId *int       `form:"project_id"`
	WorkerId  *int       `form:"worker_id"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
}

func ListAttendance(ctx context.Context, p models.Principal, filter AttendanceFilter) ([]*models.Attendance, error) {
	ctx, _, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.ProjectId != nil {
		dbCtx = dbCtx.Where("project_id = ?", *filter.ProjectId)
	}
	if filter.WorkerId != nil {
		dbCtx = dbCtx.Where("worker_id = ?", *filter.WorkerId)
	}
	if filter.DateFrom != nil {
		dbCtx = dbCtx.Where("attendance_date >= ?", utils.DayOf(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		dbCtx = dbCtx.Where("attendance_date <= ?", utils.DayOf(*filter.DateTo))
	}
	var records []*models.Attendance
	if err := dbCtx.Order("attendance_date, id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

type TransactionFilter struct {
	ProjectId *int                    `form:"project_id"`
	WorkerId  *int                    `form:"worker_id"`
	Type      *models.TransactionType `form:"type"`
	Category  *string                 `form:"category"`
	DateFrom  *time.Time              `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time              `form:"date_to" time_format:"2006-01-02"`
}

func ListTransactions(ctx context.Context, p models.Principal, filter TransactionFilter) ([]*models.Transaction, error) {
	ctx, _, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.ProjectId != nil {
		dbCtx = dbCtx.Where("project_id = ?", *filter.ProjectId)
	}
	if filter.WorkerId != nil {
		dbCtx = dbCtx.Where("worker_id = ?", *filter.WorkerId)
	}
	if filter.Type != nil {
		dbCtx = dbCtx.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		dbCtx = dbCtx.Where("category = ?", *filter.Category)
	}
	if filter.DateFrom != nil {
		dbCtx = dbCtx.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		dbCtx = dbCtx.Where("transaction_date <= ?", *filter.DateTo)
	}
	var txns []*models.Transaction
	if err := dbCtx.Order("transaction_date, id").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func GetTransaction(ctx context.Context, p models.Principal, transactionId int) (*models.Transaction, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	txn, err := utils.FetchModel[models.Transaction](utils.WithoutProjectScope(ctx), transactionId)
	if err != nil {
		return nil, utils.NewNotFound("transaction %d not found", transactionId)
	}
	if err := models.Authorize(p, scope, models.ActionRead, &txn.ProjectId); err != nil {
		return nil, err
	}
	return txn, nil
}
