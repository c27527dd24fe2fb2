package workflow

import (
	"context"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

func CreateProject(ctx context.Context, p models.Principal, input models.NewProject) (*models.Project, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionCreateProject, nil); err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}

	project := models.Project{
		Name:         input.Name,
		Location:     input.Location,
		Description:  input.Description,
		SupervisorId: input.SupervisorId,
		Status:       input.Status,
		Budget:       input.Budget,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		CreatedBy:    p.ID,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject lets a project's supervisor edit it, but reassigning
// supervisorId stays admin-only.
func UpdateProject(ctx context.Context, p models.Principal, projectId int, input models.UpdateProjectInput) (*models.Project, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	project, err := utils.FetchModel[models.Project](utils.WithoutProjectScope(ctx), projectId)
	if err != nil {
		return nil, utils.NewNotFound("project %d not found", projectId)
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &project.ID); err != nil {
		return nil, err
	}
	if input.SupervisorId != nil && !p.IsAdmin() {
		return nil, utils.NewForbidden("reassigning a project supervisor requires admin role")
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}
	changes := input.Changes()
	if len(changes) == 0 {
		return project, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(project).Updates(changes).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func DeleteProject(ctx context.Context, p models.Principal, projectId int) error {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return err
	}
	if err := models.Authorize(p, scope, models.ActionDeleteProject, nil); err != nil {
		return err
	}
	project, err := utils.FetchModel[models.Project](ctx, projectId)
	if err != nil {
		return utils.NewNotFound("project %d not found", projectId)
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(project).Error
}

func CreateWorker(ctx context.Context, p models.Principal, input models.NewWorker) (*models.Worker, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	// An unassigned worker has no resolvable project: admin only.
	if err := models.Authorize(p, scope, models.ActionWrite, input.ProjectId); err != nil {
		return nil, err
	}
	if err := input.Validate(utils.WithoutProjectScope(ctx)); err != nil {
		return nil, err
	}

	worker := models.Worker{
		Name:      input.Name,
		Phone:     input.Phone,
		Trade:     input.Trade,
		ProjectId: input.ProjectId,
		DailyWage: input.DailyWage,
		CreatedBy: p.ID,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func UpdateWorker(ctx context.Context, p models.Principal, workerId int, input models.UpdateWorkerInput) (*models.Worker, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	worker, err := utils.FetchModel[models.Worker](utils.WithoutProjectScope(ctx), workerId)
	if err != nil {
		return nil, utils.NewNotFound("worker %d not found", workerId)
	}
	if err := models.Authorize(p, scope, models.ActionWrite, worker.ProjectId); err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}
	changes := input.Changes()
	if len(changes) == 0 {
		return worker, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(worker).Updates(changes).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(workerCacheKey(worker.ID))
	return worker, nil
}

// ReassignWorker moves a worker between projects. The acting supervisor must
// be authorized on both the current project (if any) and the destination;
// owning only one side is not enough.
func ReassignWorker(ctx context.Context, p models.Principal, workerId int, destProjectId *int) (*models.Worker, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	worker, err := utils.FetchModel[models.Worker](utils.WithoutProjectScope(ctx), workerId)
	if err != nil {
		return nil, utils.NewNotFound("worker %d not found", workerId)
	}
	if err := models.AuthorizeReassignment(p, scope, worker.ProjectId, destProjectId); err != nil {
		return nil, err
	}
	if destProjectId != nil {
		if err := utils.ValidateResourceId[models.Project](utils.WithoutProjectScope(ctx), *destProjectId); err != nil {
			return nil, utils.NewNotFound("project %d not found", *destProjectId)
		}
	} else if !p.IsAdmin() {
		// Unassigning leaves the worker with no resolvable project.
		return nil, utils.NewForbidden("unassigning a worker requires admin role")
	}

	db := config.GetDB()
	if err := db.WithContext(utils.WithoutProjectScope(ctx)).
		Model(worker).Update("project_id", destProjectId).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(workerCacheKey(worker.ID))
	worker.ProjectId = destProjectId
	return worker, nil
}
