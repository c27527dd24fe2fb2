package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
)

func workerCacheKey(workerId int) string {
	return fmt.Sprintf("Worker:%d", workerId)
}

// fetchWorkerCached serves worker lookups from the redis cache when
// available. Attendance recording is the hot path for these reads; worker
// mutations invalidate the key.
func fetchWorkerCached(ctx context.Context, workerId int) (*models.Worker, error) {
	var cached models.Worker
	exists, err := config.GetRedisObject(workerCacheKey(workerId), &cached)
	if err == nil && exists {
		return &cached, nil
	}
	worker, err := utils.FetchModel[models.Worker](utils.WithoutProjectScope(ctx), workerId)
	if err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(workerCacheKey(workerId), worker, 5*time.Minute)
	return worker, nil
}

// RecordAttendance inserts one attendance record per worker per project per
// day. The storage-level unique index is the authority for that constraint;
// the insert translates a duplicate-key violation to Conflict rather than
// trusting a pre-check.
func RecordAttendance(ctx context.Context, p models.Principal, input models.NewAttendance) (*models.Attendance, error) {
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
	worker, err := fetchWorkerCached(ctx, input.WorkerId)
	if err != nil {
		return nil, utils.NewNotFound("worker %d not found", input.WorkerId)
	}

	wage := worker.DailyWage
	if input.DailyWage != nil {
		wage = *input.DailyWage
	}
	hours := decimal.Zero
	if input.HoursWorked != nil {
		hours = *input.HoursWorked
	}
	overtime := decimal.Zero
	if input.OvertimeHours != nil {
		overtime = *input.OvertimeHours
	}

	attendance := models.Attendance{
		ProjectId:      input.ProjectId,
		WorkerId:       input.WorkerId,
		AttendanceDate: utils.DayOf(input.AttendanceDate),
		Status:         input.Status,
		HoursWorked:    hours,
		OvertimeHours:  overtime,
		DailyWage:      wage,
		RecordedBy:     p.ID,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&attendance).Error; err != nil {
		return nil, duplicateAttendanceErr(err, input.WorkerId, attendance.AttendanceDate)
	}
	return &attendance, nil
}

// duplicateAttendanceErr maps a unique-index violation on
// (project_id, worker_id, attendance_date) to Conflict. The index fires for
// any second record of the same tuple, whatever its status, so a re-submit
// with a different status still conflicts. Other errors pass through.
func duplicateAttendanceErr(err error, workerId int, day time.Time) error {
	if isDuplicateKeyErr(err) {
		return utils.NewConflict("attendance already recorded for worker %d on %s",
			workerId, day.Format("2006-01-02"))
	}
	return err
}

func UpdateAttendance(ctx context.Context, p models.Principal, attendanceId int, input models.UpdateAttendanceInput) (*models.Attendance, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	attendance, err := utils.FetchModel[models.Attendance](utils.WithoutProjectScope(ctx), attendanceId)
	if err != nil {
		return nil, utils.NewNotFound("attendance %d not found", attendanceId)
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &attendance.ProjectId); err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}
	changes := input.Changes()
	if len(changes) == 0 {
		return attendance, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(attendance).Updates(changes).Error; err != nil {
		return nil, err
	}
	return attendance, nil
}

func DeleteAttendance(ctx context.Context, p models.Principal, attendanceId int) error {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return err
	}
	attendance, err := utils.FetchModel[models.Attendance](utils.WithoutProjectScope(ctx), attendanceId)
	if err != nil {
		return utils.NewNotFound("attendance %d not found", attendanceId)
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &attendance.ProjectId); err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(attendance).Error
}
