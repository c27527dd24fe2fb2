package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
)

// NOTE: DB-free tests for the error translation around ledger posting and
// attendance inserts. The unique index on (project_id, worker_id,
// attendance_date) is the storage-level authority for one-record-per-day;
// these tests pin the driver-error-to-Conflict mapping that sits on top of it.

func TestIsDuplicateKeyErr(t *testing.T) {
	dup := &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2-2026-08-30' for key 'uniq_project_worker_day'"}
	if !isDuplicateKeyErr(dup) {
		t.Fatal("expected mysql error 1062 to be detected as duplicate key")
	}
	if !isDuplicateKeyErr(fmt.Errorf("create attendance: %w", dup)) {
		t.Fatal("expected wrapped mysql error 1062 to be detected as duplicate key")
	}
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}
	if isDuplicateKeyErr(deadlock) {
		t.Fatal("mysql error 1213 must not be treated as duplicate key")
	}
	if isDuplicateKeyErr(errors.New("connection refused")) {
		t.Fatal("plain error must not be treated as duplicate key")
	}
	if isDuplicateKeyErr(nil) {
		t.Fatal("nil error must not be treated as duplicate key")
	}
}

func TestDuplicateAttendanceErr_BecomesConflict(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	dup := fmt.Errorf("create attendance: %w",
		&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	// The index fires for any second (project, worker, day) tuple, so a
	// re-submit with a different status surfaces the same Conflict.
	err := duplicateAttendanceErr(dup, 7, day)
	if utils.KindOf(err) != utils.ErrorKindConflict {
		t.Fatalf("expected Conflict, got kind %s (%v)", utils.KindOf(err), err)
	}

	other := errors.New("connection refused")
	if got := duplicateAttendanceErr(other, 7, day); got != other {
		t.Fatalf("non-duplicate errors must pass through unchanged, got %v", got)
	}
	if utils.KindOf(duplicateAttendanceErr(other, 7, day)) != utils.ErrorKindInternal {
		t.Fatal("non-duplicate errors must stay unclassified")
	}
}

func TestProjectPostingLockName(t *testing.T) {
	if got := projectPostingLockName(42); got != "posting:project:42" {
		t.Fatalf("unexpected lock name %q", got)
	}
}

func TestPostingLockWaitSeconds(t *testing.T) {
	t.Setenv("POSTING_LOCK_WAIT_SECONDS", "")
	if got := postingLockWaitSeconds(); got != defaultPostingLockWaitSeconds {
		t.Fatalf("expected default wait, got %d", got)
	}
	t.Setenv("POSTING_LOCK_WAIT_SECONDS", "5")
	if got := postingLockWaitSeconds(); got != 5 {
		t.Fatalf("expected configured wait 5, got %d", got)
	}
	t.Setenv("POSTING_LOCK_WAIT_SECONDS", "-1")
	if got := postingLockWaitSeconds(); got != defaultPostingLockWaitSeconds {
		t.Fatalf("non-positive values must fall back to default, got %d", got)
	}
}
