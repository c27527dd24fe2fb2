package workflow

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const defaultPostingLockWaitSeconds = 30

func projectPostingLockName(projectId int) string {
	return fmt.Sprintf("posting:project:%d", projectId)
}

func postingLockWaitSeconds() int {
	v, err := strconv.Atoi(os.Getenv("POSTING_LOCK_WAIT_SECONDS"))
	if err != nil || v <= 0 {
		return defaultPostingLockWaitSeconds
	}
	return v
}

// AcquireProjectPostingLock serializes ledger posting per project across
// instances using MySQL advisory locks. A timed-out wait means another
// posting for the same project is in flight, so the caller gets Conflict
// rather than an opaque failure.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will do the posting transaction.
func AcquireProjectPostingLock(tx *gorm.DB, projectId int) error {
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, ?)", projectPostingLockName(projectId), postingLockWaitSeconds()).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return utils.NewConflict("ledger posting for project %d is already in progress", projectId)
	}
	return nil
}

func ReleaseProjectPostingLock(tx *gorm.DB, projectId int) {
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", projectPostingLockName(projectId)).Scan(&_ok).Error
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
