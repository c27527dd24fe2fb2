package models

import (
	"bitbucket.org/sitestack/sitebooks_backend/config"
	"github.com/sirupsen/logrus"
)

// MigrateTable runs AutoMigrate for every table. Order matters: referenced
// tables are created before the ones pointing at them.
func MigrateTable() {
	logger := config.GetLogger()
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&Project{},
		&Worker{},
		&Material{},
		&Attendance{},
		&Transaction{},
		&Document{},
	)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "MigrateTable",
		}).Panic(err.Error())
	}
}
