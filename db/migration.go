package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "hrms-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("running migrations")
	models := []struct {
		name  string
		model interface{}
	}{
		{"User", &dbmodels.User{}},
		{"Attendance", &dbmodels.Attendance{}},
		{"Leave", &dbmodels.Leave{}},
		{"Payroll", &dbmodels.Payroll{}},
		{"PushData", &dbmodels.PushData{}},
	}
	for _, m := range models {
		if err := DB.AutoMigrate(m.model); err != nil {
			return errors.Wrapf(err, "%s table migration failed", m.name)
		}
	}
	log.Info("migrations finished")
	return nil
}
