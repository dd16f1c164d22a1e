package payrollhandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	pdfexport "hrms-backend/lib/export/pdf"
	xlsexport "hrms-backend/lib/export/xls"
	"hrms-backend/lib/notify"
	payrollstore "hrms-backend/lib/payroll/store"
	usersstore "hrms-backend/lib/users/store"
	"hrms-backend/lib/utils/helpers"
	initchecker "hrms-backend/lib/utils/init-checker"
	"hrms-backend/lib/utils/lock"
	"hrms-backend/lib/utils/salary"
	"hrms-backend/models"
	payrollapimodels "hrms-backend/models/api/payroll"
	dbmodels "hrms-backend/models/db"
	wsmodels "hrms-backend/models/ws"
)

type Provider interface {
	List(actor models.Actor, filter payrollapimodels.Filter) ([]payrollapimodels.PayrollRecord, error)
	Generate(ctx context.Context, actor models.Actor, month string) ([]payrollapimodels.PayrollRecord, error)
	Pay(actor models.Actor, id string) (payrollapimodels.PayrollRecord, error)
	Slip(actor models.Actor, id string) ([]byte, error)
	Export(month string) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		payrollStore: payrollstore.NewInstance(db.DB),
		userStore:    usersstore.NewInstance(db.DB),
		exporter:     xlsexport.Instance,
		notifier:     notify.Instance,
	}
	initchecker.CheckInit(
		"payrollStore", instance.payrollStore,
		"userStore", instance.userStore,
		"exporter", instance.exporter,
		"notifier", instance.notifier,
	)
	Instance = instance
}

type impl struct {
	payrollStore payrollstore.Provider
	userStore    usersstore.Provider
	exporter     xlsexport.Provider
	notifier     notify.Provider
}

const generateLockWait = 30 * time.Second

func (i impl) List(actor models.Actor, filter payrollapimodels.Filter) ([]payrollapimodels.PayrollRecord, error) {
	if !actor.Role.IsAdmin() {
		filter.UserID = actor.UserID
	}
	list, err := i.payrollStore.List(payrollstore.ListFilter{
		UserID: filter.UserID,
		Month:  filter.Month,
	})
	if err != nil {
		log.
			WithField("filter", filter).
			WithError(err).
			Error("payroll list failed")
		return nil, err
	}
	result := make([]payrollapimodels.PayrollRecord, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// Generate creates PENDING records for every salaried user, existing (user, month) records are kept.
func (i impl) Generate(ctx context.Context, actor models.Actor, month string) ([]payrollapimodels.PayrollRecord, error) {
	if !actor.Role.IsAdmin() {
		return nil, errors.Wrap(models.ErrForbidden, "only an admin can generate payroll")
	}
	logger := log.WithField("month", month)
	created := []payrollapimodels.PayrollRecord{}
	ok, err := lock.WithDelay(ctx, "payroll:"+month, generateLockWait, func() error {
		users, err := i.userStore.List()
		if err != nil {
			return err
		}
		for _, user := range users {
			if helpers.IsContextDone(ctx) {
				return ctx.Err()
			}
			if user.Salary == nil || *user.Salary <= 0 {
				continue
			}
			existing, err := i.payrollStore.GetByUserMonth(user.ID, month)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			breakdown := salary.MonthlyFromFloat(user.Salary)
			rec := dbmodels.Payroll{
				UserID:      user.ID,
				Month:       month,
				BasicSalary: breakdown.Basic,
				Allowances:  breakdown.Allowances,
				Deductions:  breakdown.Deductions,
				NetSalary:   breakdown.Net,
				Status:      models.PayrollPending,
			}
			id, err := i.payrollStore.Create(rec)
			if err != nil {
				return errors.Wrapf(err, "payroll create failed for user %s", user.ID)
			}
			rec.ID = id
			u := user
			rec.User = &u
			created = append(created, rec.ToModel())
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("payroll generation failed")
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(models.ErrConflict, "payroll generation is already running")
	}
	logger.WithField("created", len(created)).Info("payroll generated")
	return created, nil
}

func (i impl) Pay(actor models.Actor, id string) (payrollapimodels.PayrollRecord, error) {
	if !actor.Role.IsAdmin() {
		return payrollapimodels.PayrollRecord{}, errors.Wrap(models.ErrForbidden, "only an admin can pay salaries")
	}
	rec, err := i.payrollStore.GetByID(id)
	if err != nil {
		return payrollapimodels.PayrollRecord{}, err
	}
	if rec == nil {
		return payrollapimodels.PayrollRecord{}, errors.Wrap(models.ErrNotFound, "payroll record not found")
	}
	updated, err := i.payrollStore.MarkPaid(id)
	if err != nil {
		log.
			WithField("payroll_id", id).
			WithError(err).
			Error("payroll pay failed")
		return payrollapimodels.PayrollRecord{}, err
	}
	if !updated {
		return payrollapimodels.PayrollRecord{}, errors.Wrap(models.ErrConflict, "payroll record is already paid")
	}
	rec.Status = models.PayrollPaid
	result := rec.ToModel()
	i.notifier.SendNotification(rec.UserID, wsmodels.PayrollPaidCode,
		fmt.Sprintf("Salary for %s paid", rec.Month),
		fmt.Sprintf("Your net salary of %.2f for %s was paid.", result.NetSalary, rec.Month))
	return result, nil
}

func (i impl) Slip(actor models.Actor, id string) ([]byte, error) {
	rec, err := i.payrollStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "payroll record not found")
	}
	if !actor.CanAccess(rec.UserID) {
		return nil, errors.Wrap(models.ErrForbidden, "payslip of another user")
	}
	user := rec.User
	if user == nil {
		user, err = i.userStore.GetByID(rec.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.Wrap(models.ErrNotFound, "user not found")
		}
	}
	return pdfexport.GeneratePayslip(user.ToModel(), rec.ToModel())
}

func (i impl) Export(month string) (*bytes.Buffer, error) {
	list, err := i.payrollStore.List(payrollstore.ListFilter{Month: month})
	if err != nil {
		return nil, err
	}
	result := make([]payrollapimodels.PayrollRecord, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return i.exporter.ExportPayroll(result)
}
