package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	attendanceapimodels "hrms-backend/models/api/attendance"
	payrollapimodels "hrms-backend/models/api/payroll"
)

type Provider interface {
	ExportAttendance(list []AttendanceRow) (*bytes.Buffer, error)
	ExportPayroll(list []payrollapimodels.PayrollRecord) (*bytes.Buffer, error)
}

// AttendanceRow is an attendance record joined with its owner.
type AttendanceRow struct {
	attendanceapimodels.AttendanceRecord
	UserName   string
	Department string
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const defaultSheet = "Sheet1"

var attendanceHeaders = []string{"Date", "Employee", "Department", "Check in", "Check out", "Status", "Hours", "Mood"}

var payrollHeaders = []string{"Month", "Employee", "Basic", "Allowances", "Deductions", "Net", "Status"}

func (i impl) ExportAttendance(list []AttendanceRow) (*bytes.Buffer, error) {
	return i.export("Attendance", attendanceHeaders, len(list), func(f *excelize.File, row, idx int) error {
		item := list[idx]
		var hours, mood interface{}
		if item.TotalHours != nil {
			hours = *item.TotalHours
		}
		if item.Mood != nil {
			mood = string(*item.Mood)
		}
		return writeRow(f, defaultSheet, row,
			item.Date,
			item.UserName,
			item.Department,
			derefString(item.CheckIn),
			derefString(item.CheckOut),
			string(item.Status),
			hours,
			mood,
		)
	})
}

func (i impl) ExportPayroll(list []payrollapimodels.PayrollRecord) (*bytes.Buffer, error) {
	return i.export("Payroll", payrollHeaders, len(list), func(f *excelize.File, row, idx int) error {
		item := list[idx]
		return writeRow(f, defaultSheet, row,
			item.Month,
			item.UserName,
			item.BasicSalary,
			item.Allowances,
			item.Deductions,
			item.NetSalary,
			string(item.Status),
		)
	})
}

func (i impl) export(sheetName string, headers []string, count int, writeItem func(f *excelize.File, row, idx int) error) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx close failed")
		}
	}()
	row, err := writeHeader(f, defaultSheet, 0, headers)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if count != 0 {
		if err = applyDataCellStyle(f, defaultSheet, 1, row+1, len(headers), row+count); err != nil {
			return nil, errors.Wrap(err, "xlsx style failed")
		}
		for idx := 0; idx < count; idx++ {
			row++
			if err = writeItem(f, row, idx); err != nil {
				return nil, errors.Wrap(err, "xlsx data write failed")
			}
		}
	}
	if err = f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, errors.Wrap(err, "xlsx sheet rename failed")
	}
	return f.WriteToBuffer()
}

func derefString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
