// Package reports renders periodic reservation ledgers as Excel workbooks.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Kind string

const (
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
	Yearly  Kind = "yearly"
)

var Header = []any{"预约ID", "设备ID", "用户ID", "开始时间", "结束时间", "状态", "支付状态", "金额"}

const cellTimeLayout = "2006-01-02 15:04"

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Weekly, Monthly, Yearly:
		return Kind(s), true
	}
	return "", false
}

func (k Kind) SheetName() string {
	switch k {
	case Weekly:
		return "周报"
	case Monthly:
		return "月报"
	default:
		return "年报"
	}
}

// FileName is the ASCII download name, e.g. weekly_report_2025-06-01.xlsx.
func (k Kind) FileName(day time.Time) string {
	return fmt.Sprintf("%s_report_%s.xlsx", k, day.Format(time.DateOnly))
}

// DisplayName is the localized download name.
func (k Kind) DisplayName(day time.Time) string {
	return fmt.Sprintf("实验设备%s_%s.xlsx", k.SheetName(), day.Format(time.DateOnly))
}

// SummaryStart is the lower bound used by the counting endpoints:
// seven days ago, the first of the month or the first of the year.
func (k Kind) SummaryStart(now time.Time, loc *time.Location) time.Time {
	now = now.In(loc)
	switch k {
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Monthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	}
}

// Window is the calendar period exported to Excel: the current ISO week
// (Monday first), month or year, as a half-open range.
func (k Kind) Window(now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch k {
	case Weekly:
		offset := (int(today.Weekday()) + 6) % 7
		from := today.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 7)
	case Monthly:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	default:
		from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	}
}

// Render writes one sheet with a header row followed by one row per reservation.
func Render(kind Kind, rows []*models.Reservation, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := kind.SheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{
			r.ID,
			r.DeviceID,
			r.UserID,
			r.StartTime.In(loc).Format(cellTimeLayout),
			r.EndTime.In(loc).Format(cellTimeLayout),
			string(r.Status),
			string(r.PaymentStatus),
			r.PaymentAmount,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheet, "D", "E", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
