package services

import (
	"bytes"
	"deadline_flow_go/models"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	sheetHolidays  = "Holidays"
	sheetTemplates = "Templates"
)

// ImportResult contains the summary of the import process
type ImportResult struct {
	TotalProcessed int
	SuccessCount   int
	FailedCount    int
	Errors         []string
}

// GenerateReferenceTemplate generates the Excel workbook skeleton
// administrators fill in for bulk holiday/template import
func GenerateReferenceTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetHolidays)
	if _, err := f.NewSheet(sheetTemplates); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	holidayHeaders := []string{
		"Jurisdiction Code", "Date (YYYY-MM-DD)", "Label",
		"Recurring Yearly (YES/NO)", "Court Calendar (YES/NO)", "Business Calendar (YES/NO)",
	}
	for i, h := range holidayHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetHolidays, cell, h)
	}
	f.SetCellStyle(sheetHolidays, "A1", "F1", headerStyle)

	templateHeaders := []string{
		"Name", "Trigger Event", "Jurisdiction Code (blank = universal)",
		"Time Limit", "Unit", "Method",
		"Include Weekends (YES/NO)", "Include Holidays (YES/NO)", "Business Days Only (YES/NO)",
		"Reminder Days (comma separated)", "Priority",
	}
	for i, h := range templateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetTemplates, cell, h)
	}
	f.SetCellStyle(sheetTemplates, "A1", "K1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ImportReferenceWorkbook imports holidays and deadline templates from an
// uploaded workbook. Rows are processed independently: a bad row is recorded
// and skipped, the rest proceed.
func ImportReferenceWorkbook(db *gorm.DB, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result := &ImportResult{}

	if rows, err := f.GetRows(sheetHolidays); err == nil {
		importHolidayRows(db, rows, result)
	}
	if rows, err := f.GetRows(sheetTemplates); err == nil {
		importTemplateRows(db, rows, result)
	}

	if result.TotalProcessed == 0 {
		return nil, fmt.Errorf("workbook has no %q or %q rows to import", sheetHolidays, sheetTemplates)
	}

	return result, nil
}

func importHolidayRows(db *gorm.DB, rows [][]string, result *ImportResult) {
	for i, row := range rows {
		if i == 0 || rowEmpty(row) {
			continue // header
		}
		result.TotalProcessed++

		if len(row) < 3 {
			recordRowError(result, sheetHolidays, i+1, fmt.Errorf("expected at least 3 columns"))
			continue
		}

		jurisdiction, err := GetJurisdictionByCode(db, strings.TrimSpace(cellAt(row, 0)))
		if err != nil {
			recordRowError(result, sheetHolidays, i+1, err)
			continue
		}

		holidayDate, err := ParseDate(strings.TrimSpace(cellAt(row, 1)))
		if err != nil {
			recordRowError(result, sheetHolidays, i+1, err)
			continue
		}

		holiday := models.Holiday{
			JurisdictionID:    jurisdiction.ID,
			Date:              holidayDate,
			Label:             strings.TrimSpace(cellAt(row, 2)),
			IsRecurringYearly: parseYesNo(cellAt(row, 3), false),
			AppliesToCourt:    parseYesNo(cellAt(row, 4), true),
			AppliesToBusiness: parseYesNo(cellAt(row, 5), true),
		}

		if err := AddHoliday(db, &holiday); err != nil {
			recordRowError(result, sheetHolidays, i+1, err)
			continue
		}
		result.SuccessCount++
	}
}

func importTemplateRows(db *gorm.DB, rows [][]string, result *ImportResult) {
	for i, row := range rows {
		if i == 0 || rowEmpty(row) {
			continue // header
		}
		result.TotalProcessed++

		if len(row) < 6 {
			recordRowError(result, sheetTemplates, i+1, fmt.Errorf("expected at least 6 columns"))
			continue
		}

		timeLimit, err := strconv.Atoi(strings.TrimSpace(cellAt(row, 3)))
		if err != nil {
			recordRowError(result, sheetTemplates, i+1, fmt.Errorf("invalid time limit: %v", err))
			continue
		}

		template := models.DeadlineTemplate{
			Name:              strings.TrimSpace(cellAt(row, 0)),
			TriggerEvent:      strings.ToUpper(strings.TrimSpace(cellAt(row, 1))),
			TimeLimit:         timeLimit,
			TimeLimitUnit:     strings.ToUpper(strings.TrimSpace(cellAt(row, 4))),
			CalculationMethod: strings.ToUpper(strings.TrimSpace(cellAt(row, 5))),
			IncludeWeekends:   parseYesNo(cellAt(row, 6), false),
			IncludeHolidays:   parseYesNo(cellAt(row, 7), false),
			BusinessDaysOnly:  parseYesNo(cellAt(row, 8), false),
			Priority:          models.PriorityMedium,
			IsActive:          true,
		}

		if code := strings.TrimSpace(cellAt(row, 2)); code != "" {
			jurisdiction, err := GetJurisdictionByCode(db, code)
			if err != nil {
				recordRowError(result, sheetTemplates, i+1, err)
				continue
			}
			template.JurisdictionID = &jurisdiction.ID
		}

		if offsets, err := parseReminderList(cellAt(row, 9)); err != nil {
			recordRowError(result, sheetTemplates, i+1, err)
			continue
		} else {
			template.SetReminderOffsets(offsets)
		}

		if priority := strings.ToUpper(strings.TrimSpace(cellAt(row, 10))); priority != "" {
			template.Priority = priority
		}

		if err := CreateTemplate(db, &template); err != nil {
			recordRowError(result, sheetTemplates, i+1, err)
			continue
		}
		result.SuccessCount++
	}
}

func recordRowError(result *ImportResult, sheet string, rowNum int, err error) {
	result.FailedCount++
	result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", sheet, rowNum, err))
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseYesNo(value string, defaultValue bool) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "YES", "Y", "TRUE", "1":
		return true
	case "NO", "N", "FALSE", "0":
		return false
	default:
		return defaultValue
	}
}

func parseReminderList(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []int{}, nil
	}
	parts := strings.Split(value, ",")
	offsets := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid reminder day %q", part)
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}
