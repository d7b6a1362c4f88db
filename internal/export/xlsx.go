// Package export renders subscribed registrations as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"regbot/entity"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName  = "Sheet1"
	dateLayout = "2006-01-02 15:04:05"
)

type column struct {
	title string
	value func(reg *entity.Registration) string
}

var generalColumns = []column{
	{"Full Name", func(r *entity.Registration) string { return r.FullName }},
	{"School", func(r *entity.Registration) string { return r.School }},
	{"Grade", func(r *entity.Registration) string { return gradeValue(r.Grade) }},
	{"Subjects", func(r *entity.Registration) string { return r.Subjects }},
	{"Registration Date", func(r *entity.Registration) string { return r.CreatedAt.Format(dateLayout) }},
}

var studyCenterColumns = []column{
	{"Full Name", func(r *entity.Registration) string { return r.FullName }},
	{"Phone", func(r *entity.Registration) string { return r.Phone }},
	{"Subjects", func(r *entity.Registration) string { return r.Subjects }},
	{"Registration Date", func(r *entity.Registration) string { return r.CreatedAt.Format(dateLayout) }},
}

func gradeValue(grade int) string {
	if grade == 0 {
		return ""
	}
	return strconv.Itoa(grade)
}

func columnsFor(flow entity.Flow) ([]column, error) {
	switch flow {
	case entity.FlowGeneral:
		return generalColumns, nil
	case entity.FlowStudyCenter:
		return studyCenterColumns, nil
	default:
		return nil, fmt.Errorf("no export layout for flow %q", flow)
	}
}

// FileName is the download name for a flow export.
func FileName(flow entity.Flow) string {
	if flow == entity.FlowGeneral {
		return "registrations.xlsx"
	}
	return fmt.Sprintf("%s_registrations.xlsx", flow)
}

// Write renders the records in the given order with a bold header row.
func Write(w io.Writer, flow entity.Flow, list []*entity.Registration) error {
	columns, err := columnsFor(flow)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err = f.SetCellValue(sheetName, cell, c.title); err != nil {
			return fmt.Errorf("header %s: %w", c.title, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for row, reg := range list {
		for i, c := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(sheetName, cell, c.value(reg)); err != nil {
				return fmt.Errorf("row %d: %w", row+2, err)
			}
		}
	}

	lastColumn, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err = f.SetColWidth(sheetName, "A", lastColumn, 24); err != nil {
		return err
	}

	return f.Write(w)
}
