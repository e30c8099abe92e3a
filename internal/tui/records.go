package tui

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/healthdash/internal/crud"
	"github.com/fyrsmithlabs/healthdash/internal/reports"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// RecordsPage is the list state driving the records screen.
type RecordsPage = crud.Page[v1.HealthRecord, v1.HealthRecordInput]

// RecordsModel is the health record manager.
type RecordsModel = ManagerModel[v1.HealthRecord, v1.HealthRecordInput]

// Record form fields, in screen order.
const (
	fieldWeight = iota
	fieldHeight
	fieldSystolic
	fieldDiastolic
	fieldHeartRate
	fieldBloodSugar
	fieldTemperature
	fieldNote
	fieldCount
)

// NewRecordsModel creates the records screen. notes must be the notifier
// page was created with.
func NewRecordsModel(page *RecordsPage, notes *crud.Log) RecordsModel {
	return NewManagerModel(RecordsScreen(), page, notes)
}

// RecordsScreen lists measurements with their BMI.
func RecordsScreen() Screen[v1.HealthRecord, v1.HealthRecordInput] {
	type form = v1.HealthRecordInput

	fields := make([]Field[form], fieldCount)
	fields[fieldWeight] = floatField("Weight (kg)", "70.5",
		func(f form) *float64 { return f.Weight }, func(f *form, v *float64) { f.Weight = v })
	fields[fieldHeight] = floatField("Height (cm)", "175",
		func(f form) *float64 { return f.Height }, func(f *form, v *float64) { f.Height = v })
	fields[fieldSystolic] = floatField("Systolic", "120",
		func(f form) *float64 {
			if f.BloodPressure == nil {
				return nil
			}
			return f.BloodPressure.Systolic
		},
		func(f *form, v *float64) { setPressure(f, v, true) })
	fields[fieldDiastolic] = floatField("Diastolic", "80",
		func(f form) *float64 {
			if f.BloodPressure == nil {
				return nil
			}
			return f.BloodPressure.Diastolic
		},
		func(f *form, v *float64) { setPressure(f, v, false) })
	fields[fieldHeartRate] = floatField("Heart rate", "72",
		func(f form) *float64 { return f.HeartRate }, func(f *form, v *float64) { f.HeartRate = v })
	fields[fieldBloodSugar] = floatField("Blood sugar", "95",
		func(f form) *float64 { return f.BloodSugar }, func(f *form, v *float64) { f.BloodSugar = v })
	fields[fieldTemperature] = floatField("Temperature", "36.6",
		func(f form) *float64 { return f.Temperature }, func(f *form, v *float64) { f.Temperature = v })
	fields[fieldNote] = textField("Note", "optional",
		func(f form) string { return f.Note }, func(f *form, v string) { f.Note = v })
	fields[fieldNote].Limit = 200

	return Screen[v1.HealthRecord, v1.HealthRecordInput]{
		Title: "Health records",
		Noun:  "health record",
		Empty: "No health records yet. Press n to add one.",
		Columns: []Column[v1.HealthRecord]{
			{Title: "DATE", Width: 17, Cell: func(r v1.HealthRecord) string { return FormatDateTime(r.CreatedAt) }},
			{Title: "WEIGHT", Width: 9, Cell: func(r v1.HealthRecord) string { return FormatOptional(r.Weight, 1, "kg") }},
			{Title: "HEIGHT", Width: 7, Cell: func(r v1.HealthRecord) string { return FormatOptional(r.Height, 0, "") }},
			{Title: "BMI", Width: 6, Cell: recordBMI},
			{Title: "PRESSURE", Width: 12, Cell: func(r v1.HealthRecord) string {
				return strings.TrimSuffix(FormatBloodPressure(r.BloodPressure), " mmHg")
			}},
			{Title: "HR", Width: 8, Cell: func(r v1.HealthRecord) string { return FormatOptional(r.HeartRate, 0, "") }},
			{Title: "NOTE", Cell: func(r v1.HealthRecord) string { return Truncate(r.Note, 24) }},
		},
		Fields:  fields,
		Detail:  recordDetail,
		Confirm: func(r v1.HealthRecord) string { return fmt.Sprintf("Delete the record from %s?", FormatDateTime(r.CreatedAt)) },
	}
}

// setPressure sets one side of the blood pressure, dropping the pair when
// both sides are empty.
func setPressure(f *v1.HealthRecordInput, v *float64, systolic bool) {
	bp := v1.BloodPressure{}
	if f.BloodPressure != nil {
		bp = *f.BloodPressure
	}
	if systolic {
		bp.Systolic = v
	} else {
		bp.Diastolic = v
	}
	if bp.Systolic == nil && bp.Diastolic == nil {
		f.BloodPressure = nil
		return
	}
	f.BloodPressure = &bp
}

func recordBMI(r v1.HealthRecord) string {
	if r.Weight != nil && r.Height != nil {
		if v, ok := reports.BMI(*r.Weight, *r.Height); ok {
			return fmt.Sprintf("%.1f", v)
		}
	}
	return Placeholder
}

func recordDetail(r v1.HealthRecord) string {
	body := latestRecord(r)
	if r.BloodSugar != nil || r.Temperature != nil {
		body += "\n" + labelStyle.Render("Blood sugar: ") + FormatOptional(r.BloodSugar, 0, "mg/dL")
		body += "\n" + labelStyle.Render("Temperature: ") + FormatOptional(r.Temperature, 1, "°C")
	}
	if r.Note != "" {
		body += "\n" + labelStyle.Render("Note:        ") + r.Note
	}
	return body
}
