package v1

import "time"

const (
	// DateLayout is the calendar date format used by forms and query params.
	DateLayout = "2006-01-02"
	// ClockLayout is the HH:MM format used by reminders, slots and sleep entries.
	ClockLayout = "15:04"
)

// BloodPressure is a systolic/diastolic pair in mmHg. Either side may be
// missing in stored records.
type BloodPressure struct {
	Systolic  *float64 `json:"systolic,omitempty"`
	Diastolic *float64 `json:"diastolic,omitempty"`
}

// Complete reports whether both readings are present.
func (bp *BloodPressure) Complete() bool {
	return bp != nil && bp.Systolic != nil && bp.Diastolic != nil
}

// HealthRecord is a point-in-time measurement. Height is in cm, weight in
// kg, temperature in °C, blood sugar in mg/dL.
type HealthRecord struct {
	ID            string         `json:"_id"`
	Height        *float64       `json:"height,omitempty"`
	Weight        *float64       `json:"weight,omitempty"`
	BloodPressure *BloodPressure `json:"bloodPressure,omitempty"`
	HeartRate     *float64       `json:"heartRate,omitempty"`
	BloodSugar    *float64       `json:"bloodSugar,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	Note          string         `json:"note,omitempty"`
	RecordDate    *time.Time     `json:"recordDate,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// HealthRecordInput is the create/update form for a health record.
type HealthRecordInput struct {
	Height        *float64       `json:"height,omitempty"`
	Weight        *float64       `json:"weight,omitempty"`
	BloodPressure *BloodPressure `json:"bloodPressure,omitempty"`
	HeartRate     *float64       `json:"heartRate,omitempty"`
	BloodSugar    *float64       `json:"bloodSugar,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	Note          string         `json:"note,omitempty"`
}

// Validate requires at least one of height or weight, and rejects
// non-positive measurements.
func (in HealthRecordInput) Validate() error {
	if in.Height == nil && in.Weight == nil {
		return invalid("enter at least a height or a weight")
	}
	fields := []struct {
		name string
		v    *float64
	}{
		{"height", in.Height},
		{"weight", in.Weight},
		{"heart rate", in.HeartRate},
		{"blood sugar", in.BloodSugar},
		{"temperature", in.Temperature},
	}
	for _, f := range fields {
		if f.v != nil && *f.v <= 0 {
			return invalid(f.name + " must be positive")
		}
	}
	return nil
}

// InputFromRecord pre-fills an edit form from a stored record.
func InputFromRecord(r HealthRecord) HealthRecordInput {
	return HealthRecordInput{
		Height:        r.Height,
		Weight:        r.Weight,
		BloodPressure: r.BloodPressure,
		HeartRate:     r.HeartRate,
		BloodSugar:    r.BloodSugar,
		Temperature:   r.Temperature,
		Note:          r.Note,
	}
}

// RecordQuery filters the health record list.
type RecordQuery struct {
	ListQuery
	StartDate string `url:"startDate,omitempty"`
	EndDate   string `url:"endDate,omitempty"`
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }
