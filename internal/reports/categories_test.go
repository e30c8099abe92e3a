package reports

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi   float64
		label string
		level Level
	}{
		{17.9, "Underweight", LevelLow},
		{18.5, "Normal", LevelNormal},
		{22.9, "Normal", LevelNormal},
		{25, "Overweight", LevelElevated},
		{31, "Obese", LevelHigh},
	}
	for _, tt := range tests {
		c, ok := BMICategory(tt.bmi)
		assert.True(t, ok)
		assert.Equal(t, tt.label, c.Label, "bmi %v", tt.bmi)
		assert.Equal(t, tt.level, c.Level)
	}

	_, ok := BMICategory(math.NaN())
	assert.False(t, ok)
	_, ok = BMICategory(0)
	assert.False(t, ok)
}

func TestBloodPressureCategory(t *testing.T) {
	c, _ := BloodPressureCategory(85, 70)
	assert.Equal(t, LevelLow, c.Level)
	c, _ = BloodPressureCategory(120, 80)
	assert.Equal(t, LevelNormal, c.Level)
	c, _ = BloodPressureCategory(135, 85)
	assert.Equal(t, LevelElevated, c.Level)
	c, _ = BloodPressureCategory(150, 95)
	assert.Equal(t, LevelHigh, c.Level)

	_, ok := BloodPressureCategory(120, 0)
	assert.False(t, ok)
}

func TestHeartRateCategory(t *testing.T) {
	c, _ := HeartRateCategory(55)
	assert.Equal(t, "Slow", c.Label)
	c, _ = HeartRateCategory(100)
	assert.Equal(t, "Normal", c.Label)
	c, _ = HeartRateCategory(101)
	assert.Equal(t, "Fast", c.Label)
}

func TestReminderTypeLabel(t *testing.T) {
	assert.Equal(t, "Check-up", ReminderTypeLabel(v1.ReminderCheckup))
	assert.Equal(t, "Other", ReminderTypeLabel("bogus"))
}

func TestDayNames(t *testing.T) {
	assert.Equal(t, "Mon, Wed, Sun", DayNames([]int{1, 3, 0}))
	assert.Equal(t, "", DayNames([]int{9}))
}
