package v1

import "time"

// WeightPoint is one sample of the weight series.
type WeightPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// BMIPoint is one sample of the BMI series.
type BMIPoint struct {
	Date time.Time `json:"date"`
	BMI  float64   `json:"bmi"`
}

// BloodPressurePoint is one sample of the blood pressure series.
type BloodPressurePoint struct {
	Date      time.Time `json:"date"`
	Systolic  float64   `json:"systolic"`
	Diastolic float64   `json:"diastolic"`
}

// DateCount counts events on one local calendar day (YYYY-MM-DD).
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TopicCount counts chat exchanges in one category.
type TopicCount struct {
	Topic string `json:"name"`
	Count int    `json:"count"`
}

// HealthReport is the health statistics view. The server may pre-aggregate
// any part of it; missing parts are derived from Records on the client.
type HealthReport struct {
	TotalRecords         int                  `json:"totalRecords"`
	AverageWeight        *float64             `json:"averageWeight,omitempty"`
	ActiveDays           int                  `json:"activeDays"`
	WeightHistory        []WeightPoint        `json:"weightHistory"`
	BMIHistory           []BMIPoint           `json:"bmiHistory"`
	BloodPressureHistory []BloodPressurePoint `json:"bloodPressureHistory"`
	Records              []HealthRecord       `json:"records,omitempty"`
}

// ChatbotReport is the consultation statistics view.
type ChatbotReport struct {
	TotalChats     int          `json:"totalChats"`
	AverageRating  *float64     `json:"averageRating,omitempty"`
	RecentActivity []DateCount  `json:"recentActivity"`
	PopularTopics  []TopicCount `json:"popularTopics"`
}

// DashboardReport is the per-user overview summary.
type DashboardReport struct {
	HealthSummary struct {
		TotalRecords int `json:"totalRecords"`
	} `json:"healthSummary"`
	ChatSummary struct {
		TotalQuestions int `json:"totalQuestions"`
	} `json:"chatSummary"`
}

// AdminStats is the platform-wide admin summary.
type AdminStats struct {
	TotalHealthRecords   int `json:"totalHealthRecords"`
	TotalChatQuestions   int `json:"totalChatQuestions"`
	TotalActiveReminders int `json:"totalActiveReminders"`
}

// ReportQuery selects a report window. Period is week, month or year.
type ReportQuery struct {
	Period    string `url:"period,omitempty"`
	StartDate string `url:"startDate,omitempty"`
	EndDate   string `url:"endDate,omitempty"`
}
