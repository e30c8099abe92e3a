package reports

import (
	"time"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// BuildHealthReport completes server with values derived from records. Each
// non-empty server series and each set server scalar wins; anything missing
// is computed from records. A zero server report yields a fully
// client-computed one.
func BuildHealthReport(server v1.HealthReport, records []v1.HealthRecord, loc *time.Location) v1.HealthReport {
	out := server
	out.Records = records

	if len(out.WeightHistory) == 0 {
		out.WeightHistory = WeightHistory(records)
	}
	if len(out.BMIHistory) == 0 {
		out.BMIHistory = BMIHistory(records)
	}
	if len(out.BloodPressureHistory) == 0 {
		out.BloodPressureHistory = BloodPressureHistory(records)
	}
	if out.AverageWeight == nil {
		if avg, ok := AverageWeight(out.WeightHistory); ok {
			out.AverageWeight = &avg
		}
	}
	if out.ActiveDays == 0 {
		out.ActiveDays = ActiveDays(records, loc)
	}
	if out.TotalRecords == 0 {
		out.TotalRecords = len(records)
	}
	return out
}

// BuildChatbotReport completes server with values derived from chats,
// following the same precedence as BuildHealthReport.
func BuildChatbotReport(server v1.ChatbotReport, chats []v1.ChatExchange, loc *time.Location) v1.ChatbotReport {
	out := server

	if len(out.RecentActivity) == 0 {
		out.RecentActivity = RecentActivity(chats, loc)
	}
	if len(out.PopularTopics) == 0 {
		out.PopularTopics = PopularTopics(chats)
	}
	if out.AverageRating == nil {
		if avg, ok := AverageRating(chats); ok {
			out.AverageRating = &avg
		}
	}
	if out.TotalChats == 0 {
		out.TotalChats = len(chats)
	}
	return out
}
