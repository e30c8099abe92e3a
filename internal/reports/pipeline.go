package reports

import (
	"math"
	"slices"
	"time"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// RecentActivityDays caps RecentActivity.
const RecentActivityDays = 5

// DefaultTopic is used for chat exchanges without a category.
const DefaultTopic = "other"

// WeightHistory returns the records that carry a weight, oldest first.
func WeightHistory(records []v1.HealthRecord) []v1.WeightPoint {
	out := make([]v1.WeightPoint, 0, len(records))
	for _, r := range records {
		if r.Weight == nil {
			continue
		}
		out = append(out, v1.WeightPoint{Date: r.CreatedAt, Weight: *r.Weight})
	}
	slices.SortStableFunc(out, func(a, b v1.WeightPoint) int { return a.Date.Compare(b.Date) })
	return out
}

// BMI computes weight / (height/100)^2 rounded to one decimal. It reports
// false when the result is not a finite positive number.
func BMI(weightKg, heightCm float64) (float64, bool) {
	m := heightCm / 100
	bmi := math.Round(weightKg/(m*m)*10) / 10
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) || bmi <= 0 {
		return 0, false
	}
	return bmi, true
}

// BMIHistory returns the BMI of every record with both weight and height,
// oldest first.
func BMIHistory(records []v1.HealthRecord) []v1.BMIPoint {
	out := make([]v1.BMIPoint, 0, len(records))
	for _, r := range records {
		if r.Weight == nil || r.Height == nil {
			continue
		}
		bmi, ok := BMI(*r.Weight, *r.Height)
		if !ok {
			continue
		}
		out = append(out, v1.BMIPoint{Date: r.CreatedAt, BMI: bmi})
	}
	slices.SortStableFunc(out, func(a, b v1.BMIPoint) int { return a.Date.Compare(b.Date) })
	return out
}

// BloodPressureHistory returns the records with both readings, oldest first.
func BloodPressureHistory(records []v1.HealthRecord) []v1.BloodPressurePoint {
	out := make([]v1.BloodPressurePoint, 0, len(records))
	for _, r := range records {
		if !r.BloodPressure.Complete() {
			continue
		}
		out = append(out, v1.BloodPressurePoint{
			Date:      r.CreatedAt,
			Systolic:  *r.BloodPressure.Systolic,
			Diastolic: *r.BloodPressure.Diastolic,
		})
	}
	slices.SortStableFunc(out, func(a, b v1.BloodPressurePoint) int { return a.Date.Compare(b.Date) })
	return out
}

// AverageWeight is the mean of the series. ok is false for an empty series.
func AverageWeight(history []v1.WeightPoint) (avg float64, ok bool) {
	if len(history) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range history {
		sum += p.Weight
	}
	return sum / float64(len(history)), true
}

// ActiveDays counts the distinct calendar days in loc on which records were
// created. A nil loc means time.Local.
func ActiveDays(records []v1.HealthRecord, loc *time.Location) int {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[localDay(r.CreatedAt, loc)] = struct{}{}
	}
	return len(days)
}

// RecentActivity counts chat exchanges per calendar day in loc, newest day
// first, keeping at most RecentActivityDays days.
func RecentActivity(chats []v1.ChatExchange, loc *time.Location) []v1.DateCount {
	counts := make(map[string]int)
	for _, c := range chats {
		counts[localDay(c.CreatedAt, loc)]++
	}

	out := make([]v1.DateCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, v1.DateCount{Date: day, Count: n})
	}
	// Dates are YYYY-MM-DD so string order is chronological.
	slices.SortFunc(out, func(a, b v1.DateCount) int {
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
	if len(out) > RecentActivityDays {
		out = out[:RecentActivityDays]
	}
	return out
}

// PopularTopics counts chat exchanges per category, most frequent first.
// Ties keep the order in which topics first appear.
func PopularTopics(chats []v1.ChatExchange) []v1.TopicCount {
	index := make(map[string]int)
	out := make([]v1.TopicCount, 0)
	for _, c := range chats {
		topic := c.Category
		if topic == "" {
			topic = DefaultTopic
		}
		i, seen := index[topic]
		if !seen {
			i = len(out)
			index[topic] = i
			out = append(out, v1.TopicCount{Topic: topic})
		}
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b v1.TopicCount) int { return b.Count - a.Count })
	return out
}

// AverageRating is the mean of the ratings that are set. ok is false when
// no exchange is rated.
func AverageRating(chats []v1.ChatExchange) (avg float64, ok bool) {
	var sum, n int
	for _, c := range chats {
		if c.Rating == nil {
			continue
		}
		sum += *c.Rating
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

func localDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(v1.DateLayout)
}
