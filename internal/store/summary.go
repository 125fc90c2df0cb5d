package store

import "github.com/pathakanu/salaahTracker/internal/model"

// Day completion statuses.
const (
	StatusAllComplete = "All Complete"
	StatusPartial     = "Partial"
	StatusNone        = "None"
)

// DaySummary aggregates one day's prayer logs.
type DaySummary struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Status    string `json:"status"`
}

// Summarize groups logs by day in date order. logs must already be sorted by date.
func Summarize(logs []model.PrayerLog) []DaySummary {
	var out []DaySummary
	for _, l := range logs {
		if len(out) == 0 || out[len(out)-1].Date != l.PrayerDate {
			out = append(out, DaySummary{Date: l.PrayerDate})
		}
		day := &out[len(out)-1]
		day.Total++
		if l.Completed {
			day.Completed++
		}
	}
	for i := range out {
		switch {
		case out[i].Completed == out[i].Total:
			out[i].Status = StatusAllComplete
		case out[i].Completed == 0:
			out[i].Status = StatusNone
		default:
			out[i].Status = StatusPartial
		}
	}
	return out
}
