package models

type InsightResult struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}
