package itinerary

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tripmate/tripmate/internal/app/models"
)

// Normalize reshapes a parsed payload into the canonical itinerary
// model. The payload may keep its days under a nested "itinerary"
// container or at the top level; day keys are matched by the "day"
// prefix, case-insensitively, and kept in the order they appear in the
// source text. Missing fields default silently, unknown keys are
// ignored, and zero day keys is a valid (empty) plan.
func Normalize(raw string) (*models.Itinerary, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("payload is not a JSON object")
	}

	container := root
	if inner := root.Get("itinerary"); inner.IsObject() {
		container = inner
	}

	itin := &models.Itinerary{
		Destination: root.Get("destination").String(),
		Days:        []models.DayPlan{},
	}

	container.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !strings.HasPrefix(strings.ToLower(name), "day") {
			return true
		}
		itin.Days = append(itin.Days, dayPlan(name, value))
		return true
	})

	return itin, nil
}

func dayPlan(key string, value gjson.Result) models.DayPlan {
	day := models.DayPlan{Key: key}
	if !value.IsObject() {
		return day
	}
	day.Title = value.Get("title").String()
	day.Morning = segment(value.Get("morning"))
	day.Afternoon = segment(value.Get("afternoon"))
	day.Evening = segment(value.Get("evening"))
	return day
}

func segment(value gjson.Result) *models.Segment {
	if !value.IsObject() {
		return nil
	}
	return &models.Segment{
		Activity:    value.Get("activity").String(),
		Description: value.Get("description").String(),
		Cost:        value.Get("cost").String(),
	}
}
