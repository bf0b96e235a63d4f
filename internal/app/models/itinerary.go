package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Segment is one time-of-day slice of a day's plan. All fields are
// optional on the wire; a missing field is never an error.
type Segment struct {
	Activity    string `json:"activity"`
	Description string `json:"description"`
	Cost        string `json:"cost,omitempty"`
}

// DayPlan holds up to three time-of-day segments. A day with no
// populated segments is still a valid day.
type DayPlan struct {
	Key       string   `json:"key"`
	Title     string   `json:"title,omitempty"`
	Morning   *Segment `json:"morning,omitempty"`
	Afternoon *Segment `json:"afternoon,omitempty"`
	Evening   *Segment `json:"evening,omitempty"`
}

// Itinerary is the canonical day-by-day travel plan extracted from an
// assistant response. Days keep the order their keys appeared in the
// source payload; they are never re-sorted.
type Itinerary struct {
	Destination string    `json:"destination"`
	Days        []DayPlan `json:"days"`
}

// WireFormat re-serializes the itinerary into the embedding format the
// assistant emits: a destination plus day-keyed objects. The day keys
// are written out by hand in Days order; marshalling them through a map
// would sort "day10" between "day1" and "day2".
func (it *Itinerary) WireFormat() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"destination":`)
	dest, err := json.Marshal(it.Destination)
	if err != nil {
		return nil, err
	}
	buf.Write(dest)
	buf.WriteString(`,"itinerary":{`)
	for i, d := range it.Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		day := map[string]any{}
		if d.Title != "" {
			day["title"] = d.Title
		}
		if d.Morning != nil {
			day["morning"] = d.Morning
		}
		if d.Afternoon != nil {
			day["afternoon"] = d.Afternoon
		}
		if d.Evening != nil {
			day["evening"] = d.Evening
		}
		body, err := json.Marshal(day)
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// SaveItineraryRequest is the body accepted by the persistence endpoint.
type SaveItineraryRequest struct {
	Destination   string          `json:"destination"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Budget        string          `json:"budget"`
	TravelStyle   string          `json:"travel_style"`
	ItineraryJSON json.RawMessage `json:"itinerary_json"`
}

// GenerateItineraryRequest asks the assistant for a structured plan
// directly, outside the conversational flow.
type GenerateItineraryRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Budget      string `json:"budget"`
	TravelStyle string `json:"travel_style"`
}

// SavedItinerary is a persisted itinerary row.
type SavedItinerary struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Destination   string          `json:"destination"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Budget        string          `json:"budget"`
	TravelStyle   string          `json:"travel_style"`
	ItineraryJSON json.RawMessage `json:"itinerary_json"`
	CreatedAt     time.Time       `json:"created_at"`
}
