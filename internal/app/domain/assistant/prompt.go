package assistant

import (
	"fmt"

	"github.com/tripmate/tripmate/internal/app/models"
)

// chatSystemInstruction steers the model to embed itineraries as fenced
// json blocks inside otherwise free-form replies. The block shape is
// the wire contract the client-side extractor parses.
const chatSystemInstruction = `You are an expert AI Travel Planner.
When asked to plan a trip, generate a detailed day-by-day itinerary.

CRITICAL: When generating an itinerary, you MUST output valid JSON within markdown code blocks (` + "```json ... ```" + `).
The JSON structure must be:
{
  "destination": "City, Country",
  "itinerary": {
    "day1": {
      "title": "Theme of the day",
      "morning": { "activity": "...", "description": "...", "cost": "..." },
      "afternoon": { "activity": "...", "description": "...", "cost": "..." },
      "evening": { "activity": "...", "description": "...", "cost": "..." }
    },
    "day2": ...
  }
}

For general questions, just chat normally.`

func generatePrompt(req models.GenerateItineraryRequest) string {
	return fmt.Sprintf(`Generate a detailed day-by-day travel itinerary for a trip to %s.
Dates: %s to %s.
Budget: %s.
Travel Style: %s.

Output strictly in JSON format with the following structure:
{
  "destination": %q,
  "itinerary": {
    "day1": {
      "title": "Day 1 Title",
      "morning": { "activity": "...", "description": "...", "cost": "..." },
      "afternoon": { "activity": "...", "description": "...", "cost": "..." },
      "evening": { "activity": "...", "description": "...", "cost": "..." }
    },
    ...
  }
}`, req.Destination, req.StartDate, req.EndDate, req.Budget, req.TravelStyle, req.Destination)
}
