package itinerary

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tripmate/tripmate/internal/app/models"
)

// Renderer produces the visual representation handed to the export
// collaborator. Anything that can turn an itinerary into a document
// (terminal view, PDF rasterizer) satisfies this.
type Renderer interface {
	Render(it *models.Itinerary) string
}

// MarkdownRenderer renders the plan as a markdown document: destination
// header, one section per day, one card per populated time-of-day
// segment. A day without segments keeps its header.
type MarkdownRenderer struct {
	titler cases.Caser
}

var _ Renderer = (*MarkdownRenderer)(nil)

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{titler: cases.Title(language.English)}
}

func (r *MarkdownRenderer) Render(it *models.Itinerary) string {
	if it == nil {
		return "_No itinerary generated yet. Start chatting to plan your next adventure!_\n"
	}

	var b strings.Builder
	destination := it.Destination
	if destination == "" {
		destination = "Unknown Destination"
	}
	fmt.Fprintf(&b, "# %s\n", r.titler.String(destination))

	for i, day := range it.Days {
		title := day.Title
		if title == "" {
			title = fmt.Sprintf("Day %d", i+1)
		}
		fmt.Fprintf(&b, "\n## Day %d: %s\n", i+1, title)
		r.renderSegment(&b, "Morning", day.Morning)
		r.renderSegment(&b, "Afternoon", day.Afternoon)
		r.renderSegment(&b, "Evening", day.Evening)
	}

	return b.String()
}

func (r *MarkdownRenderer) renderSegment(b *strings.Builder, label string, seg *models.Segment) {
	if seg == nil {
		return
	}
	fmt.Fprintf(b, "\n**%s: %s**\n", label, seg.Activity)
	if seg.Description != "" {
		fmt.Fprintf(b, "%s\n", seg.Description)
	}
	if seg.Cost != "" {
		fmt.Fprintf(b, "Cost: %s\n", seg.Cost)
	}
}
