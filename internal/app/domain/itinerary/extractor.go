// Package itinerary turns assistant free text into canonical day-by-day
// travel plans and keeps the session's current plan.
package itinerary

import (
	"regexp"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/models"
)

var (
	fencedJSONRe = regexp.MustCompile("```json\\s*\\n([\\s\\S]*?)\\n```")
	// Removal variants eat one trailing newline so stripping a block
	// does not leave a blank line behind in the bubble.
	fencedJSONStripRe  = regexp.MustCompile("```json\\s*\\n[\\s\\S]*?\\n```\\n?")
	braceSpanRe        = regexp.MustCompile(`\{[\s\S]*\}`)
	barePayloadStripRe = regexp.MustCompile(`\{[\s\S]*"destination"[\s\S]*\}\n?`)
)

// detectionMethod records how a candidate payload was located.
type detectionMethod string

const (
	methodFenced detectionMethod = "fenced"
	methodBare   detectionMethod = "bare"
)

// candidate is a substring suspected to hold a structured payload. It
// lives only until the parse attempt.
type candidate struct {
	raw    string
	method detectionMethod
}

// Extraction is the outcome of scanning one closed assistant turn.
// Itinerary is nil when no payload was found or the payload did not
// parse; the conversation continues either way.
type Extraction struct {
	DisplayText string
	Itinerary   *models.Itinerary
}

// Found reports whether a plan was extracted.
func (e Extraction) Found() bool {
	return e.Itinerary != nil
}

// Extractor locates and parses itinerary payloads embedded in assistant
// responses. Detection is heuristic: the assistant has no dedicated
// structured-output channel, so payloads arrive as fenced json blocks
// or bare objects mixed into prose.
type Extractor struct {
	markers ahocorasick.AhoCorasick
	logger  *zap.Logger
}

// payloadMarkerKeys distinguish an itinerary object from arbitrary JSON
// the assistant may quote in conversation.
var payloadMarkerKeys = []string{`"destination"`, `"itinerary"`}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &Extractor{
		markers: builder.Build(payloadMarkerKeys),
		logger:  logger,
	}
}

// Extract scans the final text of a closed assistant turn. It returns
// the text safe to show in the chat bubble and, when a payload parses,
// the normalized plan. Parse failures are contained here: the caller
// only ever sees "found" or "not found".
func (e *Extractor) Extract(text string) Extraction {
	display := e.DisplayText(text)

	cand, ok := e.detect(text)
	if !ok {
		return Extraction{DisplayText: display}
	}

	itin, err := Normalize(cand.raw)
	if err != nil {
		e.logger.Debug("itinerary candidate did not parse",
			zap.String("method", string(cand.method)),
			zap.Error(err))
		return Extraction{DisplayText: display}
	}

	e.logger.Debug("itinerary extracted",
		zap.String("method", string(cand.method)),
		zap.String("destination", itin.Destination),
		zap.Int("days", len(itin.Days)))
	return Extraction{DisplayText: display, Itinerary: itin}
}

// detect locates the most likely payload. A fenced json block wins over
// a bare object; within the bare fallback the greedy brace span is used
// so the largest object is considered.
func (e *Extractor) detect(text string) (candidate, bool) {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return candidate{raw: m[1], method: methodFenced}, true
	}
	if span := braceSpanRe.FindString(text); span != "" && e.looksLikePayload(span) {
		return candidate{raw: span, method: methodBare}, true
	}
	return candidate{}, false
}

// looksLikePayload scans a brace span for the marker keys.
func (e *Extractor) looksLikePayload(span string) bool {
	return len(e.markers.FindAll(span)) > 0
}

// StreamView renders an in-flight assistant turn. Completed payloads
// are stripped the same way DisplayText strips them; a fence or a
// payload-looking object still open at the end of the partial text is
// held back until the turn closes, so raw JSON never flickers through
// the stream.
func (e *Extractor) StreamView(partial string) string {
	view := fencedJSONStripRe.ReplaceAllString(partial, "")
	view = barePayloadStripRe.ReplaceAllString(view, "")
	if i := strings.Index(view, "```"); i >= 0 {
		view = view[:i]
	}
	if i := strings.Index(view, "{"); i >= 0 {
		tail := view[i:]
		if e.looksLikePayload(tail) || strings.Count(tail, "{") > strings.Count(tail, "}") {
			view = view[:i]
		}
	}
	return strings.TrimSpace(view)
}

// DisplayText strips every fenced json block and any bare destination
// payload so raw JSON never reaches the chat bubble. An assistant turn
// whose whole content was a payload comes back empty and renders as no
// bubble, while the turn itself stays in the transcript.
func (e *Extractor) DisplayText(text string) string {
	cleaned := fencedJSONStripRe.ReplaceAllString(text, "")
	cleaned = barePayloadStripRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
