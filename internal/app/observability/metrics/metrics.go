package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal         metric.Int64Counter
	HTTPRequestDuration       metric.Float64Histogram
	ChatStreamsTotal          metric.Int64Counter
	ChatStreamFailuresTotal   metric.Int64Counter
	ChatFragmentsTotal        metric.Int64Counter
	ItineraryGenerationsTotal metric.Int64Counter
	ItinerarySavesTotal       metric.Int64Counter
	AuthRequestsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once,
// pulling the meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripmate")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.ChatStreamsTotal, err = meter.Int64Counter(
			"chat_streams_total",
			metric.WithDescription("Assistant response streams opened"),
			metric.WithUnit("{stream}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_streams_total: %v", err)
		}

		m.ChatStreamFailuresTotal, err = meter.Int64Counter(
			"chat_stream_failures_total",
			metric.WithDescription("Assistant response streams that ended in a transport or upstream error"),
			metric.WithUnit("{stream}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_stream_failures_total: %v", err)
		}

		m.ChatFragmentsTotal, err = meter.Int64Counter(
			"chat_fragments_total",
			metric.WithDescription("Text fragments flushed to chat stream clients"),
			metric.WithUnit("{fragment}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_fragments_total: %v", err)
		}

		m.ItineraryGenerationsTotal, err = meter.Int64Counter(
			"itinerary_generations_total",
			metric.WithDescription("Structured itinerary generations served"),
			metric.WithUnit("{generation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generations_total: %v", err)
		}

		m.ItinerarySavesTotal, err = meter.Int64Counter(
			"itinerary_saves_total",
			metric.WithDescription("Itineraries saved to user profiles"),
			metric.WithUnit("{save}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_saves_total: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics instance. Panics when called
// before InitAppMetrics, which is a wiring bug.
func Get() *AppMetrics {
	if appMetrics == nil {
		log.Fatal("Metrics: Get() called before InitAppMetrics()")
	}
	return appMetrics
}
