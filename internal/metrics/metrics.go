package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ForecastsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barocast_forecasts_issued_total",
			Help: "Total forecasts issued",
		},
		[]string{"trend", "condition"},
	)

	ForecastCode = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barocast_forecast_code",
			Help: "Most recent Zambretti code issued for a station",
		},
		[]string{"station"},
	)

	PressureClamped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barocast_pressure_clamped_total",
			Help: "Forecasts whose adjusted pressure reached the station's highest pressure",
		},
	)

	BucketOutOfRange = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barocast_bucket_out_of_range_total",
			Help: "Forecasts whose bucket fell outside the table and was clamped",
		},
	)

	ReadingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barocast_readings_rejected_total",
			Help: "Readings rejected before forecasting",
		},
		[]string{"reason"},
	)

	JournalRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barocast_journal_retries_total",
			Help: "Journal operations retried because the database was busy",
		},
		[]string{"op"},
	)
)

// WriteTextfile writes every registered metric to path in the text
// exposition format, for pickup by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
