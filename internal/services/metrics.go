package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// haikuGenerations counts generate requests by provider and outcome
	// (ok, poem_error, country_error, save_error).
	haikuGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haiku_generations_total",
			Help: "Total number of haiku generation attempts.",
		},
		[]string{"provider", "outcome"},
	)

	// countryLookups counts country resolutions by outcome
	// (absent, found, created, error).
	countryLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "country_lookups_total",
			Help: "Total number of client country resolutions.",
		},
		[]string{"outcome"},
	)

	// logEntries counts reported failures by service and whether the audit
	// row was persisted.
	logEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "error_reports_total",
			Help: "Total number of failures handed to the error reporter.",
		},
		[]string{"service", "persisted"},
	)
)

func init() {
	prometheus.MustRegister(haikuGenerations, countryLookups, logEntries)
}
