package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ContractsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_created_total",
		Help: "Total number of pawn contracts created",
	})

	ContractsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_redeemed_total",
		Help: "Total number of contracts redeemed",
	})

	ContractsRenewedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_renewed_total",
		Help: "Total number of contract renewals recorded",
	})

	ContractsLostTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_lost_total",
		Help: "Total number of contracts marked as forfeited",
	})

	ContractsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contracts_failed_total",
		Help: "Total number of failed contract operations",
	}, []string{"reason"})

	InterestPaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interest_payments_total",
		Help: "Total number of interest payments recorded",
	})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of LINE notifications attempted",
	})

	ForfeitedDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forfeited_contracts_detected_total",
		Help: "Total number of overdue contracts detected by the scanner",
	})

	ReportCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_cache_hits_total",
		Help: "Summary report cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
