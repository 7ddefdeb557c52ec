package metrics

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "reporter_"

	// ResultSuccess labels successful operations.
	ResultSuccess = "success"
	// ResultError labels failed operations.
	ResultError = "error"
	// ResultNotFound labels empty-result outcomes.
	ResultNotFound = "not_found"
)

var (
	registerOnce sync.Once

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	customerListTotal *prometheus.CounterVec
)

// Init registers observability metrics.
func Init(logger *log.Logger) {
	registerOnce.Do(func() {
		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generations by result",
			},
			[]string{"result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		customerListTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "customer_list_total",
				Help: "Total customer filter lookups by result",
			},
			[]string{"result"},
		)

		collectors := []prometheus.Collector{
			reportGenerateTotal,
			reportGenerateLatency,
			reportExportTotal,
			reportExportLatency,
			customerListTotal,
		}
		for _, collector := range collectors {
			if err := prometheus.Register(collector); err != nil {
				if logger != nil {
					logger.Printf("metrics register error: %v", err)
				}
			}
		}
	})
}

// ObserveReportGenerate records one report generation.
func ObserveReportGenerate(result string, elapsed time.Duration) {
	if reportGenerateTotal == nil {
		return
	}
	reportGenerateTotal.WithLabelValues(result).Inc()
	reportGenerateLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ObserveReportExport records one export by format.
func ObserveReportExport(format, result string, elapsed time.Duration) {
	if reportExportTotal == nil {
		return
	}
	reportExportTotal.WithLabelValues(format, result).Inc()
	reportExportLatency.WithLabelValues(format, result).Observe(elapsed.Seconds())
}

// ObserveCustomerList records one customer filter lookup.
func ObserveCustomerList(result string) {
	if customerListTotal == nil {
		return
	}
	customerListTotal.WithLabelValues(result).Inc()
}
