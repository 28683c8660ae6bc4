package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "repairdesk_http_requests_total", Help: "Total HTTP requests by method, path and status"},
		[]string{"method", "path", "status"},
	)
	OrdersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "repairdesk_orders_created_total", Help: "Total repair orders created"},
	)
	OrdersAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "repairdesk_orders_accepted_total", Help: "Total repair orders claimed by an admin"},
	)
	OrdersCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "repairdesk_orders_completed_total", Help: "Total repair orders completed"},
	)
)

func Register() {
	prometheus.MustRegister(HTTPRequests, OrdersCreated, OrdersAccepted, OrdersCompleted)
}
