package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enquiryOps = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "enquiry_operations_total", Help: "Enquiry write operations by kind"},
		[]string{"op"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_login_attempts_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	imageOps = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "stored_images_total", Help: "Image files written / removed"},
		[]string{"action"},
	)
)

func RecordEnquiryOp(op string) { enquiryOps.WithLabelValues(op).Inc() }

func RecordAuthAttempt(result string) { authAttempts.WithLabelValues(result).Inc() }

func RecordImage(action string) { imageOps.WithLabelValues(action).Inc() }
