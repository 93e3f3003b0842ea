package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialbook_registrations_total",
		Help: "Number of registration attempts grouped by status.",
	}, []string{"status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialbook_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	photoUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialbook_photo_uploads_total",
		Help: "Number of photo uploads grouped by status.",
	}, []string{"status"})

	friendAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialbook_friend_adds_total",
		Help: "Number of add-friend attempts grouped by status.",
	}, []string{"status"})
)

// IncRegister increments the registration counter.
func IncRegister(status string) {
	registrations.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncUpload increments the photo upload counter.
func IncUpload(status string) {
	photoUploads.WithLabelValues(status).Inc()
}

// IncFriendAdd increments the add-friend counter.
func IncFriendAdd(status string) {
	friendAdds.WithLabelValues(status).Inc()
}
