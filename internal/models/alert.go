package models

import "time"

// AlertKind classifies the severity of an alert shown to the driver.
type AlertKind string

const (
	AlertDanger  AlertKind = "danger"
	AlertWarning AlertKind = "warning"
	AlertInfo    AlertKind = "info"
	AlertSuccess AlertKind = "success"
)

// Alert is a single timestamped driver notification. Alerts are immutable
// once created; eviction from the alert log is the only removal mechanism.
type Alert struct {
	ID        int64     `json:"id"`
	Kind      AlertKind `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
