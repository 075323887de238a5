// Package platform delivers desktop notifications on the host OS.
package platform

// AppName is reported to the notification service.
const AppName = "Pinmark"

// Urgency ranks a notification.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown with the notification where the
	// platform supports it.
	IconPath string
	Urgency  Urgency
}
