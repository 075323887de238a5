// Package notify reports finished exports and failed imports or uploads
// through desktop notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pinmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when a document or image has been written.
	EventExport Event = "export"
	// EventImport fires when an import succeeds or fails.
	EventImport Event = "import"
	// EventAsset fires when attaching or loading an image fails.
	EventAsset Event = "asset"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
	Failure  string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s", Failure: "Export failed: %s"},
			EventImport: {Template: "Imported %s", Failure: "Import failed: %s"},
			EventAsset:  {Template: "Added %s", Failure: "Image upload failed: %s"},
		},
	}
}

// LoadPreferences reads overrides from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PINMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			p := prefs.Events[event]
			p.Template = v
			prefs.Events[event] = p
		}
	}
	apply("PINMARK_NOTIFY_EXPORT_TEXT", EventExport)
	apply("PINMARK_NOTIFY_IMPORT_TEXT", EventImport)
	apply("PINMARK_NOTIFY_ASSET_TEXT", EventAsset)
	return prefs
}

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    func(title, body string, opts platform.Options) error
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Exported reports a written file, using preview as the icon when given.
func (n *Notifier) Exported(path string, preview image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := path
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	opts := platform.Options{Urgency: platform.UrgencyNormal}
	if preview != nil {
		if icon, cleanup, err := createPreview(preview); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = icon
		}
	}
	n.dispatch(EventExport, n.template(EventExport, false), detail, opts)
}

// Imported reports a successful import.
func (n *Notifier) Imported(name string) {
	n.dispatch(EventImport, n.template(EventImport, false), name, platform.Options{Urgency: platform.UrgencyNormal})
}

// Failed reports a recoverable failure for event.
func (n *Notifier) Failed(event Event, err error) {
	if err == nil {
		return
	}
	n.dispatch(event, n.template(event, true), err.Error(), platform.Options{Urgency: platform.UrgencyCritical})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, template, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template = strings.TrimSpace(template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event, failure bool) string {
	if n == nil {
		return ""
	}
	pref := n.prefs.Events[event]
	if failure {
		return pref.Failure
	}
	return pref.Template
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "pinmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
