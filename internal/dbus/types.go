package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/cardui/internal/model"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name owned by the notification daemon.
	DBusBusName = "org.freedesktop.Notifications"
)

// Expire timeouts with special meaning.
const (
	ExpireDefault int32 = -1 // Server default
	ExpireNever   int32 = 0
)

// Category hints used for card notifications.
const (
	CategoryNotice    = "card.notice"
	CategoryInfo      = "card.info"
	CategorySuccess   = "card.success"
	CategoryError     = "card.error"
	CategoryImage     = "card.image"
	CategoryDialog    = "card.dialog"
	CategoryCountdown = "card.countdown"
)

// Dialog action keys.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved/undefined per the spec.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Notification is an outgoing Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Args returns the Notify arguments in wire order.
func (n *Notification) Args() []interface{} {
	actions := n.Actions
	if actions == nil {
		actions = []string{}
	}
	hints := n.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}
	return []interface{}{
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		actions,
		hints,
		n.ExpireTimeout,
	}
}

// Action represents a notification action with key and label.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ParsedActions converts the D-Bus action array to structured form.
// D-Bus actions are passed as alternating key/label pairs.
func (n *Notification) ParsedActions() []Action {
	actions := make([]Action, 0, len(n.Actions)/2)
	for i := 0; i+1 < len(n.Actions); i += 2 {
		actions = append(actions, Action{
			Key:   n.Actions[i],
			Label: n.Actions[i+1],
		})
	}
	return actions
}

// Urgency extracts the urgency hint from the notification.
// Returns model.UrgencyNormal if not specified.
func (n *Notification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return model.UrgencyNormal
}

// Category extracts the category hint from the notification.
func (n *Notification) Category() string {
	return n.stringHint("category")
}

// ImagePath extracts the image-path hint.
func (n *Notification) ImagePath() string {
	return n.stringHint("image-path")
}

// Style extracts the countdown style identifier hint.
func (n *Notification) Style() string {
	return n.stringHint("x-cardui-style")
}

// Resident returns true if the resident hint is set.
// Resident notifications are not removed after an action is invoked.
func (n *Notification) Resident() bool {
	return n.boolHint("resident")
}

// Transient returns true if the transient hint is set.
func (n *Notification) Transient() bool {
	return n.boolHint("transient")
}

// Progress extracts the progress value hint.
// Returns -1 if not present, 0-100 for valid progress values.
func (n *Notification) Progress() int {
	if v, ok := n.Hints["value"]; ok {
		switch val := v.Value().(type) {
		case int32:
			return int(val)
		case uint32:
			return int(val)
		case int:
			return val
		case byte:
			return int(val)
		}
	}
	return -1
}

func (n *Notification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (n *Notification) boolHint(key string) bool {
	if v, ok := n.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// SeverityCategory returns the category hint for a toast severity.
func SeverityCategory(s model.Severity) string {
	switch s {
	case model.SeverityInfo:
		return CategoryInfo
	case model.SeveritySuccess:
		return CategorySuccess
	case model.SeverityError:
		return CategoryError
	default:
		return CategoryNotice
	}
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string `json:"name" yaml:"name"`
	Vendor      string `json:"vendor" yaml:"vendor"`
	Version     string `json:"version" yaml:"version"`
	SpecVersion string `json:"spec_version" yaml:"spec_version"`
}
