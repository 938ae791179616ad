// Package notify posts freedesktop desktop notifications.
package notify

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Title      string // summary, required
	Body       string // optional, basic markup allowed by most servers
	Icon       string // icon name or image path
	Timeout    int32  // ms, -1 = server default, 0 = never expire
	ReplacesID uint32 // 0 = new notification
	Urgency    Urgency
	Transient  bool // keep out of the server's history
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends n and returns its server id, 0 when notifications
	// are unavailable.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification.
	Close(id uint32) error
}

// nopNotifier is used when no notification server is reachable.
type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }
