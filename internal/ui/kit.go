package ui

// Kit groups the three facades built over one capability set.
type Kit struct {
	Notifications *NotificationFacade
	Widgets       *WidgetTriggers
	Popovers      *PopoverBinder
}

// NewKit bundles the facades.
func NewKit(n *NotificationFacade, w *WidgetTriggers, p *PopoverBinder) *Kit {
	return &Kit{
		Notifications: n,
		Widgets:       w,
		Popovers:      p,
	}
}
