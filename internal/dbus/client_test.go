package dbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/cardui/internal/model"
)

type recordedCall struct {
	method string
	args   []interface{}
}

// fakeBus stands in for the notification daemon.
type fakeBus struct {
	mu     sync.Mutex
	calls  []recordedCall
	nextID uint32
	err    error
	delay  time.Duration
}

func (f *fakeBus) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, recordedCall{method: method, args: args})
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}

	switch method {
	case DBusInterface + ".Notify":
		n, _ := parseNotification(args)
		if n != nil && n.ReplacesID != 0 {
			return &dbus.Call{Body: []interface{}{n.ReplacesID}}
		}
		f.nextID++
		return &dbus.Call{Body: []interface{}{f.nextID}}
	case DBusInterface + ".GetCapabilities":
		return &dbus.Call{Body: []interface{}{[]string{"actions", "body", "body-images"}}}
	case DBusInterface + ".GetServerInformation":
		return &dbus.Call{Body: []interface{}{"mako", "emersion", "1.8.0", "1.2"}}
	default:
		return &dbus.Call{}
	}
}

func (f *fakeBus) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeBus) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	methods := make([]string, len(f.calls))
	for i, c := range f.calls {
		methods[i] = c.method[len(DBusInterface)+1:]
	}
	return methods
}

func (f *fakeBus) notifications() []*Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Notification
	for _, c := range f.calls {
		if c.method != DBusInterface+".Notify" {
			continue
		}
		if n, ok := parseNotification(c.args); ok {
			out = append(out, n)
		}
	}
	return out
}

// parseNotification rebuilds a Notification from recorded Notify arguments.
func parseNotification(args []interface{}) (*Notification, bool) {
	if len(args) < 8 {
		return nil, false
	}
	n := &Notification{}
	var ok bool
	if n.AppName, ok = args[0].(string); !ok {
		return nil, false
	}
	if n.ReplacesID, ok = args[1].(uint32); !ok {
		return nil, false
	}
	if n.AppIcon, ok = args[2].(string); !ok {
		return nil, false
	}
	if n.Summary, ok = args[3].(string); !ok {
		return nil, false
	}
	if n.Body, ok = args[4].(string); !ok {
		return nil, false
	}
	if actions, ok := args[5].([]string); ok {
		n.Actions = actions
	}
	if hints, ok := args[6].(map[string]dbus.Variant); ok {
		n.Hints = hints
	}
	if timeout, ok := args[7].(int32); ok {
		n.ExpireTimeout = timeout
	}
	return n, true
}

func newTestClient() (*Client, *fakeBus) {
	bus := &fakeBus{}
	c := NewClient(bus, Options{
		AppName:      "cardui",
		DesktopEntry: "cardui",
		Transient:    true,
	}, nil)
	return c, bus
}

func waitCountdown(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.WaitCountdown(ctx), "countdown did not finish")
}

func TestClient_Toast(t *testing.T) {
	tests := []struct {
		severity model.Severity
		title    string
		icon     string
		urgency  int
		category string
	}{
		{model.SeverityNone, "Notice", "dialog-information", model.UrgencyNormal, CategoryNotice},
		{model.SeverityInfo, "Info", "dialog-information", model.UrgencyLow, CategoryInfo},
		{model.SeveritySuccess, "Success", "emblem-ok-symbolic", model.UrgencyNormal, CategorySuccess},
		{model.SeverityError, "Error", "dialog-error", model.UrgencyCritical, CategoryError},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			c, bus := newTestClient()
			req := model.NewNotificationRequest(tt.severity, "Your turn", 1000)

			require.NoError(t, c.Toast(context.Background(), req))

			sent := bus.notifications()
			require.Len(t, sent, 1)
			n := sent[0]
			assert.Equal(t, "cardui", n.AppName)
			assert.Equal(t, tt.title, n.Summary)
			assert.Equal(t, "Your turn", n.Body)
			assert.Equal(t, tt.icon, n.AppIcon)
			assert.Equal(t, int32(1000), n.ExpireTimeout)
			assert.Equal(t, tt.urgency, n.Urgency())
			assert.Equal(t, tt.category, n.Category())
			assert.True(t, n.Transient())
			assert.Equal(t, "cardui", n.Hints["desktop-entry"].Value())
		})
	}
}

func TestClient_ToastFixedIcon(t *testing.T) {
	bus := &fakeBus{}
	c := NewClient(bus, Options{AppIcon: "cardui"}, nil)

	require.NoError(t, c.Toast(context.Background(), model.NewNotificationRequest(model.SeverityError, "x", 1000)))
	assert.Equal(t, "cardui", bus.notifications()[0].AppIcon)
}

func TestClient_ToastImage(t *testing.T) {
	c, bus := newTestClient()
	req := model.NewImageNotificationRequest("https://cards.example/yeti.png")

	require.NoError(t, c.ToastImage(context.Background(), req))

	n := bus.notifications()[0]
	assert.Equal(t, "Card Img", n.Summary)
	assert.Equal(t, `<img class="center-block" src="https://cards.example/yeti.png" />`, n.Body)
	assert.Equal(t, ExpireNever, n.ExpireTimeout)
	assert.Equal(t, "https://cards.example/yeti.png", n.ImagePath())
	assert.Equal(t, CategoryImage, n.Category())
	assert.False(t, n.Transient(), "persistent panels are kept in history")
}

func TestClient_ToastError(t *testing.T) {
	c, bus := newTestClient()
	boom := errors.New("org.freedesktop.DBus.Error.ServiceUnknown")
	bus.setErr(boom)

	err := c.Toast(context.Background(), model.NewNotificationRequest(model.SeverityInfo, "x", 1000))
	assert.ErrorIs(t, err, boom)
}

func TestClient_DialogRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, bus := newTestClient()

	assert.False(t, c.DialogVisible("confirmation"))

	// Hiding a hidden dialog does not touch the bus.
	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogHidden))
	assert.Empty(t, bus.methods())

	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogVisible))
	assert.True(t, c.DialogVisible("confirmation"))

	n := bus.notifications()[0]
	assert.Equal(t, DialogSummary, n.Summary)
	assert.Equal(t, []Action{{Key: "confirm", Label: "Confirm"}, {Key: "cancel", Label: "Cancel"}}, n.ParsedActions())
	assert.True(t, n.Resident())
	assert.Equal(t, ExpireNever, n.ExpireTimeout)

	// Showing again replaces the same notification.
	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogVisible))
	assert.Equal(t, uint32(1), bus.notifications()[1].ReplacesID)

	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogHidden))
	assert.False(t, c.DialogVisible("confirmation"))
	assert.Equal(t, []string{"Notify", "Notify", "CloseNotification"}, bus.methods())

	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogHidden))
	assert.Len(t, bus.methods(), 3)
}

func TestClient_DialogErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	c, bus := newTestClient()
	boom := errors.New("no daemon")
	bus.setErr(boom)

	assert.ErrorIs(t, c.SetDialogState(ctx, "confirmation", model.DialogVisible), boom)
	assert.False(t, c.DialogVisible("confirmation"))
}

func TestClient_Countdown(t *testing.T) {
	c, bus := newTestClient()
	req := model.DefaultCountdown()
	req.TimeLimit = 3
	req.WarningThreshold = 1
	req.Unit = time.Millisecond

	require.NoError(t, c.StartProgress(context.Background(), req))
	waitCountdown(t, c)

	sent := bus.notifications()
	require.Len(t, sent, 4)

	assert.Equal(t, uint32(0), sent[0].ReplacesID)
	assert.Equal(t, 100, sent[0].Progress())
	assert.Equal(t, "3 remaining", sent[0].Body)
	assert.Equal(t, "progress-bar-success", sent[0].Style())
	assert.Equal(t, model.UrgencyNormal, sent[0].Urgency())

	assert.Equal(t, uint32(1), sent[1].ReplacesID)
	assert.Equal(t, 66, sent[1].Progress())
	assert.Equal(t, "progress-bar-success", sent[1].Style())

	assert.Equal(t, 33, sent[2].Progress())
	assert.Equal(t, "progress-bar-warning", sent[2].Style())
	assert.Equal(t, model.UrgencyCritical, sent[2].Urgency())

	assert.Equal(t, 0, sent[3].Progress())
	assert.Equal(t, "Time's up", sent[3].Body)
	assert.Equal(t, "progress-bar-danger", sent[3].Style())
	assert.Equal(t, CategoryCountdown, sent[3].Category())
}

func TestClient_CountdownRestartCancelsPrevious(t *testing.T) {
	c, bus := newTestClient()
	slow := model.DefaultCountdown()
	slow.Unit = time.Hour

	require.NoError(t, c.StartProgress(context.Background(), slow))
	c.mu.Lock()
	first := c.countdown
	c.mu.Unlock()

	fast := model.DefaultCountdown()
	fast.TimeLimit = 1
	fast.Unit = time.Millisecond
	require.NoError(t, c.StartProgress(context.Background(), fast))

	select {
	case <-first.done:
	default:
		t.Fatal("previous countdown still running")
	}
	waitCountdown(t, c)

	sent := bus.notifications()
	require.Len(t, sent, 3)
	assert.Equal(t, "75 remaining", sent[0].Body)
	assert.Equal(t, "1 remaining", sent[1].Body)
	assert.Equal(t, "Time's up", sent[2].Body)
}

func TestClient_ConcurrentStartsLeaveOneCountdown(t *testing.T) {
	c, bus := newTestClient()
	bus.delay = 2 * time.Millisecond
	req := model.DefaultCountdown()
	req.TimeLimit = 2
	req.Unit = 100 * time.Millisecond

	const starts = 8
	var wg sync.WaitGroup
	for range starts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.StartProgress(context.Background(), req))
		}()
	}
	wg.Wait()
	waitCountdown(t, c)
	time.Sleep(3 * req.Unit)

	replaced := make(map[uint32]int)
	for _, n := range bus.notifications() {
		if n.ReplacesID != 0 {
			replaced[n.ReplacesID]++
		}
	}
	assert.Len(t, replaced, 1, "only the last countdown may keep ticking")
	for _, updates := range replaced {
		assert.Equal(t, req.TimeLimit, updates)
	}
	require.NoError(t, c.Close())
}

func TestClient_WaitCountdown(t *testing.T) {
	c, _ := newTestClient()
	require.NoError(t, c.WaitCountdown(context.Background()), "nothing running")

	slow := model.DefaultCountdown()
	slow.Unit = time.Hour
	require.NoError(t, c.StartProgress(context.Background(), slow))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.WaitCountdown(ctx), context.DeadlineExceeded)
	require.NoError(t, c.Close())
}

func TestClient_CloseStopsCountdown(t *testing.T) {
	c, _ := newTestClient()
	req := model.DefaultCountdown()
	req.Unit = time.Hour

	require.NoError(t, c.StartProgress(context.Background(), req))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	c.mu.Lock()
	assert.Nil(t, c.countdown)
	c.mu.Unlock()

	err := c.Toast(context.Background(), model.NewNotificationRequest(model.SeverityInfo, "late", 1000))
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, c.StartProgress(context.Background(), req), ErrNotConnected)
}

func TestClient_ServerQueries(t *testing.T) {
	c, _ := newTestClient()

	caps, err := c.Capabilities(context.Background())
	require.NoError(t, err)
	assert.Contains(t, caps, "body-images")

	info, err := c.ServerInformation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ServerInfo{Name: "mako", Vendor: "emersion", Version: "1.8.0", SpecVersion: "1.2"}, info)
}

func TestClient_HandleSignal(t *testing.T) {
	ctx := context.Background()
	c, bus := newTestClient()

	var events []DialogEvent
	c.SetDialogCallback(func(e DialogEvent) { events = append(events, e) })

	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogVisible))

	// Unrelated notification.
	c.handleSignal(&dbus.Signal{
		Name: DBusInterface + ".ActionInvoked",
		Body: []interface{}{uint32(42), "default"},
	})
	assert.Empty(t, events)

	c.handleSignal(&dbus.Signal{
		Name: DBusInterface + ".ActionInvoked",
		Body: []interface{}{uint32(1), ActionConfirm},
	})
	require.Len(t, events, 1)
	assert.Equal(t, DialogEvent{Dialog: "confirmation", Action: ActionConfirm}, events[0])
	assert.False(t, c.DialogVisible("confirmation"))
	assert.Equal(t, []string{"Notify", "CloseNotification"}, bus.methods())

	require.NoError(t, c.SetDialogState(ctx, "confirmation", model.DialogVisible))
	c.handleSignal(&dbus.Signal{
		Name: DBusInterface + ".NotificationClosed",
		Body: []interface{}{uint32(2), uint32(CloseReasonDismissed)},
	})
	require.Len(t, events, 2)
	assert.Equal(t, CloseReasonDismissed, events[1].Reason)
	assert.False(t, c.DialogVisible("confirmation"))
}

func TestClient_HandleSignalMalformed(t *testing.T) {
	c, _ := newTestClient()
	c.handleSignal(nil)
	c.handleSignal(&dbus.Signal{Name: DBusInterface + ".ActionInvoked", Body: []interface{}{"x"}})
	c.handleSignal(&dbus.Signal{Name: DBusInterface + ".ActionInvoked", Body: []interface{}{"x", "y"}})
}
