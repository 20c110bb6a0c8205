// Package dbus renders card notifications, the confirmation dialog and the
// countdown through the org.freedesktop.Notifications D-Bus interface.
//
// The Client speaks to whichever notification daemon owns the session bus
// name (dunst, mako, swaync, GNOME Shell). It implements ui.Toaster,
// ui.DialogController and ui.ProgressBar. Dialogs are notifications with
// confirm and cancel actions; the countdown is a single notification that
// is replaced once per unit with an updated progress value hint.
package dbus
