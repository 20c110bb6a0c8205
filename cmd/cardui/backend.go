package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/adapter/output"
	"github.com/jmylchreest/cardui/internal/audio"
	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/dbus"
	"github.com/jmylchreest/cardui/internal/di"
	"github.com/jmylchreest/cardui/internal/push"
	"github.com/jmylchreest/cardui/internal/ui"
)

// errTUIOnly is returned when a one-shot command is run with the tui backend.
var errTUIOnly = errors.New("the tui backend needs a running board, use 'cardui tui'")

// soundDrainTimeout bounds how long a one-shot command waits for its chime.
const soundDrainTimeout = 5 * time.Second

// backend is an opened capability environment with the facades over it.
type backend struct {
	kit     *ui.Kit
	dbus    *dbus.Client // nil unless the dbus backend is used
	sounds  *audio.Manager
	closers []func() error
}

// openBackend connects the configured environment. Capabilities an
// environment lacks are written to stdout.
func openBackend(ctx context.Context, out io.Writer) (*backend, error) {
	writer, err := newWriter(out)
	if err != nil {
		return nil, err
	}

	b := &backend{}
	caps := ui.Capabilities{Toaster: writer, Dialogs: writer, Progress: writer, Popovers: writer}

	switch cfg.Backend.Kind {
	case config.BackendStdout:
	case config.BackendDBus:
		client, err := dbus.Connect(dbus.Options{
			AppName:      cfg.Notify.AppName,
			AppIcon:      cfg.DBus.AppIcon,
			DesktopEntry: cfg.DBus.DesktopEntry,
			Transient:    cfg.DBus.Transient,
		}, logger)
		if err != nil {
			return nil, err
		}
		b.dbus = client
		b.closers = append(b.closers, client.Close)
		caps.Toaster = client
		caps.Dialogs = client
		caps.Progress = client
	case config.BackendWebPush:
		toaster, err := push.NewToaster(push.FileSource{Path: cfg.SubscriptionsPath()}, push.Options{
			Subscriber:      cfg.WebPush.Subscriber,
			VAPIDPublicKey:  cfg.WebPush.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.WebPush.VAPIDPrivateKey,
			TTL:             cfg.WebPush.TTL.Duration(),
		}, logger)
		if err != nil {
			return nil, err
		}
		caps.Toaster = toaster
	case config.BackendTUI:
		return nil, errTUIOnly
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownBackend, cfg.Backend.Kind)
	}

	if caps.Toaster, err = b.withHistory(caps.Toaster); err != nil {
		_ = b.Close(ctx)
		return nil, err
	}
	caps.Toaster = b.withSound(ctx, caps.Toaster)

	kit, err := di.InitializeKit(cfg, caps, logger)
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}
	b.kit = kit
	return b, nil
}

// withSound wraps toaster with the configured chimes.
func (b *backend) withSound(ctx context.Context, toaster ui.Toaster) ui.Toaster {
	if !cfg.Audio.Enabled {
		return toaster
	}
	b.sounds = audio.NewManager(cfg, nil, logger)
	if err := b.sounds.Start(ctx); err != nil {
		logger.Warn("failed to start audio", "error", err)
	}
	return audio.NewChimeToaster(toaster, b.sounds, logger)
}

// Close lets queued sounds finish and releases the environment.
func (b *backend) Close(ctx context.Context) error {
	if b.sounds != nil {
		drainCtx, cancel := context.WithTimeout(ctx, soundDrainTimeout)
		if err := b.sounds.Wait(drainCtx); err != nil {
			logger.Debug("sound still playing at exit", "error", err)
		}
		cancel()
		b.sounds.Stop()
	}

	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// withBackend opens the backend, runs fn and closes the backend.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx := cmd.Context()
	b, err := openBackend(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	runErr := fn(ctx, b)
	closeErr := b.Close(context.WithoutCancel(ctx))
	return errors.Join(runErr, closeErr)
}

func newWriter(out io.Writer) (*output.Writer, error) {
	formatter, err := output.NewFormatter(output.FormatType(cfg.Output.Format), output.DefaultFormatterOptions())
	if err != nil {
		return nil, err
	}
	return output.NewWriter(out, formatter, logger), nil
}
