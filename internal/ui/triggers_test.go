package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/testutil"
)

func TestWidgetTriggers_DialogRoundTrip(t *testing.T) {
	ctx := context.Background()
	rec := testutil.NewRecorder()
	w := NewWidgetTriggers(rec, rec, DefaultTriggerOptions(), nil)

	assert.Equal(t, model.DialogHidden, rec.DialogState("confirmation"))

	require.NoError(t, w.ShowConfirmationDialog(ctx))
	assert.Equal(t, model.DialogVisible, rec.DialogState("confirmation"))

	require.NoError(t, w.HideConfirmationDialog(ctx))
	assert.Equal(t, model.DialogHidden, rec.DialogState("confirmation"))

	// Hiding again stays hidden.
	require.NoError(t, w.HideConfirmationDialog(ctx))
	assert.Equal(t, model.DialogHidden, rec.DialogState("confirmation"))
	assert.Equal(t, 3, rec.DialogChanges())
}

func TestWidgetTriggers_DialogName(t *testing.T) {
	rec := testutil.NewRecorder()
	w := NewWidgetTriggers(rec, rec, TriggerOptions{DialogName: "concede", Countdown: model.DefaultCountdown()}, nil)

	require.NoError(t, w.ShowConfirmationDialog(context.Background()))
	assert.Equal(t, model.DialogVisible, rec.DialogState("concede"))
	assert.Equal(t, model.DialogHidden, rec.DialogState("confirmation"))

	w = NewWidgetTriggers(rec, rec, TriggerOptions{}, nil)
	assert.Equal(t, "confirmation", w.DialogName())
}

func TestWidgetTriggers_StartCountdown(t *testing.T) {
	rec := testutil.NewRecorder()
	w := NewWidgetTriggers(rec, rec, DefaultTriggerOptions(), nil)

	require.NoError(t, w.StartCountdown(context.Background()))

	progress := rec.Progress()
	require.Len(t, progress, 1)
	assert.Equal(t, 75, progress[0].TimeLimit)
	assert.Equal(t, 15, progress[0].WarningThreshold)
	assert.Equal(t, "progress-bar-success", progress[0].NormalStyle)
	assert.Equal(t, "progress-bar-warning", progress[0].WarningStyle)
	assert.Equal(t, "progress-bar-danger", progress[0].CompleteStyle)
}

func TestWidgetTriggers_PropagatesErrors(t *testing.T) {
	boom := errors.New("no modal")
	rec := testutil.NewRecorder()
	rec.SetError(boom)
	w := NewWidgetTriggers(rec, rec, DefaultTriggerOptions(), nil)

	assert.ErrorIs(t, w.ShowConfirmationDialog(context.Background()), boom)
	assert.ErrorIs(t, w.StartCountdown(context.Background()), boom)
	assert.Equal(t, model.DialogHidden, rec.DialogState("confirmation"))
}
