package ledman

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/scheduler"
)

func TestNewDaemonInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.LEDs = 0

	_, err := NewDaemon(cfg, slog.Default())
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestDaemonRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = DiscardOutput
	cfg.API.Listen = ""
	cfg.Startup.Mode = control.SolidColor

	d, err := NewDaemon(cfg, slog.Default())
	require.NoError(t, err)

	ch := d.Channel()
	assert.Equal(t, control.SolidColor, ch.Mode())
	assert.Equal(t, uint8(cfg.Brightness), ch.Brightness())
	ch.SetColor(led.HSV(10, 200, 150))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = d.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, scheduler.SolidColorName, ch.Status().Animation())
	assert.Equal(t, uint8(150), ch.Brightness())
}
