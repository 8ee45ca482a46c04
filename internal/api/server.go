// Package api is the HTTP control surface. It writes requests into a
// control.Channel and reads the status back out of it.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"libdb.so/ledman/animation"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/metrics"
)

// Version is reported by the about endpoint.
const Version = "2.26.24"

// Info describes the device for the about endpoint.
type Info struct {
	HostName     string `toml:"host_name"`
	FriendlyName string `toml:"friendly_name"`
	DeviceFamily string `toml:"device_family"`
	Description  string `toml:"description"`
}

// Options are the options for NewServer.
type Options struct {
	// Channel receives the control requests.
	Channel *control.Channel
	// Animations is the list of selectable animations.
	Animations []animation.Entry
	// Info describes the device.
	Info Info
	// Started is when the daemon started. It defaults to now.
	Started time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP control surface.
type Server struct {
	api    huma.API
	mux    *http.ServeMux
	opts   Options
	logger *slog.Logger
}

// NewServer creates a new Server. The metrics are served at /metrics.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("ledman API", Version)
	config.Info.Description = "Control API for an LED strip"
	config.Servers = []*huma.Server{}

	s := newServer(humago.New(mux, config), opts)
	s.mux = mux

	mux.Handle("GET /metrics", metrics.Handler())

	return s
}

func newServer(api huma.API, opts Options) *Server {
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		api:    api,
		opts:   opts,
		logger: opts.Logger,
	}
	s.api.UseMiddleware(s.logRequests)
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		shutdownErr <- srv.Shutdown(ctx)
	}()

	s.logger.Info(
		"serving control API",
		"addr", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve control API")
	}

	if err := <-shutdownErr; err != nil {
		return errors.Wrap(err, "failed to shut down control API")
	}

	return ctx.Err()
}

func (s *Server) logRequests(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	level := slog.LevelDebug
	if ctx.Status() >= 500 {
		level = slog.LevelWarn
	}

	s.logger.Log(ctx.Context(), level,
		"handled control request",
		"method", ctx.Method(),
		"path", ctx.URL().Path,
		"status", ctx.Status(),
		"duration", time.Since(start))
}

func (s *Server) registerRoutes() {
	ch := s.opts.Channel

	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Get status",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *struct{}) (*StatusResponse, error) {
		return newStatus(ch), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-mode",
		Method:      http.MethodPut,
		Path:        "/api/mode",
		Summary:     "Switch mode",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *ModeRequest) (*StatusResponse, error) {
		m, err := control.ParseMode(input.Body.Mode)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid mode", err)
		}

		metrics.ControlRequest("api", "mode")
		ch.SetMode(m)
		return newStatus(ch), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-animation",
		Method:      http.MethodPut,
		Path:        "/api/animation",
		Summary:     "Select animation",
		Description: "Select an animation and switch to the animation mode.",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *AnimationRequest) (*StatusResponse, error) {
		sel := animation.Selector(input.Body.ID)
		if !sel.IsValid() {
			return nil, huma.Error400BadRequest("unknown animation " + sel.String())
		}

		metrics.ControlRequest("api", "animation")
		ch.SetAnimation(sel)
		ch.SetMode(control.Animation)
		return newStatus(ch), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-brightness",
		Method:      http.MethodPut,
		Path:        "/api/brightness",
		Summary:     "Apply brightness",
		Description: "Apply a brightness once and return to the previous mode.",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *BrightnessRequest) (*StatusResponse, error) {
		metrics.ControlRequest("api", "brightness")
		ch.SetBrightness(uint8(input.Body.Brightness))
		ch.SetMode(control.Bright)
		return newStatus(ch), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-color",
		Method:      http.MethodPut,
		Path:        "/api/color",
		Summary:     "Show solid color",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *ColorRequest) (*StatusResponse, error) {
		s.setColor(led.HSV(
			uint8(input.Body.H),
			uint8(input.Body.S),
			uint8(input.Body.V)))
		return newStatus(ch), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-color-hex",
		Method:      http.MethodPut,
		Path:        "/api/color/hex",
		Summary:     "Show solid color from hex code",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *HexColorRequest) (*StatusResponse, error) {
		c, err := ParseHexColor(input.Body.Hex)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid color", err)
		}
		s.setColor(c)
		return newStatus(ch), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-animations",
		Method:      http.MethodGet,
		Path:        "/api/animations",
		Summary:     "List animations",
		Tags:        []string{"control"},
	}, func(ctx context.Context, input *struct{}) (*AnimationsResponse, error) {
		resp := &AnimationsResponse{}
		resp.Body.Animations = s.opts.Animations
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-about",
		Method:      http.MethodGet,
		Path:        "/api/about",
		Summary:     "About",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*AboutResponse, error) {
		return &AboutResponse{
			Body: AboutData{
				HostName:     s.opts.Info.HostName,
				FriendlyName: s.opts.Info.FriendlyName,
				Version:      Version,
				DeviceFamily: s.opts.Info.DeviceFamily,
				Description:  s.opts.Info.Description,
				Uptime:       time.Since(s.opts.Started).Truncate(time.Second).String(),
				Animation:    ch.Status().Animation(),
				Temperature:  ch.Status().Temperature(),
			},
		}, nil
	})
}

// setColor requests a solid color the same way the color button does.
func (s *Server) setColor(c led.HSVColor) {
	metrics.ControlRequest("api", "color")
	s.opts.Channel.EnterSolidColor(c)
}

// ParseHexColor parses a "#rrggbb" code into an 8-bit HSV color. The leading
// "#" is optional.
func ParseHexColor(code string) (led.HSVColor, error) {
	if !strings.HasPrefix(code, "#") {
		code = "#" + code
	}

	c, err := colorful.Hex(code)
	if err != nil {
		return led.HSVColor{}, errors.Wrapf(err, "invalid hex color %q", code)
	}

	h, sat, v := c.Hsv()
	return led.HSV(
		uint8(int(h*256/360)%256),
		uint8(sat*255+0.5),
		uint8(v*255+0.5),
	), nil
}
