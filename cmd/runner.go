package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/server"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
	"github.com/desertthunder/plx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	preset     bool
	service    services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	browser    shared.BrowserOpener
	prompter   tasks.Prompter
	listener   *server.CallbackServer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is and the --config flag is ignored. Service, Browser, and Prompter replace the
// Spotify client, system browser, and terminal prompts.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Browser    shared.BrowserOpener
	Prompter   tasks.Prompter
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	preset := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}
	if opts.Prompter == nil {
		opts.Prompter = ui.NewPrompter(os.Getenv("ACCESSIBLE") != "")
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		preset:     preset,
		service:    opts.Service,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		browser:    opts.Browser,
		prompter:   opts.Prompter,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		browseCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the .env file and configuration named by the global flags.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if err := shared.LoadEnvFile(cmd.String("env-file")); err != nil {
		return ctx, err
	}

	if !r.preset {
		r.configPath = cmd.String("config")
		config, err := shared.LoadConfigOrDefault(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	r.config.ApplyEnv()
	if dir := cmd.String("export-dir"); dir != "" {
		r.config.Export.Dir = dir
	}

	r.logger.Debug("configuration loaded", "path", r.configPath, "listen", r.config.ListenAddr())
	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// spotifyService builds the Spotify client from configuration unless one was injected.
func (r *Runner) spotifyService() (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	svc, err := services.NewSpotifyService(map[string]string{
		"client_id":     r.config.Credentials.Spotify.ClientID,
		"client_secret": r.config.Credentials.Spotify.ClientSecret,
		"redirect_uri":  r.config.RedirectURI(),
	},
		services.WithHTTPClient(r.httpClient),
		services.WithPlaylistsURL(r.config.API.PlaylistsURL),
		services.WithShowDialog(r.config.Auth.ShowDialog),
		services.WithLimiter(services.NewLimiter(r.config.API.RequestsPerSecond)),
		services.WithLogger(shared.WithLogger(r.logger, "service", "spotify")),
	)
	if err != nil {
		return nil, err
	}

	r.service = svc
	return svc, nil
}

// startHandshake binds the callback listener and returns a handshake wired to it.
// The caller closes the returned server.
func (r *Runner) startHandshake(exchanger server.CodeExchanger) (*server.CallbackServer, *server.Handshake, error) {
	logger := shared.WithLogger(r.logger, "component", "callback")

	callback := server.NewCallbackHandler(logger)
	router := server.NewCallbackRouter(callback, r.config.Server.StaticDir, logger)

	srv := server.NewCallbackServer(r.config.ListenAddr(), router, logger)
	if err := srv.Start(); err != nil {
		return nil, nil, err
	}
	r.listener = srv

	handshake := server.NewHandshake(server.HandshakeOptions{
		Callback:     callback,
		Exchanger:    exchanger,
		Browser:      r.browser,
		Out:          r.output,
		Timeout:      r.config.AuthTimeout(),
		ServerErrors: srv.Errors(),
		Logger:       shared.WithLogger(r.logger, "component", "handshake"),
	})
	return srv, handshake, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
