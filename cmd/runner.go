package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/services"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
	"github.com/urfave/cli/v3"
)

// objectChecker runs the remote object store connectivity check.
type objectChecker interface {
	Check(ctx context.Context) ([]services.CheckStep, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	manager    *studio.Manager
	planner    *studio.Planner
	identity   studio.IdentityProvider
	sharer     services.Sharer
	objects    objectChecker
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Manager    *studio.Manager
	Planner    *studio.Planner
	Identity   studio.IdentityProvider // Defaults to the placeholder user
	Sharer     services.Sharer         // Defaults to printing on Output
	Objects    objectChecker
	Logger     *log.Logger
	Output     io.Writer
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Identity == nil {
		opts.Identity = services.PlaceholderIdentity{}
	}
	if opts.Sharer == nil {
		opts.Sharer = services.NewWriterSharer(opts.Output)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		manager:    opts.Manager,
		planner:    opts.Planner,
		identity:   opts.Identity,
		sharer:     opts.Sharer,
		objects:    opts.Objects,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, shiftCommand, historyCommand, statsCommand, adminCommand,
		tasksCommand, scheduleCommand, guidesCommand, profileCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ready reports whether the shift and planner services were wired.
func (r *Runner) ready() error {
	if r.manager == nil || r.planner == nil {
		return fmt.Errorf("%w: store not initialized, run 'prima setup database'", shared.ErrServiceUnavailable)
	}
	return nil
}

// currentUser resolves the operator through the messaging host and the stored role.
func (r *Runner) currentUser(ctx context.Context) models.User {
	var roles studio.RoleSource
	if r.planner != nil {
		roles = r.planner
	}
	return studio.Login(ctx, r.identity, roles, r.logger)
}

func (r *Runner) requireAdmin(ctx context.Context) (models.User, error) {
	user := r.currentUser(ctx)
	if user.Role != models.RoleAdmin {
		return user, fmt.Errorf("%w: admin role required, switch with 'prima profile role'", shared.ErrInvalidInput)
	}
	return user, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
