package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"longview/internal/config"
	"longview/internal/logging"
	"longview/internal/lvdate"
	"longview/internal/notify"
	"longview/internal/preflight"
	"longview/internal/publish"
	"longview/internal/render"
)

// DefaultStaleStageAge is how old an abandoned staging directory must be
// before a build removes it.
const DefaultStaleStageAge = 24 * time.Hour

// Runner executes builds for one configuration.
type Runner struct {
	cfg           *config.Config
	logger        *slog.Logger
	clock         func() time.Time
	notifier      notify.Notifier
	skipPreflight bool
	staleAge      time.Duration
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithClock overrides the clock used to resolve now.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) { r.clock = clock }
}

// WithNotifier replaces the ledger-backed notifier built from notify.*.
func WithNotifier(n notify.Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

// WithoutPreflight skips the readiness checks.
func WithoutPreflight() Option {
	return func(r *Runner) { r.skipPreflight = true }
}

// WithStaleStageAge overrides DefaultStaleStageAge.
func WithStaleStageAge(age time.Duration) Option {
	return func(r *Runner) { r.staleAge = age }
}

// New returns a Runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		clock:    time.Now,
		staleAge: DefaultStaleStageAge,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "workflow")
	return r
}

// Result summarizes one published build.
type Result struct {
	Now           lvdate.Date
	Output        string
	Rows          int
	Skipped       []SkippedRow
	NavCells      int
	Notifications notify.Report
	Changes       publish.Changes
	Duration      time.Duration
}

// Run builds the timeline and publishes it to paths.output_dir. Nothing in
// the output directory changes unless every step succeeds.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	started := r.clock()
	logger := logging.WithContext(ctx, r.logger)
	output := r.cfg.Paths.OutputDir

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Result{}, Wrap(ErrPublish, "publish", "create output parent", "", err)
	}
	if !r.skipPreflight {
		if err := r.runPreflightChecks(ctx, logger); err != nil {
			return Result{}, err
		}
	}

	lock := publish.NewLock(output)
	if err := lock.TryLock(); err != nil {
		return Result{}, Wrap(ErrPublish, "publish", "lock", lock.Path(), err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Debug("lock release failed", logging.Error(err))
		}
	}()

	cleaned := publish.CleanStale(output, r.staleAge, started, logger)
	for _, failure := range cleaned.Errors {
		logging.WarnWithContext(logger, "stale stage cleanup failed", "stage_cleanup_failed",
			logging.Path(failure.Path),
			logging.Error(failure.Error),
			logging.String(logging.FieldImpact, "abandoned staging directory remains on disk"),
		)
	}

	plan, err := r.prepare(ctx, logger, true)
	if err != nil {
		return Result{}, err
	}

	stage, err := publish.NewStage(output)
	if err != nil {
		return Result{}, Wrap(ErrPublish, "publish", "create stage", "", err)
	}
	published := false
	defer func() {
		if published {
			return
		}
		if err := stage.Discard(); err != nil {
			logging.WarnWithContext(logger, "stage discard failed", "stage_discard_failed",
				logging.Path(stage.Dir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "staging directory removed on a later run"),
			)
		}
	}()

	if err := r.fillStage(stage, plan); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, Wrap(ErrPublish, "publish", "", "cancelled before publish", err)
	}

	changes, err := stage.Publish()
	if err != nil {
		return Result{}, Wrap(ErrPublish, "publish", "update output", output, err)
	}
	published = true

	result := Result{
		Now:           plan.Now,
		Output:        output,
		Rows:          len(plan.Rows),
		Skipped:       plan.Skipped,
		NavCells:      len(plan.Nav.Cells),
		Notifications: plan.Notifications,
		Changes:       changes,
		Duration:      r.clock().Sub(started),
	}
	logger.Info("timeline published",
		logging.Path(output),
		logging.Int("rows", result.Rows),
		logging.Int("rows_skipped", len(result.Skipped)),
		logging.Int("nav_cells", result.NavCells),
		logging.Int("files_updated", changes.Updated),
		logging.Int("files_added", changes.Added),
		logging.Int("files_removed", changes.Removed),
		logging.Duration("duration", result.Duration),
		logging.String(logging.FieldEventType, "build_published"),
	)
	return result, nil
}

// fillStage copies the prototype and configured static images, then renders
// the timeline on top of them.
func (r *Runner) fillStage(stage *publish.Stage, plan *Plan) error {
	if err := stage.CopyPrototype(r.cfg.Paths.PrototypeDir); err != nil {
		return Wrap(ErrInput, "stage", "copy prototype", "", err)
	}
	for _, image := range r.cfg.Timeline.StaticImages {
		dest := image.Dest
		if dest == "" {
			dest = filepath.Base(image.Src)
		}
		if err := stage.AddFile(image.Src, filepath.Join(render.StaticDir, dest)); err != nil {
			return Wrap(ErrInput, "stage", "copy static image", image.Src, err)
		}
	}
	if err := plan.Site().Write(stage.Dir); err != nil {
		return Wrap(ErrRender, "render", "write site", "", err)
	}
	return nil
}

// runPreflightChecks returns nil when all checks pass, or an error
// describing all failures.
func (r *Runner) runPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	var failures []string
	for _, result := range preflight.RunAll(ctx, r.cfg) {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "run longview check for the full report"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(failures) > 0 {
		return Wrap(ErrConfiguration, "preflight", "", strings.Join(failures, "; "), nil)
	}
	return nil
}
