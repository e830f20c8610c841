package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/gitpick/internal/actions"
	"github.com/alexander-akhmetov/gitpick/internal/config"
	"github.com/alexander-akhmetov/gitpick/internal/debug"
	"github.com/alexander-akhmetov/gitpick/internal/dirs"
	"github.com/alexander-akhmetov/gitpick/internal/event"
	"github.com/alexander-akhmetov/gitpick/internal/flows"
	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/tui"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// ErrNoRepository is returned when neither the flags, the config nor the
// current directory name a repository.
var ErrNoRepository = errors.New("no git repository found (use --repo or set repositories in the config)")

// session holds what a wizard run needs: the loaded config, the open
// repositories and the streams of the invoking command.
type session struct {
	cfg    *config.Config
	deps   *flows.Deps
	log    zerolog.Logger
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logs   io.Closer
}

func newSession(cmd *cobra.Command, o *options) (*session, error) {
	if o.debug {
		debug.Enable()
	}
	logs, err := debug.Setup(dirs.LogFile())
	if err != nil {
		return nil, err
	}
	s := &session{
		log:    debug.Logger(),
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		logs:   logs,
	}

	s.cfg, err = config.Load()
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s.cfg.ApplyCLIFlags(config.CLIFlags{Yes: o.yes, Repos: o.repos, LogLimit: o.logLimit})
	s.log.Debug().Strs("sources", s.cfg.Sources()).Msg("config loaded")

	repos, err := discover(s.cfg)
	if err != nil {
		s.close()
		return nil, err
	}

	isTTY, width := terminal(s.out)
	x := actions.New(
		actions.NewOutput(s.out, isTTY, width, s.cfg.Theme),
		actions.WithDiffContext(s.cfg.DiffContext),
	)
	s.deps = &flows.Deps{
		Env: &steps.Env{
			Actions:       x,
			Revealer:      x,
			Searcher:      x,
			CustomDomains: s.cfg.CustomDomains(),
			LogLimit:      s.cfg.LogLimit,
			Log:           s.log,
		},
		Repos:    repos,
		Confirm:  s.cfg.Confirm,
		ShowTags: s.cfg.ShowTags,
	}
	return s, nil
}

func (s *session) close() {
	if s.logs != nil {
		_ = s.logs.Close()
	}
}

// discover opens the repositories named by the config and flags.
func discover(cfg *config.Config) ([]*git.Repository, error) {
	repos, err := git.Discover(cfg.DiscoverOptions())
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, ErrNoRepository
	}
	return repos, nil
}

// host picks the bubbletea picker on a terminal and numbered prompts
// otherwise. Both draw on stderr so stdout carries only action output.
func (s *session) host() wizard.Host {
	if isTerminal(s.in) && isTerminal(s.errOut) {
		return tui.NewHost(s.in, s.errOut)
	}
	return NewLineHost(s.in, s.errOut)
}

// run drives flow to its end, prints its answers when asked and then runs
// the action the user picked, if any.
func (s *session) run(ctx context.Context, flow wizard.Flow, via wizard.Provenance, print bool) error {
	e := wizard.New(flow,
		wizard.WithPickedVia(via),
		wizard.WithLogger(s.log),
		wizard.WithEventHandler(logEvents(s.log)),
	)
	s.log.Debug().Str("run", e.ID()).Str("flow", flow.Name()).Str("via", via.String()).Msg("run started")

	t, err := wizard.Run(ctx, e, s.host())
	if err != nil {
		return err
	}
	s.log.Debug().Str("run", e.ID()).Str("status", t.Status.String()).Str("action", t.Label).Msg("run finished")

	if print {
		seed, err := flows.Seed(flow)
		if err != nil {
			return fmt.Errorf("print answers: %w", err)
		}
		_, _ = fmt.Fprintln(s.out, seed)
	}

	if t.Status != wizard.StatusCompleted || t.Command == nil {
		return nil
	}
	if err := t.Command(ctx); err != nil {
		return fmt.Errorf("%s: %w", t.Label, err)
	}
	return nil
}

func logEvents(l zerolog.Logger) event.Handler {
	return func(ev event.Event) {
		l.Debug().
			Str("event", ev.Kind.String()).
			Str("flow", ev.Flow).
			Int("depth", ev.Depth).
			Int("counter", ev.Counter).
			Int("ordinal", ev.Ordinal).
			Str("text", ev.Text).
			Msg("transition")
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminal(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}

// runMenu opens the command menu, or the flow named by --state.
func runMenu(cmd *cobra.Command, o *options) error {
	s, err := newSession(cmd, o)
	if err != nil {
		return err
	}
	defer s.close()

	if o.state != "" {
		flow, err := flows.ParseSeed(s.deps, o.state)
		if err != nil {
			return err
		}
		return s.run(cmd.Context(), flow, wizard.PickedViaCommand, o.print)
	}
	return s.run(cmd.Context(), flows.NewMenu(s.deps), wizard.PickedViaMenu, false)
}
