// Package cli is the rentowner command line. Each invocation is a cold start:
// the runtime is built, the session restored and the navigation stack mounted
// before the command runs.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShubhamP528/RentManagement-frontend/internal/app"
	"github.com/ShubhamP528/RentManagement-frontend/internal/config"
	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// Options configure a CLI run. A nil Config is loaded from the environment.
type Options struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer
}

// runtime is shared by every command of one invocation.
type runtime struct {
	opts    Options
	app     *app.App
	jsonOut bool
}

// ExecuteContext runs the CLI with the process arguments.
func ExecuteContext(ctx context.Context) error {
	return Run(ctx, Options{Out: os.Stdout, Err: os.Stderr}, os.Args[1:])
}

// Run executes one command line and tears the runtime down afterwards.
func Run(ctx context.Context, opts Options, args []string) error {
	rt := &runtime{opts: opts}
	root := newRootCommand(rt)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if rt.app != nil {
		if cerr := rt.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCommand(rt *runtime) *cobra.Command {
	if rt.opts.Out == nil {
		rt.opts.Out = os.Stdout
	}
	if rt.opts.Err == nil {
		rt.opts.Err = os.Stderr
	}

	root := &cobra.Command{
		Use:   "rentowner",
		Short: "Rent owner client",
		Long: `rentowner manages properties, rooms, tenants, payments and documents
against the rent owner API, and receives push notifications for the owner.`,
		SilenceUsage:      true,
		PersistentPreRunE: rt.setup,
	}
	root.SetOut(rt.opts.Out)
	root.SetErr(rt.opts.Err)
	root.PersistentFlags().BoolVar(&rt.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newLoginCmd(rt),
		newLogoutCmd(rt),
		newStatusCmd(rt),
		newPropertiesCmd(rt),
		newRoomsCmd(rt),
		newTenantsCmd(rt),
		newPaymentsCmd(rt),
		newDocumentsCmd(rt),
		newNotifyCmd(rt),
		newVersionCmd(rt),
	)
	return root
}

// setup builds the runtime and restores the persisted session.
func (rt *runtime) setup(cmd *cobra.Command, _ []string) error {
	cfg := rt.opts.Config
	if cfg == nil {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	rt.app = a

	// a failed restore is recorded in the session; commands report it
	if err := a.Session.RestoreSession(cmd.Context()); err != nil {
		log.Printf("[CLI] Session restore failed: %v", err)
	}
	a.Mount()
	return nil
}

// requireSession fails fast when no owner is signed in.
func (rt *runtime) requireSession() error {
	s := rt.app.Session.Snapshot()
	if s.Authenticated() {
		return nil
	}
	if s.Error != "" {
		return fmt.Errorf("%w: %s", model.ErrNotAuthenticated, s.Error)
	}
	return fmt.Errorf("%w: run rentowner login", model.ErrNotAuthenticated)
}

// print writes v as JSON with --json, otherwise calls text.
func (rt *runtime) print(v any, text func(w io.Writer) error) error {
	if rt.jsonOut {
		enc := json.NewEncoder(rt.opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(rt.opts.Out)
}

// explain turns a forced logout into a hint for the user.
func (rt *runtime) explain(err error) error {
	if errors.Is(err, model.ErrSessionInvalid) {
		return fmt.Errorf("%w (session ended, run rentowner login)", err)
	}
	return err
}
