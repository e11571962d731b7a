// Package cli is the woo-admin command tree. Every command drives the same
// dashboard controller the web server uses.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"woo-admin/internal/app"
	"woo-admin/internal/dashboard"
)

// Options lets callers redirect output and replace how the App is built.
type Options struct {
	Out   io.Writer
	Build func(ctx context.Context, configPath string) (*app.App, error)
}

type env struct {
	opts     Options
	cfgPath  string
	logLevel string
	asJSON   bool
	app      *app.App
}

// Execute runs the command line args and releases whatever the command
// opened, even when it fails.
func Execute(ctx context.Context, opts Options, args []string) (err error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Build == nil {
		opts.Build = app.Load
	}
	e := &env{opts: opts}
	defer func() { err = errors.Join(err, e.close()) }()

	root := e.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (e *env) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "woo-admin",
		Short: "Administer a WooCommerce store",
		Long: `woo-admin manages products, orders and coupons of a WooCommerce store,
either live over the REST API or against built-in demo data.

Example:
  woo-admin settings set --demo         # Use demo data
  woo-admin settings set --url https://shop.example --key ck_... --secret cs_...
  woo-admin products list
  woo-admin orders status 101 completed
  woo-admin serve --addr :8181`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(e.opts.Out)

	root.PersistentFlags().StringVarP(&e.cfgPath, "config", "c", "", "config file (default $WOO_ADMIN_CONFIG)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().BoolVar(&e.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		settingsCommand(e),
		checkCommand(e),
		productsCommand(e),
		ordersCommand(e),
		couponsCommand(e),
		aiCommand(e),
		serveCommand(e),
	)
	return root
}

// load builds the App once per invocation.
func (e *env) load(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	a, err := e.opts.Build(ctx, e.cfgPath)
	if err != nil {
		return nil, err
	}
	if e.logLevel != "" {
		if lvl, err := log.ParseLevel(e.logLevel); err == nil {
			log.SetLevel(lvl)
		}
	}
	e.app = a
	return a, nil
}

// controller starts the controller and requires configured settings.
func (e *env) controller(ctx context.Context) (*dashboard.Controller, error) {
	a, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	ctrl := a.Controller
	if err := ctrl.Start(ctx); err != nil {
		return nil, err
	}
	if !ctrl.Snapshot().Configured() {
		return nil, errors.New("store is not configured; run `woo-admin settings set` first")
	}
	return ctrl, nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}
