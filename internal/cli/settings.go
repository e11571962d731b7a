package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"woo-admin/internal/settings"
	"woo-admin/internal/store"
)

type settingsFlags struct {
	url, key, secret string
	demo             bool
}

func (f *settingsFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "store URL, e.g. https://shop.example")
	cmd.Flags().StringVar(&f.key, "key", "", "REST API consumer key")
	cmd.Flags().StringVar(&f.secret, "secret", "", "REST API consumer secret")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "serve built-in demo data instead of a live store")
}

func (f *settingsFlags) record() store.StoreSettings {
	return store.StoreSettings{StoreURL: f.url, APIKey: f.key, APISecret: f.secret, DemoMode: f.demo}
}

func (f *settingsFlags) empty() bool {
	return f.url == "" && f.key == "" && f.secret == "" && !f.demo
}

func settingsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the store connection settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted settings with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.Settings.Load(cmd.Context())
			if errors.Is(err, settings.ErrNotFound) {
				fmt.Fprintln(e.opts.Out, "No settings saved.")
				return nil
			}
			if err != nil {
				return err
			}
			return e.printJSON(s.Redacted())
		},
	}

	var f settingsFlags
	set := &cobra.Command{
		Use:   "set",
		Short: "Save settings and load the store with them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.empty() {
				return errors.New("nothing to save: pass --demo or --url with --key and --secret")
			}
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			ctrl := a.Controller
			// A *dashboard.ReloadError already says the settings were kept.
			if err := ctrl.ApplySettings(cmd.Context(), f.record()); err != nil {
				return err
			}
			st := ctrl.Snapshot()
			fmt.Fprintf(e.opts.Out, "Settings saved (%s backend): %d products, %d orders loaded.\n",
				st.Backend, len(st.Products), len(st.Orders))
			return nil
		},
	}
	f.bind(set)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Controller.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(e.opts.Out, "Settings cleared.")
			return nil
		},
	}

	cmd.AddCommand(show, set, clearCmd)
	return cmd
}

func checkCommand(e *env) *cobra.Command {
	var f settingsFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Test the connection with the saved settings or the given flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			candidate := f.record()
			if f.empty() {
				candidate, err = a.Settings.Load(cmd.Context())
				if errors.Is(err, settings.ErrNotFound) {
					return errors.New("no saved settings; pass --url, --key and --secret or --demo")
				}
				if err != nil {
					return err
				}
			}
			if !a.Controller.CheckConnection(cmd.Context(), candidate) {
				return errors.New("connection check failed")
			}
			fmt.Fprintln(e.opts.Out, "Connection OK.")
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}
