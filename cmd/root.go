package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/logging"
	"github.com/mj1618/browser-cli/internal/output"
	"github.com/mj1618/browser-cli/internal/version"

	// Browser backends register themselves.
	_ "github.com/mj1618/browser-cli/internal/browser/chromedp"
	_ "github.com/mj1618/browser-cli/internal/browser/playwright"
	_ "github.com/mj1618/browser-cli/internal/browser/rod"
	_ "github.com/mj1618/browser-cli/internal/browser/selenium"
)

// Loaded by the root pre-run for every command.
var (
	settings = config.Defaults()
	logger   = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:          "browser-cli",
	Short:        "Drive a web browser from the command line",
	Long:         "A CLI and MCP server for scripted browser testing: locate elements, act on them and wait for the page to settle.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "browser-cli.yaml", "Config file (missing is fine)")
	pf.String("backend", "", "Browser backend: selenium, chromedp, rod, playwright")
	pf.String("remote-url", "", "WebDriver hub or DevTools endpoint; empty launches a local browser")
	pf.String("browser", "", "Browser name, e.g. chrome or firefox")
	pf.Bool("headless", true, "Launch the browser without a window")
	pf.String("default-timeout", "", "Default wait timeout in milliseconds")
	pf.String("marker", "", "Locator of the element that marks a loaded page")
	pf.String("ajax-idle", "", `AJAX-idle preset or expression waited for after actions ("none" disables)`)
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log encoding: console or json")
	pf.String("url", "", "Page to open before running the command")
	pf.String("format", "yaml", "Output format: yaml or json")
	pf.Bool("pretty", false, "Pretty-print JSON")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	}
}

// setup loads configuration (defaults, file, environment, then flags),
// builds the logger and applies the runtime knobs to config.Default().
func setup(cmd *cobra.Command) error {
	pf := rootCmd.PersistentFlags()
	path, _ := pf.GetString("config")
	f, err := config.NewLoader().WithPath(path).Load()
	if err != nil {
		return err
	}
	overrides := map[string]*string{
		"backend":         &f.Backend,
		"remote-url":      &f.RemoteURL,
		"browser":         &f.Browser,
		"default-timeout": &f.Timeout,
		"marker":          &f.Marker,
		"ajax-idle":       &f.Ajax,
		"log-level":       &f.Log.Level,
		"log-format":      &f.Log.Format,
	}
	for name, dst := range overrides {
		if pf.Changed(name) {
			*dst, _ = pf.GetString(name)
		}
	}
	if pf.Changed("headless") {
		f.Headless, _ = pf.GetBool("headless")
	}
	if err := config.Default().Apply(f); err != nil {
		return err
	}

	format, _ := pf.GetString("format")
	if output.OutputFormat, err = output.ParseFormat(format); err != nil {
		return err
	}
	output.PrettyOutput, _ = pf.GetBool("pretty")

	log, err := logging.New(logging.Options{Level: f.Log.Level, Format: f.Log.Format})
	if err != nil {
		return err
	}
	settings, logger = f, log
	return nil
}
