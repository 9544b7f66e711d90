package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/output"
	"github.com/mj1618/browser-cli/internal/screenshot"
	"github.com/mj1618/browser-cli/internal/session"
	"github.com/mj1618/browser-cli/internal/steps"
)

// openRunner starts a browser from the loaded settings and, when --url is
// set, opens that page first. The returned func closes the browser.
func openRunner(cmd *cobra.Command) (*steps.Runner, func(), error) {
	d, err := openDriver(settings.Backend)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(d, session.WithLogger(logger.Named("session")))
	closeFn := func() {
		if err := sess.Close(); err != nil {
			logger.Warn("close browser", zap.Error(err))
		}
	}
	r := steps.NewRunner(sess, screenshot.NewWriter(settings.ScreenshotDir, logger))

	if url, _ := rootCmd.PersistentFlags().GetString("url"); url != "" {
		if err := sess.Open(url); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return r, closeFn, nil
}

// openDriver is replaced in tests.
var openDriver = func(backend string) (browser.Driver, error) {
	return browser.Open(backend, browserOptions(settings))
}

func browserOptions(f *config.File) browser.Options {
	timeout, _ := config.ParseMillis(f.Timeout)
	return browser.Options{
		RemoteURL: f.RemoteURL,
		Browser:   f.Browser,
		Headless:  f.Headless,
		Timeout:   timeout,
	}
}

// addLocatorFlags adds the flags shared by commands acting on one element.
func addLocatorFlags(cmd *cobra.Command) {
	cmd.Flags().String("loc", "", "Element locator: //xpath, xpath=, link=, css=, or a plain id (or first argument)")
	cmd.Flags().String("name", "", "Human-readable name used in the action log")
	cmd.Flags().String("label", "", "Locator of an element whose text names the target in the action log")
	cmd.Flags().Bool("highlight", true, "Flash the element before acting")
	cmd.Flags().Int("timeout", 0, "Wait timeout in milliseconds (default: configured timeout)")
	cmd.Flags().String("ajax", "", "AJAX-idle preset (jquery, prototype, dojo) or expression to wait for afterwards")
}

// flagParams turns the command's explicitly set flags into step params.
// A positional argument fills argKey.
func flagParams(cmd *cobra.Command, args []string, argKey string) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	var err error
	cmd.LocalFlags().Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Value.Type() {
		case "bool":
			var b bool
			b, err = strconv.ParseBool(f.Value.String())
			params[f.Name] = b
		case "int":
			var n int
			n, err = strconv.Atoi(f.Value.String())
			params[f.Name] = n
		default:
			params[f.Name] = f.Value.String()
		}
	})
	if err != nil {
		return nil, err
	}
	if len(args) > 0 && argKey != "" {
		if _, set := params[argKey]; set {
			return nil, fmt.Errorf("give the %s either as an argument or with --%s, not both", argKey, argKey)
		}
		params[argKey] = args[0]
	}
	return params, nil
}

// runStep returns a RunE that executes one step action in a fresh browser
// and prints its result. pick may rewrite the action from the flags.
func runStep(action, argKey string, pick func(map[string]interface{}) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		params, err := flagParams(cmd, args, argKey)
		if err != nil {
			return err
		}
		act := action
		if pick != nil {
			act = pick(params)
		}
		r, closeFn, err := openRunner(cmd)
		if err != nil {
			return err
		}
		defer closeFn()
		return printStep(r, act, params)
	}
}

func printStep(r *steps.Runner, action string, params map[string]interface{}) error {
	res, err := r.Execute(action, params)
	res.Action = action
	res.OK = err == nil
	if err != nil {
		res.Error = err.Error()
	}
	if perr := output.Print(res); perr != nil {
		return perr
	}
	return err
}
