package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/browser-cli/internal/output"
	"github.com/mj1618/browser-cli/internal/steps"
)

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute multiple actions in a batch",
	Long: `Execute a sequence of actions from a YAML list on stdin (or --file) in one
browser session.

Each step is an action name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Supported step types: open, back, refresh, click, double-click, click-and-wait,
wait-and-click, hover, type, keys, key, select, check, uncheck, wait, assert,
read, screenshot, sleep, set, dialog, plus if-exists/if-visible with then/else
branches and try blocks.

Example:
  browser-cli do <<'EOF'
  - open: https://app.test/login
  - type: { loc: username, text: alice }
  - type: { loc: password, text: secret }
  - click-and-wait: { loc: "css=button[type=submit]", name: "Sign in" }
  - if-visible: { loc: cookie-banner }
    then:
      - click: { loc: "link=Accept" }
  - assert: { loc: dashboard, visible: true }
  EOF`,
	Args: cobra.NoArgs,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().String("file", "", "Read steps from this file instead of stdin")
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error")
}

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

func runDo(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	var data []byte
	var err error
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read steps: %w", err)
	}
	list, err := steps.Parse(data)
	if err != nil {
		return err
	}

	r, closeFn, err := openRunner(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	r.StopOnError = stopOnError

	result := r.Run(list)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		if result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		return fmt.Errorf("%d of %d steps failed", result.Steps-result.Completed, result.Steps)
	}
	return nil
}
