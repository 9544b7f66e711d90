package cmd

import "github.com/spf13/cobra"

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a page condition to be met",
	Long: `Poll the page until a condition holds or the timeout is reached.

Conditions:
  element    an element matching --loc exists
  visible    it exists and is displayed
  invisible  it is hidden or absent (an absent element succeeds at once)
  enabled    it exists and is enabled
  text       the page body contains --text
  page       the page-ready marker is visible and AJAX is idle
  ajax       the AJAX-idle expression holds`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep("wait", "loc", nil),
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("for", "element", "Condition: element, visible, invisible, enabled, text, page, ajax")
	waitCmd.Flags().String("loc", "", "Element locator (or first argument)")
	waitCmd.Flags().String("text", "", "Text to wait for with --for text")
	waitCmd.Flags().Int("timeout", 0, "Max milliseconds to wait (default: configured timeout)")
	waitCmd.Flags().String("ajax", "", "AJAX-idle preset or expression for --for ajax")
}
