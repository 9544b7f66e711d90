package cmd

import "github.com/spf13/cobra"

var assertCmd = &cobra.Command{
	Use:   "assert [locator]",
	Short: "Assert a page condition is met",
	Long: `Check that an element exists with the expected state, or that the page
contains some text. Returns pass/fail with structured output and exit code 0
(pass) or 1 (fail). Combine with wait to poll first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep("assert", "loc", nil),
}

func init() {
	rootCmd.AddCommand(assertCmd)
	assertCmd.Flags().String("loc", "", "Element locator (or first argument)")
	assertCmd.Flags().Bool("gone", false, "Assert element does NOT exist")
	assertCmd.Flags().Bool("visible", false, "Assert element is displayed")
	assertCmd.Flags().Bool("hidden", false, "Assert element is not displayed")
	assertCmd.Flags().Bool("enabled", false, "Assert element is enabled")
	assertCmd.Flags().Bool("disabled", false, "Assert element is disabled")
	assertCmd.Flags().Bool("checked", false, "Assert element is selected/checked")
	assertCmd.Flags().Bool("unchecked", false, "Assert element is NOT selected/checked")
	assertCmd.Flags().String("text", "", "Assert element text equals this string")
	assertCmd.Flags().String("text-contains", "", "Assert element text contains this substring")
	assertCmd.Flags().String("text-present", "", "Assert the page body contains this text")
}
