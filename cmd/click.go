package cmd

import "github.com/spf13/cobra"

var clickCmd = &cobra.Command{
	Use:   "click [locator]",
	Short: "Click an element",
	Long: `Click the element matched by a locator, then wait for outstanding AJAX
requests when an AJAX-idle preset is configured.

Examples:
  browser-cli click --url https://app.test/login "css=button[type=submit]" --wait
  browser-cli click save --double
  browser-cli click "link=Next page" --wait-first --timeout 5000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep("click", "loc", pickClick),
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addLocatorFlags(clickCmd)
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().Bool("wait", false, "Wait for the next page to load after clicking")
	clickCmd.Flags().Bool("wait-first", false, "Wait for the element to appear before clicking")
}

func pickClick(params map[string]interface{}) string {
	double, _ := params["double"].(bool)
	waitPage, _ := params["wait"].(bool)
	waitFirst, _ := params["wait-first"].(bool)
	switch {
	case double:
		return "double-click"
	case waitFirst:
		params["and-wait"] = waitPage
		return "wait-and-click"
	case waitPage:
		return "click-and-wait"
	default:
		return "click"
	}
}
