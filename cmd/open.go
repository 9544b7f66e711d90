package cmd

import "github.com/spf13/cobra"

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Open a page and wait for it to load",
	Long: `Open a page and wait until the page-ready marker is visible and, when an
AJAX-idle preset is configured, the page has no outstanding requests.

Examples:
  browser-cli open https://app.test/ --marker css=#app
  browser-cli open https://app.test/ --backend chromedp --timeout 10000`,
	Args: cobra.ExactArgs(1),
	RunE: runStep("open", "url", nil),
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().Int("timeout", 0, "Page load timeout in milliseconds")
}
