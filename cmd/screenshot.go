package cmd

import "github.com/spf13/cobra"

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a screenshot of the page",
	Long: `Capture the page as PNG and save it under the screenshot directory as
yyyyMMdd-HHmmssS[-class.method].png. The configured directory falls back to
the system temp directory when it cannot be written.`,
	Args: cobra.NoArgs,
	RunE: runStep("screenshot", "", nil),
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("class", "", "Test class recorded in the file name")
	screenshotCmd.Flags().String("method", "", "Test method recorded in the file name")
	screenshotCmd.Flags().Bool("html", false, "Also save the page source next to the image")
	screenshotCmd.Flags().String("caption", "", `Caption drawn under the image; "url" uses the page address`)
	screenshotCmd.Flags().Int("width", 0, "Scale the image to this width in pixels")
}
