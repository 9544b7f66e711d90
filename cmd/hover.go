package cmd

import "github.com/spf13/cobra"

var hoverCmd = &cobra.Command{
	Use:   "hover [locator]",
	Short: "Move the mouse over an element without clicking",
	Long:  "Move the mouse over an element without clicking. Useful for triggering hover-dependent UI like tooltips and flyout menus.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStep("hover", "loc", nil),
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	addLocatorFlags(hoverCmd)
}
