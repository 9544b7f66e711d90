package cmd

import "github.com/spf13/cobra"

var readCmd = &cobra.Command{
	Use:   "read [locator]",
	Short: "Read element or page information",
	Long: `Read information about an element or the page.

  text         visible text of the element (default)
  attributes   every attribute of the element plus its tag name
  type         element category, e.g. link, button, checkbox
  description  "<category>: <locator>" as used in the action log
  selected     selected option labels of a select list
  options      all option labels of a select list
  url          current page address
  source       page HTML`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep("read", "loc", nil),
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().String("loc", "", "Element locator (or first argument)")
	readCmd.Flags().String("what", "text", "text, attributes, type, description, selected, options, url, source")
}
