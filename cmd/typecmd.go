package cmd

import "github.com/spf13/cobra"

var typeCmd = &cobra.Command{
	Use:   "type [locator]",
	Short: "Type text into a field or press a key on it",
	Long: `Clear a field and type text into it. With --keys the field is not cleared
first; with --key a single key is pressed instead.

Keys are named (enter, tab, escape, backspace, arrow_down, ...), given as a
"\13" style character code, or a single character.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep("type", "loc", pickType),
}

func init() {
	rootCmd.AddCommand(typeCmd)
	addLocatorFlags(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type")
	typeCmd.Flags().Bool("keys", false, "Send the text as keystrokes without clearing the field")
	typeCmd.Flags().String("key", "", `Key to press, e.g. "enter", "tab" or "\13"`)
}

func pickType(params map[string]interface{}) string {
	if _, ok := params["key"]; ok {
		return "key"
	}
	if keys, _ := params["keys"].(bool); keys {
		return "keys"
	}
	return "type"
}

var selectCmd = &cobra.Command{
	Use:   "select [locator]",
	Short: "Choose an option of a select list",
	Long: `Choose an option of a select list. Multiple-choice lists are cleared first.

Option locators: label=<text>, value=<value>, id=<id>, index=<n>, or plain text
matching the label. An empty option does nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStep("select", "loc", nil),
}

var checkCmd = &cobra.Command{
	Use:   "check [locator]",
	Short: "Tick a checkbox or radio button",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStep("check", "loc", nil),
}

var uncheckCmd = &cobra.Command{
	Use:   "uncheck [locator]",
	Short: "Untick a checkbox",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStep("uncheck", "loc", nil),
}

func init() {
	rootCmd.AddCommand(selectCmd, checkCmd, uncheckCmd)
	addLocatorFlags(selectCmd)
	selectCmd.Flags().String("option", "", "Option locator")
	selectCmd.Flags().Bool("and-wait", false, "Wait for the next page to load afterwards")
	addLocatorFlags(checkCmd)
	addLocatorFlags(uncheckCmd)
}
