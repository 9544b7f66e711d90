package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// locatorOptions are shared by every tool acting on one element.
func locatorOptions(what string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("loc", mcp.Required(), mcp.Description(what+" locator: //xpath, xpath=, link=, css=, or a plain id")),
		mcp.WithString("name", mcp.Description("Human-readable name used in the action log")),
		mcp.WithString("label", mcp.Description("Locator of an element whose text names the target in the action log")),
		mcp.WithBoolean("highlight", mcp.Description("Flash the element before acting (default: runtime setting)")),
		mcp.WithNumber("timeout", mcp.Description("Wait timeout in milliseconds (default: runtime setting)")),
		mcp.WithString("ajax", mcp.Description("AJAX-idle preset (jquery, prototype, dojo) or expression to wait for afterwards")),
	}
}

func sessionOption() mcp.ToolOption {
	return mcp.WithString("session", mcp.Required(), mcp.Description("Session id returned by open_session"))
}

func tool(name, description string, opts ...[]mcp.ToolOption) mcp.Tool {
	all := []mcp.ToolOption{mcp.WithDescription(description), sessionOption()}
	for _, o := range opts {
		all = append(all, o...)
	}
	return mcp.NewTool(name, all...)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("open_session",
			mcp.WithDescription("Start a browser and return a session id for the other tools"),
			mcp.WithString("backend", mcp.Description("Browser backend: selenium, chromedp, rod, playwright (default: configured backend)")),
			mcp.WithString("url", mcp.Description("Page to open once the browser is up")),
		),
		s.handleOpenSession,
	)
	s.mcp.AddTool(
		mcp.NewTool("close_session",
			mcp.WithDescription("Close a browser session"),
			sessionOption(),
		),
		s.handleCloseSession,
	)
	s.mcp.AddTool(
		mcp.NewTool("list_sessions", mcp.WithDescription("List open session ids")),
		s.handleListSessions,
	)

	nav := []mcp.ToolOption{
		mcp.WithNumber("timeout", mcp.Description("Page load timeout in milliseconds")),
	}
	s.mcp.AddTool(tool("open", "Navigate to a URL, absolute or relative to the current page, and wait for it to load",
		[]mcp.ToolOption{mcp.WithString("url", mcp.Required(), mcp.Description("Target URL"))}, nav), s.stepHandler("open"))
	s.mcp.AddTool(tool("back", "Go back one page and wait for it to load", nav), s.stepHandler("back"))
	s.mcp.AddTool(tool("refresh", "Reload the page and wait for it to load", nav), s.stepHandler("refresh"))

	s.mcp.AddTool(tool("click", "Click an element", locatorOptions("Element")), s.stepHandler("click"))
	s.mcp.AddTool(tool("double_click", "Double-click an element", locatorOptions("Element")), s.stepHandler("double-click"))
	s.mcp.AddTool(tool("click_and_wait", "Click an element and wait for the next page to load", locatorOptions("Element")), s.stepHandler("click-and-wait"))
	s.mcp.AddTool(tool("wait_and_click", "Wait for an element to appear, then click it", locatorOptions("Element"),
		[]mcp.ToolOption{mcp.WithBoolean("and-wait", mcp.Description("Also wait for the next page to load"))}), s.stepHandler("wait-and-click"))
	s.mcp.AddTool(tool("hover", "Move the mouse over an element", locatorOptions("Element")), s.stepHandler("hover"))
	s.mcp.AddTool(tool("check", "Tick a checkbox or radio button", locatorOptions("Checkbox")), s.stepHandler("check"))
	s.mcp.AddTool(tool("uncheck", "Untick a checkbox", locatorOptions("Checkbox")), s.stepHandler("uncheck"))

	s.mcp.AddTool(tool("type", "Clear a field and type text into it", locatorOptions("Field"),
		[]mcp.ToolOption{mcp.WithString("text", mcp.Description("Text to type"))}), s.stepHandler("type"))
	s.mcp.AddTool(tool("keys", "Send keystrokes to a field without clearing it", locatorOptions("Field"),
		[]mcp.ToolOption{mcp.WithString("text", mcp.Description("Keys to send"))}), s.stepHandler("keys"))
	s.mcp.AddTool(tool("key", "Press one key on an element", locatorOptions("Element"),
		[]mcp.ToolOption{mcp.WithString("key", mcp.Required(), mcp.Description(`Key name (enter, tab, escape), a "\13" style code, or one character`))}), s.stepHandler("key"))
	s.mcp.AddTool(tool("select", "Choose an option of a select list", locatorOptions("List"),
		[]mcp.ToolOption{
			mcp.WithString("option", mcp.Description("Option locator: label=, value=, id=, index=, or a plain label")),
			mcp.WithBoolean("and-wait", mcp.Description("Wait for the next page to load afterwards")),
		}), s.stepHandler("select"))

	s.mcp.AddTool(tool("wait", "Wait for a condition on the page",
		[]mcp.ToolOption{
			mcp.WithString("for", mcp.Description("Condition: element, visible, invisible, enabled, text, page, ajax (default: element)")),
			mcp.WithString("loc", mcp.Description("Element locator for element conditions")),
			mcp.WithString("text", mcp.Description("Text to wait for with for=text")),
			mcp.WithNumber("timeout", mcp.Description("Timeout in milliseconds")),
			mcp.WithString("ajax", mcp.Description("AJAX-idle preset or expression for for=ajax")),
		}), s.stepHandler("wait"))
	s.mcp.AddTool(tool("assert", "Check conditions on an element or the page once; fails if any does not hold",
		[]mcp.ToolOption{
			mcp.WithString("loc", mcp.Description("Element locator")),
			mcp.WithBoolean("gone", mcp.Description("Assert the element does NOT exist")),
			mcp.WithBoolean("visible", mcp.Description("Assert the element is displayed")),
			mcp.WithBoolean("hidden", mcp.Description("Assert the element is not displayed")),
			mcp.WithBoolean("enabled", mcp.Description("Assert the element is enabled")),
			mcp.WithBoolean("disabled", mcp.Description("Assert the element is disabled")),
			mcp.WithBoolean("checked", mcp.Description("Assert the element is selected/checked")),
			mcp.WithBoolean("unchecked", mcp.Description("Assert the element is NOT selected/checked")),
			mcp.WithString("text", mcp.Description("Assert the element text equals this string")),
			mcp.WithString("text-contains", mcp.Description("Assert the element text contains this substring")),
			mcp.WithString("text-present", mcp.Description("Assert the page body contains this text")),
		}), s.stepHandler("assert"))
	s.mcp.AddTool(tool("read", "Read element or page information",
		[]mcp.ToolOption{
			mcp.WithString("loc", mcp.Description("Element locator")),
			mcp.WithString("what", mcp.Description("text, attributes, type, description, selected, options, url, source (default: text)")),
		}), s.stepHandler("read"))
	s.mcp.AddTool(tool("screenshot", "Capture the page as PNG, save it and return it inline",
		[]mcp.ToolOption{
			mcp.WithString("class", mcp.Description("Test class recorded in the file name")),
			mcp.WithString("method", mcp.Description("Test method recorded in the file name")),
			mcp.WithBoolean("html", mcp.Description("Also save the page source")),
			mcp.WithString("caption", mcp.Description(`Caption drawn under the image; "url" uses the page address`)),
			mcp.WithNumber("width", mcp.Description("Scale to this width in pixels")),
		}), s.stepHandler("screenshot"))
	s.mcp.AddTool(tool("sleep", "Pause for a number of milliseconds",
		[]mcp.ToolOption{mcp.WithNumber("ms", mcp.Required(), mcp.Description("Milliseconds to sleep"))}), s.stepHandler("sleep"))
	s.mcp.AddTool(tool("set", "Change runtime defaults shared by all sessions",
		[]mcp.ToolOption{
			mcp.WithString("timeout", mcp.Description("Default wait timeout in milliseconds")),
			mcp.WithString("marker", mcp.Description("Locator that marks a loaded page")),
			mcp.WithString("ajax", mcp.Description(`AJAX-idle preset or expression; "none" disables`)),
			mcp.WithBoolean("highlight", mcp.Description("Flash elements before acting")),
			mcp.WithNumber("interval", mcp.Description("Poll interval in milliseconds")),
		}), s.stepHandler("set"))
	s.mcp.AddTool(tool("dialog", "Accept or dismiss the open alert, confirmation or prompt",
		[]mcp.ToolOption{
			mcp.WithString("kind", mcp.Description("alert, confirm or prompt (default: alert)")),
			mcp.WithBoolean("accept", mcp.Description("Accept (default) or dismiss")),
			mcp.WithString("answer", mcp.Description("Text to answer a prompt with")),
		}), s.stepHandler("dialog"))

	s.mcp.AddTool(tool("do", "Execute a batch of steps, each an object with one action key, e.g. {\"click\": {\"loc\": \"save\"}}",
		[]mcp.ToolOption{
			mcp.WithArray("steps", mcp.Description("Array of step objects"), mcp.Required()),
			mcp.WithBoolean("stop-on-error", mcp.Description("Stop on first error (default: true)")),
		}), s.handleDo)
}
