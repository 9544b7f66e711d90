package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/browser/browsertest"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/locator"
	"github.com/mj1618/browser-cli/internal/output"
)

// resetFlags restores every flag to its default so commands run in one
// test do not leak flags into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command against a fake browser and returns what
// was printed.
func run(t *testing.T, d browser.Driver, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldOpen := output.Out, openDriver
	output.Out = &buf
	openDriver = func(string) (browser.Driver, error) { return d, nil }
	defer func() { output.Out, openDriver = oldOut, oldOpen }()

	resetFlags(rootCmd)
	missing := filepath.Join(t.TempDir(), "none.yaml")
	rootCmd.SetArgs(append([]string{"--config", missing, "--log-level", "error"}, args...))
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"open", "click", "type", "select", "check", "uncheck", "hover", "wait", "assert", "read", "screenshot", "do", "serve"}
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestSetup_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "browser-cli.yaml")
	if err := os.WriteFile(path, []byte("backend: rod\nmarker: css=#app\ntimeout: \"3000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BROWSER_CLI_BROWSER", "firefox")
	t.Setenv("BROWSER_CLI_TIMEOUT", "4000")

	resetFlags(rootCmd)
	defer resetFlags(rootCmd)
	pf := rootCmd.PersistentFlags()
	for name, v := range map[string]string{"config": path, "backend": "chromedp", "default-timeout": "5000", "format": "json"} {
		if err := pf.Set(name, v); err != nil {
			t.Fatal(err)
		}
	}
	defer func() { output.OutputFormat = output.FormatYAML }()
	if err := setup(&cobra.Command{}); err != nil {
		t.Fatal(err)
	}
	if settings.Backend != "chromedp" {
		t.Errorf("flag should beat the file: backend = %q", settings.Backend)
	}
	if settings.Browser != "firefox" {
		t.Errorf("env should apply: browser = %q", settings.Browser)
	}
	if settings.Marker != "css=#app" || config.Default().Marker() != "css=#app" {
		t.Errorf("file marker = %q, runtime %q", settings.Marker, config.Default().Marker())
	}
	if config.Default().TimeoutMillis() != "5000" {
		t.Errorf("runtime timeout = %q", config.Default().TimeoutMillis())
	}
	if output.OutputFormat != output.FormatJSON {
		t.Errorf("format = %q", output.OutputFormat)
	}

	// Restore the shared runtime for later tests.
	if err := config.Default().Apply(config.Defaults()); err != nil {
		t.Fatal(err)
	}
}

func TestPickClick(t *testing.T) {
	tests := []struct {
		params map[string]interface{}
		want   string
	}{
		{map[string]interface{}{}, "click"},
		{map[string]interface{}{"double": true}, "double-click"},
		{map[string]interface{}{"wait": true}, "click-and-wait"},
		{map[string]interface{}{"wait-first": true}, "wait-and-click"},
	}
	for _, tt := range tests {
		if got := pickClick(tt.params); got != tt.want {
			t.Errorf("pickClick(%v) = %q, want %q", tt.params, got, tt.want)
		}
	}
	p := map[string]interface{}{"wait-first": true, "wait": true}
	if pickClick(p) != "wait-and-click" || p["and-wait"] != true {
		t.Errorf("wait-first with wait should wait for the page: %v", p)
	}
	if pickType(map[string]interface{}{"key": "enter"}) != "key" || pickType(map[string]interface{}{"keys": true}) != "keys" {
		t.Error("pickType")
	}
}

func TestClickCommand(t *testing.T) {
	d := browsertest.New()
	d.Add("save", &browsertest.Element{Name: "save", Tag: "button"})
	out, err := run(t, d, "click", "save", "--name", "Save button")
	if err != nil {
		t.Fatal(err)
	}
	if d.Count("Click save") != 1 {
		t.Errorf("calls = %v", d.Calls())
	}
	if !strings.Contains(out, "ok: true") || !strings.Contains(out, "action: click") || !strings.Contains(out, "target: save") {
		t.Errorf("output = %s", out)
	}
	if !d.Closed {
		t.Error("browser should be closed after the command")
	}

	_, err = run(t, d, "click", "save", "--loc", "other")
	if err == nil || !strings.Contains(err.Error(), "not both") {
		t.Errorf("err = %v", err)
	}
}

func TestAssertCommand_FailureExitsNonZero(t *testing.T) {
	d := browsertest.New()
	d.Add("agree", browsertest.Checkbox("agree", false))
	out, err := run(t, d, "assert", "agree", "--checked")
	if err == nil {
		t.Fatal("failed assertion must return an error")
	}
	if !strings.Contains(out, "ok: false") || !strings.Contains(out, "is not checked") {
		t.Errorf("output = %s", out)
	}
}

func TestLocFlag_ListsOnlyParsedPrefixes(t *testing.T) {
	usage := clickCmd.Flags().Lookup("loc").Usage
	prefixes := regexp.MustCompile(`\b([a-z]+)=`).FindAllStringSubmatch(usage, -1)
	if len(prefixes) == 0 {
		t.Fatalf("usage lists no prefixes: %q", usage)
	}
	for _, m := range prefixes {
		spec, err := locator.Parse(m[1] + "=v")
		if err != nil || spec.Strategy == locator.ID {
			t.Errorf("usage lists %s= but it parses as %v (%v)", m[1], spec.Strategy, err)
		}
	}
}
