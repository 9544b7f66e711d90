package rod

import "github.com/mj1618/browser-cli/internal/browser"

func init() {
	browser.Register("rod", Open)
}
