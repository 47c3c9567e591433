package authwindow

import (
	"fmt"

	"github.com/pkg/browser"
)

var openURL = browser.OpenURL

// OpenBrowser opens link in the default browser of the desktop session
func OpenBrowser(link string) error {
	if err := openURL(link); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
