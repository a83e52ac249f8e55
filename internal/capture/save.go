package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// screenshotTimeFormat names saved screenshots after their capture
// instant, matching the desktop app's screenshot_YYYYMMDD_HHMMSS.png form.
const screenshotTimeFormat = "20060102_150405"

// SaveScreenshot writes PNG bytes into dir, creating the directory if
// needed, and returns the saved file path. The filename is derived from
// the capture timestamp.
func SaveScreenshot(dir string, pngBytes []byte, capturedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	name := fmt.Sprintf("screenshot_%s.png", capturedAt.Format(screenshotTimeFormat))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, pngBytes, 0600); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}
