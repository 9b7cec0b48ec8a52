package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenURL hands url to the desktop's default handler (browser or registered app, e.g. tg:// links).
//
// Supports macOS, Linux, and Windows platforms.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch rt := getRuntime(); rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("%w: unsupported platform %s", ErrServiceUnavailable, rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to open url: %v", ErrServiceUnavailable, err)
	}

	return nil
}
