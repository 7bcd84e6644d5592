package render

import (
	"fmt"
	"os/exec"
	"runtime"
)

// viewerCommand returns the command that opens path with the desktop's
// default application.
var viewerCommand = func(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// Open shows path in the system viewer.
func Open(path string) error {
	cmd := viewerCommand(path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}
