// Package display detects whether a graphical session is available to show
// the rendered result grid.
package display

import (
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// Replaced in tests.
var (
	getenv     = os.Getenv
	goos       = runtime.GOOS
	isTerminal = term.IsTerminal
)

// Type is the kind of graphical display found.
type Type string

const (
	TypeNone    Type = "none"
	TypeX11     Type = "x11"
	TypeWayland Type = "wayland"
	TypeWindows Type = "windows"
	TypeMacOS   Type = "macos"
)

// Env is the detected session.
type Env struct {
	Type     Type
	Remote   bool // SSH or mosh
	Terminal bool // stdout is a TTY
}

// Detect inspects the environment of the current process.
func Detect() Env {
	env := Env{
		Type:     TypeNone,
		Remote:   isRemote(),
		Terminal: isTerminal(int(os.Stdout.Fd())),
	}

	switch goos {
	case "windows":
		if !env.Remote && !windowsService() {
			env.Type = TypeWindows
		}
	case "darwin":
		// launchd daemons have XPC_SERVICE_NAME set and no window server
		if !env.Remote && getenv("XPC_SERVICE_NAME") == "" {
			env.Type = TypeMacOS
		}
	default:
		switch {
		case getenv("WAYLAND_DISPLAY") != "":
			env.Type = TypeWayland
		case getenv("DISPLAY") != "":
			env.Type = TypeX11
		}
	}
	return env
}

// HasDisplay reports whether an image viewer can be launched.
func (e Env) HasDisplay() bool {
	return e.Type != TypeNone
}

func isRemote() bool {
	for _, k := range []string{"SSH_CLIENT", "SSH_TTY", "SSH_CONNECTION", "MOSH_CONNECTION"} {
		if getenv(k) != "" {
			return true
		}
	}
	return false
}

// windowsService guesses whether the process runs without an interactive
// desktop session.
func windowsService() bool {
	session := getenv("SESSIONNAME")
	return (session == "" || strings.EqualFold(session, "Services")) &&
		getenv("USERDOMAIN_ROAMINGPROFILE") == ""
}
