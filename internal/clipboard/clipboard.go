// Package clipboard copies exported citations to the system clipboard via
// shell commands.
package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command is found.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// candidates lists clipboard writers per OS in order of preference.
// Wayland sessions prefer wl-copy.
func candidates(goos string, wayland bool) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "linux", "freebsd", "openbsd":
		x11 := [][]string{
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
		if wayland {
			return append([][]string{{"wl-copy"}}, x11...)
		}
		return x11
	case "windows":
		return [][]string{{"clip.exe"}}
	}
	return nil
}

// getClipboardCommand returns the first available clipboard writer.
func getClipboardCommand() (*exec.Cmd, error) {
	wayland := os.Getenv("WAYLAND_DISPLAY") != ""
	for _, argv := range candidates(runtime.GOOS, wayland) {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return exec.Command(argv[0], argv[1:]...), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
