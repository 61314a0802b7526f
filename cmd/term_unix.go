//go:build unix

package cmd

import (
	"golang.org/x/sys/unix"
)

// terminalWidth returns the column count of the terminal behind fd, or 0 when fd is
// not a terminal.
func terminalWidth(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
