//go:build !unix

package cmd

func terminalWidth(fd uintptr) int {
	return 0
}
