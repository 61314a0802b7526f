package main

import (
	"os"

	"github.com/fzft/go-resp/cmd"
)

func main() {
	cli := cmd.New(os.Stdin, os.Stdout, os.Stderr)
	cli.GitSHA1 = RespcheckGitSHA1()
	cli.GitDirty = RespcheckGitDirty()
	os.Exit(cli.Run(os.Args[1:]))
}
