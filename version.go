package main

// Set with -ldflags "-X main.gitSHA1=... -X main.gitDirty=...".
var (
	gitSHA1  string = "unknown"
	gitDirty string = "unknown"
)

func RespcheckGitSHA1() string {
	return gitSHA1
}

func RespcheckGitDirty() string {
	return gitDirty
}
