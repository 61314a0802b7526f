package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCli(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(RespcheckHisFileEnv, "/dev/null")

	var stdout, stderr bytes.Buffer
	cli := New(strings.NewReader(stdin), &stdout, &stderr)
	code := cli.Run(args)
	return code, stdout.String(), stderr.String()
}

func TestRunDecodesStdin(t *testing.T) {
	code, out, _ := runCli(t, "*2\r\n:1\r\n+OK\r\n")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "1) (integer) 1\n2) \"OK\"\n", out)
}

func TestRunReportsFailurePosition(t *testing.T) {
	code, out, _ := runCli(t, "$2\r\nHello\r\n")
	assert.Equal(t, ExitDecode, code)
	assert.Equal(t,
		"(error) resp: size mismatch at byte 6 while decoding BULK_STRING\n"+
			`$2\r\nHello\r\n`+"\n"+
			"        ^\n",
		out)
}

func TestRunEval(t *testing.T) {
	code, out, _ := runCli(t, "", "-e", `*5\r\n$-1\r\n:447\r\n-Oh oh!\r\n+Hourly\r\n$26\r\nSi vis pacem,\r\npara bellum\r\n`)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "1) (nil)\n2) (integer) 447\n3) (error) Oh oh!\n4) \"Hourly\"\n5) \"Si vis pacem,\\r\\npara bellum\"\n", out)
}

func TestRunRawOutput(t *testing.T) {
	code, out, _ := runCli(t, "", "-raw", "-e", `*3\r\n+a\r\n$-1\r\n:5\r\n`)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "a\n\n5\n", out)

	code, out, _ = runCli(t, "", "-output", "raw", "-e", `$4\r\nx\r\ny\r\n`)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "x\r\ny\n", out)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.resp")
	bad := filepath.Join(dir, "bad.resp")
	require.NoError(t, os.WriteFile(good, []byte(":42\r\n"), 0600))
	require.NoError(t, os.WriteFile(bad, []byte("*2\r\n$-1\r\n"), 0600))

	code, out, _ := runCli(t, "", good, bad)
	assert.Equal(t, ExitDecode, code)
	assert.Contains(t, out, "==> "+good+" <==\n(integer) 42\n")
	assert.Contains(t, out, "==> "+bad+" <==\n(error) resp: size mismatch at byte 9 while decoding ARRAY\n")

	code, out, _ = runCli(t, "", good)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "(integer) 42\n", out)

	code, _, errOut := runCli(t, "", filepath.Join(dir, "missing.resp"))
	assert.Equal(t, ExitDecode, code)
	assert.Contains(t, errOut, "missing.resp")
}

func TestRunMaxDepth(t *testing.T) {
	code, out, _ := runCli(t, "", "-max-depth", "1", "-e", `*1\r\n*1\r\n:1\r\n`)
	assert.Equal(t, ExitDecode, code)
	assert.True(t, strings.HasPrefix(out, "(error) resp: unexpected input at byte 4 while decoding ARRAY\n"))
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCli(t, "", "-version")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "respcheck "+RespcheckVersion+"\n", out)
}

func TestVersionWithGitInfo(t *testing.T) {
	cli := New(nil, nil, nil)
	cli.GitSHA1 = "1a2b3c4d"
	cli.GitDirty = "1"
	assert.Equal(t, RespcheckVersion+" (git:1a2b3c4d-dirty)", cli.Version())

	cli.GitSHA1 = "unknown"
	assert.Equal(t, RespcheckVersion, cli.Version())
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad output", args: []string{"-output", "yaml"}, want: "usage error"},
		{name: "bad depth", args: []string{"-max-depth", "0"}, want: "usage error"},
		{name: "bad log level", args: []string{"-log-level", "loud"}, want: "usage error"},
		{name: "eval with files", args: []string{"-e", `+OK\r\n`, "file.resp"}, want: "cannot be combined"},
		{name: "bad escape", args: []string{"-e", `+OK\q`}, want: "invalid escape"},
		{name: "unknown flag", args: []string{"-nope"}, want: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCli(t, "", tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestEvalLine(t *testing.T) {
	var stdout bytes.Buffer
	cli := New(nil, &stdout, &stdout)
	cli.config = &Config{Output: "standard"}

	assert.True(t, cli.evalLine("quit"))
	assert.True(t, cli.evalLine("  EXIT "))

	assert.False(t, cli.evalLine("help"))
	assert.Contains(t, stdout.String(), "Commands:")

	stdout.Reset()
	assert.False(t, cli.evalLine(`:0`))
	assert.Equal(t, "(error) resp: unexpected input at byte 2 while decoding INTEGER\n:0\n  ^\n", stdout.String())

	stdout.Reset()
	assert.False(t, cli.evalLine(`+PONG\r\n`))
	assert.Equal(t, "\"PONG\"\n", stdout.String())

	stdout.Reset()
	assert.False(t, cli.evalLine(`+PONG\`))
	assert.True(t, strings.HasPrefix(stdout.String(), "(error) invalid escape at column 6"))
}

func TestGetDotfilePath(t *testing.T) {
	t.Setenv(RespcheckHisFileEnv, "/tmp/custom_history")
	assert.Equal(t, "/tmp/custom_history", getDotfilePath(RespcheckHisFileEnv, RespcheckHisFileDefault))

	t.Setenv(RespcheckHisFileEnv, "/dev/null")
	assert.Equal(t, "", getDotfilePath(RespcheckHisFileEnv, RespcheckHisFileDefault))

	home := t.TempDir()
	t.Setenv(RespcheckHisFileEnv, "")
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, RespcheckHisFileDefault), getDotfilePath(RespcheckHisFileEnv, RespcheckHisFileDefault))
}
