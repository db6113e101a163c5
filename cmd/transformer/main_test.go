package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kswr/apbd-data-transformer/config"
)

const enrollment = `Jan,Kowalski,Informatyka,Dzienne,123456,01.01.2000,jan@example.com,Anna,Piotr
Jan,Kowalski,Informatyka,Dzienne,,01.01.2000,jan@example.com,Anna,Piotr
Ewa,Nowak,Sztuka Nowych Mediów,Zaoczne,2,15.06.1999,ewa@example.com,Maria,Adam
Jan,Kowalski,Informatyka,Zaoczne,123456,01.01.2000,jan2@example.com,Anna,Piotr
`

type fixture struct {
	dir     string
	target  string
	source  string
	logFile string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	old := config.DotEnvFile
	config.DotEnvFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { config.DotEnvFile = old })
	t.Setenv(config.ConfigPathEnv, "")

	f := fixture{
		dir:     dir,
		target:  filepath.Join(dir, "out"),
		source:  filepath.Join(dir, "dane.csv"),
		logFile: filepath.Join(dir, "log.txt"),
	}
	require.NoError(t, os.Mkdir(f.target, 0o755))
	require.NoError(t, os.WriteFile(f.source, []byte(enrollment), 0o644))
	return f
}

func (f fixture) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--log-file", f.logFile}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_JSON(t *testing.T) {
	f := newFixture(t)

	code, stdout, stderr := f.run(t, f.target, f.source, "json")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "run summary")

	data, err := os.ReadFile(filepath.Join(f.target, "result.json"))
	require.NoError(t, err)

	var out struct {
		Uczelnia struct {
			CreatedAt     string `json:"createdAt"`
			Author        string `json:"author"`
			Studenci      []map[string]any
			ActiveStudies []struct {
				Name             string `json:"name"`
				NumberOfStudents int    `json:"numberOfStudents"`
			} `json:"activeStudies"`
		} `json:"uczelnia"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Jan Kowalski", out.Uczelnia.Author)
	assert.Len(t, out.Uczelnia.CreatedAt, len("dd.mm.yyyy"))
	assert.Len(t, out.Uczelnia.Studenci, 2)
	require.Len(t, out.Uczelnia.ActiveStudies, 2)
	assert.Equal(t, "Informatyka", out.Uczelnia.ActiveStudies[0].Name)

	diag, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(diag), "line rejected")
	assert.Contains(t, string(diag), "duplicate record dropped")
	assert.Contains(t, string(diag), "run finished")
}

func TestRun_FormatsAndDefault(t *testing.T) {
	f := newFixture(t)

	code, _, stderr := f.run(t, f.target, f.source, "yaml")
	require.Equal(t, exitOK, code, stderr)
	assert.FileExists(t, filepath.Join(f.target, "result.yaml"))

	code, _, stderr = f.run(t, f.target, f.source, "xlsx")
	require.Equal(t, exitOK, code, stderr)
	assert.FileExists(t, filepath.Join(f.target, "result.xlsx"))

	t.Setenv("OUTPUT_FORMAT", "json")
	code, _, stderr = f.run(t, f.target, f.source)
	require.Equal(t, exitOK, code, stderr)
	assert.FileExists(t, filepath.Join(f.target, "result.json"))
}

func TestRun_QuotedPaths(t *testing.T) {
	f := newFixture(t)

	code, _, stderr := f.run(t, `"`+f.target+`"`, "„"+f.source+"”", "json")
	require.Equal(t, exitOK, code, stderr)
	assert.FileExists(t, filepath.Join(f.target, "result.json"))
}

func TestRun_UsageErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no arguments", nil, "expected 2 or 3 arguments"},
		{"too many arguments", []string{f.target, f.source, "json", "x"}, "expected 2 or 3 arguments"},
		{"missing target", []string{filepath.Join(f.dir, "nope"), f.source, "json"}, "does not exist"},
		{"target is a file", []string{f.source, f.source, "json"}, "not a directory"},
		{"missing source", []string{f.target, filepath.Join(f.dir, "nope.csv"), "json"}, "does not exist"},
		{"source is a directory", []string{f.target, f.target, "json"}, "not a regular file"},
		{"unsupported format", []string{f.target, f.source, "xml"}, "is not one of json, xlsx, yaml"},
		{"bad encoding", []string{"--encoding", "ebcdic", f.target, f.source, "json"}, "INPUT_ENCODING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := f.run(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, tt.want)

			entries, err := os.ReadDir(f.target)
			require.NoError(t, err)
			assert.Empty(t, entries, "no report on failure")
		})
	}
}

func TestRun_FailureIsLogged(t *testing.T) {
	f := newFixture(t)

	code, _, _ := f.run(t, f.target, f.source, "xml")
	require.Equal(t, exitUsage, code)

	diag, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(diag), "run failed")
}

func TestRun_EarlyFailuresAreLogged(t *testing.T) {
	f := newFixture(t)

	code, _, _ := f.run(t)
	require.Equal(t, exitUsage, code)
	diag, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(diag), "run failed")
	assert.Contains(t, string(diag), "expected 2 or 3 arguments")

	t.Setenv("OUTPUT_FORMAT", "xml")
	code, _, stderr := f.run(t, f.target, f.source)
	require.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "OUTPUT_FORMAT")
	diag, err = os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(diag), "run failed")
	assert.Contains(t, string(diag), "OUTPUT_FORMAT")
}

func TestLoadConfig_ResolvesNames(t *testing.T) {
	newFixture(t)

	cfg, err := loadConfig(options{Encoding: "cp1250", Workers: 2, LogFile: "diag.txt"})
	require.NoError(t, err)
	assert.Equal(t, "cp1250", cfg.Input.Encoding)
	assert.Equal(t, 2, cfg.Parser.Workers)
	assert.Equal(t, "diag.txt", cfg.Diagnostics.LogFile)

	_, err = loadConfig(options{Encoding: "ebcdic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INPUT_ENCODING")
}

func TestRun_OversizedLineIsRejected(t *testing.T) {
	f := newFixture(t)
	good := "Jan,Kowalski,Informatyka,Dzienne,1,01.01.2000,jan@example.com,Anna,Piotr\n"
	other := "Ewa,Nowak,Informatyka,Zaoczne,2,15.06.1999,ewa@example.com,Maria,Adam\n"
	content := good + strings.Repeat("x", 2<<20) + "\n" + other
	require.NoError(t, os.WriteFile(f.source, []byte(content), 0o644))

	code, _, stderr := f.run(t, f.target, f.source, "json")
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(filepath.Join(f.target, "result.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"s1"`)
	assert.Contains(t, string(data), `"s2"`)

	diag, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(diag), "line rejected")
	assert.Contains(t, string(diag), `"line_no":2`)
}

func TestRun_OnlineModeFlag(t *testing.T) {
	f := newFixture(t)
	line := "Ola,Lis,Informatyka,Internetowe,9,01.01.2000,ola@example.com,Anna,Piotr\n"
	require.NoError(t, os.WriteFile(f.source, []byte(line), 0o644))

	code, _, stderr := f.run(t, f.target, f.source, "json")
	require.Equal(t, exitOK, code, stderr)
	data, err := os.ReadFile(filepath.Join(f.target, "result.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Internetowe")

	t.Setenv("FEATURE_STUDY_ONLINE_MODE", "true")
	code, _, stderr = f.run(t, f.target, f.source, "json")
	require.Equal(t, exitOK, code, stderr)
	data, err = os.ReadFile(filepath.Join(f.target, "result.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Internetowe")
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/tmp/a b", sanitizePath(`  "/tmp/a b"  `))
	assert.Equal(t, "C:\\dane.csv", sanitizePath("„C:\\dane.csv”"))
	assert.Equal(t, "plain", sanitizePath("plain"))
}

func TestParseArgs(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseArgs([]string{"--workers", "3", "--encoding", "cp1250", "out", "in.csv"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, "cp1250", opts.Encoding)
	assert.Equal(t, "out", opts.TargetDir)
	assert.Equal(t, "in.csv", opts.SourceFile)
	assert.Empty(t, opts.Format)

	_, err = parseArgs([]string{"--workers", "-1", "a", "b"}, &stderr)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseArgs([]string{"a"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
	assert.True(t, strings.Contains(stderr.String(), "usage: transformer"))
}
