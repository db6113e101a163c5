package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseEncoding(t *testing.T) {
	tests := map[string]Encoding{
		"":             UTF8,
		"UTF-8":        UTF8,
		"utf8":         UTF8,
		"CP1250":       Windows1250,
		"windows-1250": Windows1250,
		" latin2 ":     ISO88592,
		"ISO-8859-2":   ISO88592,
	}
	for name, want := range tests {
		got, err := ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseEncoding("ebcdic")
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestReadLines_UTF8(t *testing.T) {
	in := "\xef\xbb\xbfJan,Kowalski\r\nAnna,Nowak\n\nŁukasz,Żak\n"

	lines, err := ReadLines(strings.NewReader(in), UTF8)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan,Kowalski", "Anna,Nowak", "", "Łukasz,Żak"}, lines)
}

func TestReadLines_Windows1250(t *testing.T) {
	encoded, err := charmap.Windows1250.NewEncoder().String("Sztuka Nowych Mediów,Łódź\n")
	require.NoError(t, err)

	lines, err := ReadLines(strings.NewReader(encoded), Windows1250)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sztuka Nowych Mediów,Łódź"}, lines)
}

func TestReadLines_ISO88592(t *testing.T) {
	encoded, err := charmap.ISO8859_2.NewEncoder().String("Źdźbło")
	require.NoError(t, err)

	lines, err := ReadLines(strings.NewReader(encoded), ISO88592)
	require.NoError(t, err)
	assert.Equal(t, []string{"Źdźbło"}, lines)
}

func TestReadLines_OversizedLineIsKept(t *testing.T) {
	good := "Jan,Kowalski,Informatyka,Dzienne,1,01.01.2000,jan@example.com,Anna,Piotr"
	long := strings.Repeat("x", 2<<20)
	in := good + "\n" + long + "\r\n" + good

	lines, err := ReadLines(strings.NewReader(in), UTF8)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, good, lines[0])
	assert.Len(t, lines[1], len(long))
	assert.Equal(t, good, lines[2])
}

func TestReadLines_Empty(t *testing.T) {
	lines, err := ReadLines(bytes.NewReader(nil), UTF8)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReadFile(t *testing.T) {
	content := []byte("a\nb\n")
	path := filepath.Join(t.TempDir(), "dane.csv")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := ReadFile(context.Background(), path, UTF8)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, []string{"a", "b"}, f.Lines)
	assert.Equal(t, Digest(content), f.Digest)
	assert.Len(t, f.Digest, 64)
}

func TestReadFile_Errors(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), UTF8)
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadFile(ctx, "whatever", UTF8)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest([]byte("x")), Digest([]byte("x")))
	assert.NotEqual(t, Digest([]byte("x")), Digest([]byte("y")))
}
