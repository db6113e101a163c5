// Package source reads enrollment files: it decodes the configured charset,
// splits the content into lines and fingerprints the raw bytes.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a supported source charset.
type Encoding string

const (
	// UTF8 is UTF-8 with an optional byte order mark.
	UTF8 Encoding = "utf-8"
	// Windows1250 is the Central European Windows code page.
	Windows1250 Encoding = "windows-1250"
	// ISO88592 is Latin-2.
	ISO88592 Encoding = "iso-8859-2"
)

// ErrUnsupportedEncoding is returned for unknown charset names.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

var encodingAliases = map[string]Encoding{
	"":             UTF8,
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"windows-1250": Windows1250,
	"cp1250":       Windows1250,
	"iso-8859-2":   ISO88592,
	"latin2":       ISO88592,
}

// ParseEncoding resolves a charset name (case-insensitive, common aliases
// accepted). An empty name means UTF8.
func ParseEncoding(name string) (Encoding, error) {
	enc, ok := encodingAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	return enc, nil
}

func (e Encoding) decoder() (*encoding.Decoder, error) {
	switch e {
	case UTF8, "":
		return unicode.UTF8BOM.NewDecoder(), nil
	case Windows1250:
		return charmap.Windows1250.NewDecoder(), nil
	case ISO88592:
		return charmap.ISO8859_2.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(e))
	}
}

// File is a fully read source.
type File struct {
	Path   string
	Lines  []string
	Digest string // hex blake2b-256 of the raw bytes
}

// ReadFile reads and decodes the whole file at path.
func ReadFile(ctx context.Context, path string, enc Encoding) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	lines, err := ReadLines(bytes.NewReader(raw), enc)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", path, err)
	}
	return &File{Path: path, Lines: lines, Digest: Digest(raw)}, nil
}

// ReadLines decodes r and returns its lines without terminators. CRLF and
// LF endings are both accepted; a trailing newline does not add an empty
// line, but empty lines inside the content are kept. Line length is not
// bounded, so an oversized line still reaches validation.
func ReadLines(r io.Reader, enc Encoding) ([]string, error) {
	dec, err := enc.decoder()
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(transform.NewReader(r, dec))

	var lines []string
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			text = strings.TrimSuffix(text, "\n")
			lines = append(lines, strings.TrimSuffix(text, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Digest returns the hex blake2b-256 sum of b.
func Digest(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}
