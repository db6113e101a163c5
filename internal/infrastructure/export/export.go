// Package export serializes report documents and writes them to the target
// directory. Supported formats are json, yaml and xlsx.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kswr/apbd-data-transformer/internal/domain/report"
	"github.com/kswr/apbd-data-transformer/internal/domain/shared"
)

// Format names an output format.
type Format string

// Supported report formats.
const (
	// FormatJSON is indented UTF-8 JSON.
	FormatJSON Format = "json"
	// FormatYAML mirrors the JSON shape in YAML.
	FormatYAML Format = "yaml"
	// FormatXLSX is an Excel workbook with one sheet per report section.
	FormatXLSX Format = "xlsx"
)

// BaseName is the file name (without extension) of every report.
const BaseName = "result"

// ErrUnsupportedFormat is returned for formats without an encoder.
var ErrUnsupportedFormat = shared.NewDomainError("export", "Lookup", shared.ErrUnsupported, "unsupported output format")

// Encoder serializes a document in one format.
type Encoder interface {
	// Format is the name Lookup resolves to this encoder.
	Format() Format
	// Extension is the report file extension, without the dot.
	Extension() string
	Encode(w io.Writer, doc report.Document) error
}

var encoders = map[Format]Encoder{
	FormatJSON: JSONEncoder{},
	FormatYAML: YAMLEncoder{},
	FormatXLSX: XLSXEncoder{},
}

// Lookup returns the encoder for name (case-insensitive).
func Lookup(name string) (Encoder, error) {
	enc, ok := encoders[Format(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, shared.WrapError("export", "Lookup", ErrUnsupportedFormat,
			fmt.Sprintf("format %q is not one of %s", name, strings.Join(Formats(), ", ")), nil)
	}
	return enc, nil
}

// Formats lists the supported format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for f := range encoders {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Writer writes encoded reports into a directory.
type Writer struct {
	// Atomic writes to a temporary file in the target directory and
	// renames it into place, so a failed run never leaves a partial report.
	Atomic bool
}

// Path returns the report path for enc inside dir.
func Path(dir string, enc Encoder) string {
	return filepath.Join(dir, BaseName+"."+enc.Extension())
}

// Write encodes doc into dir/result.<ext> and returns the path.
func (w Writer) Write(ctx context.Context, dir string, enc Encoder, doc report.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := Path(dir, enc)

	if !w.Atomic {
		f, err := os.Create(target)
		if err != nil {
			return "", fmt.Errorf("export: create %s: %w", target, err)
		}
		if err := enc.Encode(f, doc); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("export: encode %s: %w", enc.Format(), err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("export: close %s: %w", target, err)
		}
		return target, nil
	}

	tmp, err := os.CreateTemp(dir, "."+BaseName+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("export: create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if err := enc.Encode(tmp, doc); err != nil {
		cleanup()
		return "", fmt.Errorf("export: encode %s: %w", enc.Format(), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", fmt.Errorf("export: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("export: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("export: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("export: rename to %s: %w", target, err)
	}
	return target, nil
}
