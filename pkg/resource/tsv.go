// Package resource reads the tab-separated linguistic data files (lemma
// tables, analyzer profiles) shipped next to the binary.
package resource

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// ReadTSV streams the rows of name from fsys into fn. Files ending in ".gz"
// are decompressed. Blank lines and lines starting with '#' are skipped; rows
// with fewer than minFields columns are an error.
func ReadTSV(fsys fs.FS, name string, minFields int, fn func(fields []string) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("resource: %s: gzip: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	return ScanTSV(r, name, minFields, fn)
}

// ScanTSV applies the ReadTSV row rules to an already opened stream. A
// leading byte order mark and CRLF line endings are tolerated. name is only
// used in errors.
func ScanTSV(r io.Reader, name string, minFields int, fn func(fields []string) error) error {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scan.Scan() {
		line++
		text := strings.TrimSuffix(scan.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < minFields {
			return fmt.Errorf("resource: %s:%d: want %d fields, got %d", name, line, minFields, len(fields))
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("resource: %s:%d: %w", name, line, err)
		}
	}
	if err := scan.Err(); err != nil {
		return fmt.Errorf("resource: %s: %w", name, err)
	}
	return nil
}
