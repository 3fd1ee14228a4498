// Package ioformats reads batch URL lists and writes NDJSON results.
package ioformats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoURLs = errors.New("no urls found")

// ReadURLsFile reads a URL list from path. The format follows the
// extension: .csv needs a "url" header column; .ndjson and .jsonl take one
// URL per line, bare or as {"url": "..."}. Other extensions try CSV first,
// then NDJSON.
func ReadURLsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	urls, err := ReadURLs(bytes.NewReader(data), strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return urls, nil
}

// ReadURLs parses r as the format named by ext (".csv", ".ndjson", ".jsonl"
// or anything else to detect).
func ReadURLs(r io.Reader, ext string) ([]string, error) {
	switch ext {
	case ".csv":
		return readCSV(r)
	case ".ndjson", ".jsonl":
		return readNDJSON(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if urls, err := readCSV(bytes.NewReader(data)); err == nil {
		return urls, nil
	}
	return readNDJSON(bytes.NewReader(data))
}

func readCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), "url") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, errors.New("csv must contain a 'url' header column")
	}
	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			if u := strings.TrimSpace(row[col]); u != "" {
				out = append(out, u)
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoURLs
	}
	return out, nil
}

func readNDJSON(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "{") {
			var obj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				return nil, fmt.Errorf("line %q: %w", line, err)
			}
			if obj.URL = strings.TrimSpace(obj.URL); obj.URL != "" {
				out = append(out, obj.URL)
			}
			continue
		}
		out = append(out, strings.Trim(line, `"`))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoURLs
	}
	return out, nil
}

// WriteNDJSON writes items as newline-delimited JSON.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
