package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "id,URL,note\n1, https://a.example ,x\n2,,empty\n3,https://b.example\n"
	urls, err := ReadURLs(strings.NewReader(in), ".csv")
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestReadCSVWithoutURLColumn(t *testing.T) {
	_, err := ReadURLs(strings.NewReader("name\nfoo\n"), ".csv")
	require.ErrorContains(t, err, "url")
}

func TestReadNDJSON(t *testing.T) {
	in := `{"url":"https://a.example"}
https://b.example

# comment
"https://c.example"
{"url":"  "}
`
	urls, err := ReadURLs(strings.NewReader(in), ".ndjson")
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, urls)
}

func TestReadNDJSONMalformedObject(t *testing.T) {
	_, err := ReadURLs(strings.NewReader(`{"url":`), ".jsonl")
	require.Error(t, err)
}

func TestReadEmpty(t *testing.T) {
	_, err := ReadURLs(strings.NewReader("\n\n"), ".ndjson")
	require.ErrorIs(t, err, ErrNoURLs)
}

func TestReadDetectsFormat(t *testing.T) {
	urls, err := ReadURLs(strings.NewReader("url\nhttps://a.example\n"), ".txt")
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example"}, urls)

	urls, err = ReadURLs(strings.NewReader("{\"url\":\"https://a.example\"}\nhttps://b.example\n"), "")
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestReadURLsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffurl\nhttps://a.example\n"), 0o600))
	urls, err := ReadURLsFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example"}, urls)

	_, err = ReadURLsFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestWriteNDJSON(t *testing.T) {
	type line struct {
		URL   string `json:"url"`
		Error string `json:"error,omitempty"`
	}
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, []line{{URL: "a"}, {URL: "b", Error: "boom"}}))
	require.Equal(t, "{\"url\":\"a\"}\n{\"url\":\"b\",\"error\":\"boom\"}\n", buf.String())
}
