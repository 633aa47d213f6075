package view

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteStaticAssets(t *testing.T) {
	staticDir := filepath.Join(t.TempDir(), "static")
	require.NoError(t, WriteStaticAssets(staticDir))

	css, err := os.ReadFile(filepath.Join(staticDir, "site.css"))
	require.NoError(t, err)
	require.Contains(t, string(css), ".topnav")
}

func TestNewRendererParsesTemplates(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = renderer.Render(&buf, "about", struct{ Title string }{Title: "About"}, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "About")
}

func TestCommas(t *testing.T) {
	var tests = []struct {
		name     string
		value    interface{}
		expected string
	}{
		{name: "small int", value: 999, expected: "999"},
		{name: "thousands", value: 12345678, expected: "12,345,678"},
		{name: "exact boundary", value: 1000, expected: "1,000"},
		{name: "int64", value: int64(2500000), expected: "2,500,000"},
		{name: "float rounds", value: 2512.6, expected: "2,513"},
		{name: "negative", value: -1234567, expected: "-1,234,567"},
		{name: "string passthrough", value: "n/a", expected: "n/a"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Commas(test.value))
		})
	}
}
