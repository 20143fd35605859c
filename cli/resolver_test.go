package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, doc string) config {
	t.Helper()

	r, err := resolve(t.Context())(strings.NewReader(doc))
	require.NoError(t, err)

	cfg, ok := r.(config)
	require.True(t, ok)

	return cfg
}

func TestResolve_Flatten(t *testing.T) {
	cfg := loadConfig(t, `
log:
  level: debug
  time_layout: Kitchen
log-pretty: false
source:
  - a.txt
  - b.txt
indent: 4
ratio: 0.5
`)

	assert.Equal(t, config{
		"log-level":       "debug",
		"log-time-layout": "Kitchen",
		"log-pretty":      false,
		"source":          []any{"a.txt", "b.txt"},
		"indent":          "4",
		"ratio":           "0.5",
	}, cfg)
}

func TestResolve_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":   "",
		"garbage": "{{<not yaml",
		"scalar":  "just a string",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, loadConfig(t, doc))
		})
	}
}

func TestResolve_AppliesToFlags(t *testing.T) {
	var cli struct {
		Log struct {
			Level  string `default:"info"`
			Pretty bool   `default:"true" negatable:""`
		} `embed:"" prefix:"log-"`

		Source []string
		Indent int `default:"2"`
	}

	r, err := resolve(t.Context())(strings.NewReader(
		"log_level: warn\nlog: {pretty: false}\nsource: [x.txt]\nindent: 8\n"))
	require.NoError(t, err)

	parser, err := kong.New(&cli, kong.Resolvers(r))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--log-level=error"})
	require.NoError(t, err)

	// Command-line flags win over the file.
	assert.Equal(t, "error", cli.Log.Level)
	assert.False(t, cli.Log.Pretty)
	assert.Equal(t, []string{"x.txt"}, cli.Source)
	assert.Equal(t, 8, cli.Indent)
}
