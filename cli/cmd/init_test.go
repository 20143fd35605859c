package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initCLI mirrors the shape of the real flag groups.
type initCLI struct {
	Log struct {
		Level  string `default:"info"`
		Pretty bool   `default:"true" negatable:""`
	} `embed:"" prefix:"log-"`

	Source []string `short:"s"`

	Init Init `cmd:""`
}

func parseInitCLI(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	require.NoError(t, err)

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	require.NoError(t, err)

	return ktx
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		exists  bool
		wantErr bool
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", args: []string{"--force"}, exists: true},
		{name: "fail_without_force", exists: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

			if tt.exists {
				require.NoError(t, os.MkdirAll(filepath.Dir(confPath), 0o700))
				require.NoError(t, os.WriteFile(confPath, []byte("existing: true\n"), 0o600))
			}

			ktx := parseInitCLI(t, confPath, append([]string{"--log-level=debug"}, tt.args...)...)
			ctx := WithContext(t.Context(), ktx)

			cmd := &Init{Force: len(tt.args) > 0}

			err := cmd.Run(ctx)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrWriteConfig)
				assert.ErrorIs(t, err, ErrFileExists)

				return
			}

			require.NoError(t, err)

			data, err := os.ReadFile(confPath)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, yaml.Unmarshal(data, &got))

			assert.Equal(t, "debug", got["log-level"])
			assert.Equal(t, true, got["log-pretty"])
			assert.NotContains(t, got, "help")
			assert.NotContains(t, got, "source", "empty values are omitted")
		})
	}
}
