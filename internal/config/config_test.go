package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFlags struct {
	set            *pflag.FlagSet
	conn           string
	tables         []string
	camelCase      bool
	datesAsStrings bool
}

func newTestFlags() *testFlags {
	f := &testFlags{set: pflag.NewFlagSet("test", pflag.ContinueOnError)}
	f.set.StringVarP(&f.conn, "conn", "c", "postgres://default", "")
	f.set.StringSliceVarP(&f.tables, "table", "t", nil, "")
	f.set.BoolVarP(&f.camelCase, "camelCase", "C", false, "")
	f.set.BoolVar(&f.datesAsStrings, "datesAsStrings", false, "")
	return f
}

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "pg-to-ts.json", `{"conn": "postgres://cfg", "table": ["users", "orders"], "camelCase": true}`)

		values, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "postgres://cfg", values["conn"])
		assert.Equal(t, []any{"users", "orders"}, values["table"])
		assert.Equal(t, true, values["camelCase"])
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "pg-to-ts.yaml", "conn: postgres://cfg\ndatesAsStrings: true\n")

		values, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, true, values["datesAsStrings"])
	})

	t.Run("missing default file", func(t *testing.T) {
		values, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
		require.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"), true)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.json", `{"conn": [}`), true)
		assert.Error(t, err)
	})
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"conn", "PG_TO_TS_CONN"},
		{"camelCase", "PG_TO_TS_CAMEL_CASE"},
		{"datesAsStrings", "PG_TO_TS_DATES_AS_STRINGS"},
		{"excludedTable", "PG_TO_TS_EXCLUDED_TABLE"},
		{"log-format", "PG_TO_TS_LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvName(tt.flag))
		})
	}
}

func TestApplyPrecedence(t *testing.T) {
	values := Values{
		"conn":           "postgres://config",
		"table":          []any{"users", "orders"},
		"camelCase":      true,
		"datesAsStrings": true,
	}

	t.Run("config fills unset flags", func(t *testing.T) {
		f := newTestFlags()
		require.NoError(t, f.set.Parse(nil))
		require.NoError(t, Apply(f.set, values, noEnv))

		assert.Equal(t, "postgres://config", f.conn)
		assert.Equal(t, []string{"users", "orders"}, f.tables)
		assert.True(t, f.camelCase)
		assert.True(t, f.datesAsStrings)
	})

	t.Run("env beats config", func(t *testing.T) {
		f := newTestFlags()
		require.NoError(t, f.set.Parse(nil))
		env := envOf(map[string]string{"PG_TO_TS_CONN": "postgres://env", "PG_TO_TS_CAMEL_CASE": "false"})
		require.NoError(t, Apply(f.set, values, env))

		assert.Equal(t, "postgres://env", f.conn)
		assert.False(t, f.camelCase)
		assert.True(t, f.datesAsStrings)
	})

	t.Run("flags beat env", func(t *testing.T) {
		f := newTestFlags()
		require.NoError(t, f.set.Parse([]string{"-c", "postgres://flag", "-t", "invoices"}))
		env := envOf(map[string]string{"PG_TO_TS_CONN": "postgres://env"})
		require.NoError(t, Apply(f.set, values, env))

		assert.Equal(t, "postgres://flag", f.conn)
		assert.Equal(t, []string{"invoices"}, f.tables)
	})

	t.Run("defaults remain", func(t *testing.T) {
		f := newTestFlags()
		require.NoError(t, f.set.Parse(nil))
		require.NoError(t, Apply(f.set, nil, noEnv))

		assert.Equal(t, "postgres://default", f.conn)
		assert.Nil(t, f.tables)
	})
}

func TestApplyErrors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		f := newTestFlags()
		err := Apply(f.set, Values{"output": "x.ts", "bogus": 1}, noEnv)
		assert.EqualError(t, err, "unknown config key: bogus")
	})

	t.Run("bad env value", func(t *testing.T) {
		f := newTestFlags()
		err := Apply(f.set, nil, envOf(map[string]string{"PG_TO_TS_CAMEL_CASE": "maybe"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PG_TO_TS_CAMEL_CASE")
	})

	t.Run("bad config value", func(t *testing.T) {
		f := newTestFlags()
		err := Apply(f.set, Values{"datesAsStrings": "sometimes"}, noEnv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config key datesAsStrings")
	})
}
