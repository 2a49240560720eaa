// Package config layers environment variables and a config file beneath
// command-line flags.
//
// For every flag not set on the command line, the value comes from the
// environment variable PG_TO_TS_<FLAG_NAME> if present, then from the config
// file key named like the flag, and otherwise stays at the flag default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/pgtots/internal/naming"
)

// EnvPrefix prefixes the environment variable of every flag.
const EnvPrefix = "PG_TO_TS_"

// DefaultFile is the config file read when none is named.
const DefaultFile = "pg-to-ts.json"

// Values holds config file entries keyed by flag name.
type Values map[string]any

// Load reads a YAML or JSON config file. A missing file is only an error
// when the path was named explicitly.
func Load(path string, explicit bool) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return values, nil
}

// EnvName returns the environment variable consulted for a flag, e.g.
// PG_TO_TS_DATES_AS_STRINGS for datesAsStrings.
func EnvName(flag string) string {
	words := naming.Words(flag)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return EnvPrefix + strings.Join(words, "_")
}

// Apply fills every flag not changed on the command line from lookupEnv and
// values. Config keys that name no flag are rejected.
func Apply(flags *pflag.FlagSet, values Values, lookupEnv func(string) (string, bool)) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if flags.Lookup(key) == nil {
			return fmt.Errorf("unknown config key: %s", key)
		}
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		if v, ok := lookupEnv(EnvName(f.Name)); ok {
			if setErr := flags.Set(f.Name, v); setErr != nil {
				err = fmt.Errorf("invalid value for %s: %w", EnvName(f.Name), setErr)
			}
			return
		}
		if v, ok := values[f.Name]; ok {
			if setErr := setValue(flags, f.Name, v); setErr != nil {
				err = fmt.Errorf("invalid value for config key %s: %w", f.Name, setErr)
			}
		}
	})
	return err
}

// setValue sets a flag from a decoded config value. Lists set the flag once
// per element, which appends for slice flags.
func setValue(flags *pflag.FlagSet, name string, v any) error {
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		for _, elem := range v {
			if err := flags.Set(name, fmt.Sprint(elem)); err != nil {
				return err
			}
		}
		return nil
	default:
		return flags.Set(name, fmt.Sprint(v))
	}
}
