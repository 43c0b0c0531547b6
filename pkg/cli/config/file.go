package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is a TOML configuration file. Keys are flag names; tables only group
// them, so
//
//	[server]
//	addr = "0.0.0.0:8080"
//
// sets --addr. Values from the file apply to flags that were not given on the
// command line or through the environment.
type File struct {
	values map[string]string
}

// LoadFile reads and parses path. An empty path yields an empty File.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{values: map[string]string{}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	return ParseFile(data)
}

// ParseFile parses TOML data
func ParseFile(data []byte) (*File, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file")
	}

	f := &File{values: map[string]string{}}
	if err := f.flatten("", raw); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) flatten(table string, raw map[string]any) error {
	for key, v := range raw {
		switch v := v.(type) {
		case map[string]any:
			if err := f.flatten(key, v); err != nil {
				return err
			}
		case []any:
			return goerr.New("arrays are not supported in config file", goerr.V("table", table), goerr.V("key", key))
		default:
			if _, dup := f.values[key]; dup {
				return goerr.New("key is defined twice in config file", goerr.V("table", table), goerr.V("key", key))
			}
			f.values[key] = fmt.Sprint(v)
		}
	}
	return nil
}

// Keys returns the flag names the file sets, sorted
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply sets the flags of cmd that the file defines and that are not set yet.
// Keys that cmd does not define are left for other commands.
func (f *File) Apply(cmd *cli.Command) error {
	for _, flag := range cmd.Flags {
		for _, name := range flag.Names() {
			v, ok := f.values[name]
			if !ok || cmd.IsSet(name) {
				continue
			}
			if err := cmd.Set(name, v); err != nil {
				return goerr.Wrap(err, "invalid value in config file",
					goerr.V("key", name),
					goerr.V("value", strings.TrimSpace(v)),
				)
			}
		}
	}
	return nil
}
