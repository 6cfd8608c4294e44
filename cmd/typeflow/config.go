package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configFileName = "typeflow.toml"

// fileConfig mirrors typeflow.toml. Zero values mean "not set".
type fileConfig struct {
	Analysis struct {
		Undefined    string `toml:"undefined"`
		MaxCallDepth int    `toml:"max_call_depth"`
		Jobs         int    `toml:"jobs"`
		Cache        *bool  `toml:"cache"`
	} `toml:"analysis"`
	Output struct {
		Format         string `toml:"format"`
		Color          string `toml:"color"`
		MaxDiagnostics int    `toml:"max_diagnostics"`
	} `toml:"output"`
}

// findConfig walks from dir to the filesystem root and returns the first
// typeflow.toml found.
func findConfig(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// loadConfig decodes path; unknown keys are an error so typos do not pass
// silently.
func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// configValue binds a config entry to the flag it defaults. Commands limits
// the binding to commands whose flag has the same meaning.
type configValue struct {
	flag     string
	value    string
	commands []string
}

func (c *fileConfig) values() []configValue {
	var out []configValue
	add := func(flag, value string, commands ...string) {
		if value != "" {
			out = append(out, configValue{flag: flag, value: value, commands: commands})
		}
	}
	itoa := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	add("undefined", c.Analysis.Undefined, "analyze")
	add("max-call-depth", itoa(c.Analysis.MaxCallDepth), "analyze")
	add("jobs", itoa(c.Analysis.Jobs), "analyze")
	if c.Analysis.Cache != nil {
		add("cache", strconv.FormatBool(*c.Analysis.Cache), "analyze")
	}
	add("format", c.Output.Format, "analyze")
	add("color", c.Output.Color)
	add("max-diagnostics", itoa(c.Output.MaxDiagnostics))
	return out
}

// applyConfig loads typeflow.toml (explicit --config or discovered) and uses
// it as defaults for flags the user did not set.
func applyConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if skip, _ := flags.GetBool("no-config"); skip {
		return nil
	}
	path, _ := flags.GetString("config")
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		found, ok := findConfig(wd)
		if !ok {
			return nil
		}
		path = found
	} else if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config %s does not exist", path)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	for _, v := range cfg.values() {
		if len(v.commands) > 0 && !contains(v.commands, cmd.Name()) {
			continue
		}
		f := flags.Lookup(v.flag)
		if f == nil || f.Changed {
			continue
		}
		if err := flags.Set(v.flag, v.value); err != nil {
			return fmt.Errorf("%s: %s: %w", path, v.flag, err)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
