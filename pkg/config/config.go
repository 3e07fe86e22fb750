// Package config loads scan settings from a YAML or JSON file. File
// values are defaults; CLI flags override them.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/jsonutil"
)

// File mirrors the scan config file layout. Durations accept Go
// duration strings ("1s", "500ms").
type File struct {
	Target   string   `yaml:"target,omitempty" json:"target,omitempty"`
	Depth    int      `yaml:"depth,omitempty" json:"depth,omitempty"`
	Threads  int      `yaml:"threads,omitempty" json:"threads,omitempty"`
	Delay    Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	Timeout  Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	SameHost bool     `yaml:"same_host,omitempty" json:"same_host,omitempty"`

	IgnoreRobots bool   `yaml:"ignore_robots,omitempty" json:"ignore_robots,omitempty"`
	Cookies      string `yaml:"cookies,omitempty" json:"cookies,omitempty"`
	Proxy        string `yaml:"proxy,omitempty" json:"proxy,omitempty"`

	Output string `yaml:"output,omitempty" json:"output,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Default returns the stock settings a file merges on top of.
func Default() File {
	return File{
		Depth:   defaults.CrawlDepth,
		Threads: defaults.Threads,
		Delay:   Duration(defaults.RequestDelay),
		Timeout: Duration(defaults.RequestTimeout),
		Format:  "json",
	}
}

// Load reads path and merges it over Default. JSON is detected by the
// .json extension, everything else parses as YAML.
func Load(path string) (File, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if strings.HasSuffix(path, ".json") {
		if err := jsonutil.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Duration parses from a duration string or a bare number of seconds.
type Duration time.Duration

// STD returns the value as a time.Duration.
func (d Duration) STD() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.parse(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	return d.parse(raw)
}

func (d *Duration) parse(raw string) error {
	if raw == "" {
		*d = 0
		return nil
	}
	if v, err := time.ParseDuration(raw); err == nil {
		*d = Duration(v)
		return nil
	}
	var secs float64
	if _, err := fmt.Sscanf(raw, "%g", &secs); err == nil {
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("config: invalid duration %q", raw)
}
