package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"marsclock/darian"
)

// ZoneConfig names a fixed Martian time zone by its offset from MTC.
type ZoneConfig struct {
	// Name is the label used to select the zone ("Elysium", "Gale", ...).
	Name string `yaml:"name" json:"name"`
	// Offset is the Martian clock offset from MTC in "+hh:mm[:ss]" form,
	// strictly between -24:00 and +24:00.
	Offset string `yaml:"offset" json:"offset"`
}

// EventConfig is a recurring terrestrial event that should be annotated
// with its Martian local time in the exported calendar.
type EventConfig struct {
	// Name is the event summary.
	Name string `yaml:"name" json:"name"`
	// Start is the first occurrence (DTSTART) in RFC 3339.
	Start string `yaml:"start" json:"start"`
	// RRule is the recurrence in RRULE content form,
	// e.g. "FREQ=WEEKLY;BYDAY=MO".
	RRule string `yaml:"rrule" json:"rrule"`
}

// ExportConfig controls the ICS export of Martian calendar structure onto
// the terrestrial timeline.
type ExportConfig struct {
	// Path is the output .ics file; empty disables export.
	Path string `yaml:"path" json:"path"`
	// HorizonDays is how many terrestrial days ahead of the export start
	// the calendar covers.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`
	// SolBoundaries adds an event per Martian midnight.
	SolBoundaries bool `yaml:"sol_boundaries" json:"sol_boundaries"`
	// MonthBoundaries adds an event per Martian month start.
	MonthBoundaries bool `yaml:"month_boundaries" json:"month_boundaries"`
}

// Config is the top-level application configuration.
type Config struct {
	// Zone selects the display zone by name; empty or "MTC" means the
	// Airy-0 reference frame.
	Zone string `yaml:"zone" json:"zone"`

	// Zones is the set of named fixed zones available for display and
	// export annotation.
	Zones []ZoneConfig `yaml:"zones" json:"zones"`

	// RefreshCron is the cron-style schedule for the daemon clock tick
	// (e.g. "* * * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// TAICorrection overrides the built-in TAI-UTC leap-second count in
	// seconds. Zero means the library default.
	TAICorrection int `yaml:"tai_correction" json:"tai_correction"`

	// LogLevel is "debug", "info" or "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Export configures the ICS export.
	Export ExportConfig `yaml:"export" json:"export"`

	// Events is the list of recurring terrestrial events to annotate.
	Events []EventConfig `yaml:"events" json:"events"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Zone:          "MTC",
		Zones:         []ZoneConfig{},
		RefreshCron:   "* * * * *",
		TAICorrection: darian.TAIMinusUTC,
		LogLevel:      "info",
		Export: ExportConfig{
			HorizonDays:     30,
			SolBoundaries:   true,
			MonthBoundaries: true,
		},
		Events: []EventConfig{},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Zone == "" {
		c.Zone = "MTC"
	}
	if c.Zones == nil {
		c.Zones = []ZoneConfig{}
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "* * * * *"
	}
	if c.TAICorrection == 0 {
		c.TAICorrection = darian.TAIMinusUTC
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
	if c.Export.HorizonDays <= 0 {
		c.Export.HorizonDays = 30
	}
	if c.Events == nil {
		c.Events = []EventConfig{}
	}
}

// ParseOffset parses a "+hh:mm", "-hh:mm" or "±hh:mm:ss" Martian clock
// offset into a Duration.
func ParseOffset(s string) (darian.Duration, error) {
	t := strings.TrimSpace(s)
	sign := int64(1)
	switch {
	case strings.HasPrefix(t, "-"):
		sign, t = -1, t[1:]
	case strings.HasPrefix(t, "+"):
		t = t[1:]
	}
	parts := strings.Split(t, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return darian.Duration{}, fmt.Errorf("config: offset %q is not hh:mm[:ss]", s)
	}
	var secs int64
	for i, unit := range []int64{3600, 60, 1} {
		if i >= len(parts) {
			break
		}
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil || n < 0 {
			return darian.Duration{}, fmt.Errorf("config: offset %q is not hh:mm[:ss]", s)
		}
		if i > 0 && n > 59 {
			return darian.Duration{}, fmt.Errorf("config: offset %q has a component over 59", s)
		}
		secs += n * unit
	}
	return darian.NewDuration(0, sign*secs, 0)
}

// BuildZones resolves the configured zones into darian fixed zones, keyed
// by name. "MTC" is always present.
func (c *Config) BuildZones() (map[string]*darian.FixedZone, error) {
	out := map[string]*darian.FixedZone{"MTC": darian.MTC}
	for _, zc := range c.Zones {
		if zc.Name == "" {
			return nil, errors.New("config: zone with empty name")
		}
		if _, dup := out[zc.Name]; dup {
			return nil, fmt.Errorf("config: duplicate zone %q", zc.Name)
		}
		off, err := ParseOffset(zc.Offset)
		if err != nil {
			return nil, err
		}
		z, err := darian.NewFixedZone(off, zc.Name)
		if err != nil {
			return nil, fmt.Errorf("config: zone %q: %w", zc.Name, err)
		}
		out[zc.Name] = z
	}
	return out, nil
}

// DisplayZone resolves the configured display zone.
func (c *Config) DisplayZone() (*darian.FixedZone, error) {
	zones, err := c.BuildZones()
	if err != nil {
		return nil, err
	}
	z, ok := zones[c.Zone]
	if !ok {
		return nil, fmt.Errorf("config: display zone %q is not defined", c.Zone)
	}
	return z, nil
}

// LeapShift is the correction, relative to the library's built-in
// TAI-UTC count, to apply to a terrestrial instant before converting
// it. Zero unless tai_correction diverges from the default.
func (c *Config) LeapShift() time.Duration {
	return time.Duration(c.TAICorrection-darian.TAIMinusUTC) * time.Second
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".marsclock-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
