package tasty

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Options is the small set of run-wide knobs the unpickler itself reads
// (§6/§9); anything host-specific belongs in HostEnv instead. Unlike the
// other HostEnv collaborators these are plain data, so they round-trip
// through YAML the same way the teacher's editor config does, with
// TASTY_* environment variables overriding individual fields for one-off
// debugging without editing a file.
type Options struct {
	// DebugTasty turns on verbose per-node decode logging via Reporter.
	DebugTasty bool `yaml:"debugTasty"`
	// NoAnnotations drops annotation thunks entirely during readModifiers
	// instead of deferring them, matching a host running without its
	// annotation-checking phase enabled.
	NoAnnotations bool `yaml:"noAnnotations"`
}

// DefaultOptions returns the zero-value configuration: no debug logging,
// annotations retained.
func DefaultOptions() Options { return Options{} }

// LoadOptions reads YAML configuration from path if it exists (absence is
// not an error — callers get DefaultOptions), then applies TASTY_DEBUG /
// TASTY_NO_ANNOTATIONS environment overrides via spf13/cast so a boolean
// can be spelled "1", "true", or "yes" interchangeably, matching the
// teacher's tolerance for loosely-typed config inputs.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return opts, err
			}
		} else if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, err
		}
	}

	if v, ok := os.LookupEnv("TASTY_DEBUG"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return opts, err
		}
		opts.DebugTasty = b
	}
	if v, ok := os.LookupEnv("TASTY_NO_ANNOTATIONS"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return opts, err
		}
		opts.NoAnnotations = b
	}
	return opts, nil
}
