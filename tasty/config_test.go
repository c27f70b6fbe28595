package tasty

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionsDefaultsWhenFileMissing(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadOptions() error = %v, want nil", err)
	}
	if opts != DefaultOptions() {
		t.Fatalf("LoadOptions() = %+v, want defaults", opts)
	}
}

func TestLoadOptionsReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("debugTasty: true\nnoAnnotations: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if !opts.DebugTasty || !opts.NoAnnotations {
		t.Fatalf("LoadOptions() = %+v, want both flags true", opts)
	}
}

func TestLoadOptionsEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("debugTasty: false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("TASTY_DEBUG", "yes")
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions() error = %v", err)
	}
	if !opts.DebugTasty {
		t.Fatalf("expected TASTY_DEBUG=yes to override the file's debugTasty: false")
	}
}
