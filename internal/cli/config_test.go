package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/ls-ephemeris/internal/config"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	oldFile, oldForce := cfgFile, configForce
	defer func() { cfgFile, configForce = oldFile, oldForce }()
	cfgFile = path
	configForce = false

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("init error: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if loaded.Source.Kind != "analytic" || loaded.Observer.Site != "greenwich" {
		t.Errorf("written config lost defaults: %+v", loaded)
	}

	// A second init must refuse to clobber the file.
	if err := runConfigInit(configInitCmd, nil); err == nil {
		t.Fatal("expected an error for an existing file")
	} else if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error should point at --force, got %v", err)
	}

	if err := os.WriteFile(path, []byte("source:\n  kind: horizons\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configForce = true
	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("forced init error: %v", err)
	}
	loaded, err = config.Load(path)
	if err != nil {
		t.Fatalf("loading rewritten config: %v", err)
	}
	if loaded.Source.Kind != "analytic" {
		t.Errorf("forced init should restore defaults, got kind %q", loaded.Source.Kind)
	}
}
