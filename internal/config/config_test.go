package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches into dir for the duration of the test and restores the
// original working directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Core.CASRoot == "" || cfg.Core.DefaultArchive == "" || cfg.Core.RootStorePath == "" {
		t.Fatalf("expected non-empty defaults, got %+v", cfg.Core)
	}
	if !cfg.Color.UI || !cfg.Color.Diff {
		t.Fatalf("expected color defaults on, got %+v", cfg.Color)
	}
}

func TestSaveAndLoadRepoConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg := DefaultConfig()
	cfg.Core.CASRoot = "custom/objects"
	if err := SaveRepoConfig(cfg); err != nil {
		t.Fatalf("SaveRepoConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Core.CASRoot != "custom/objects" {
		t.Fatalf("CASRoot = %q, want %q", got.Core.CASRoot, "custom/objects")
	}
}

func TestSetAndGetValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	if err := SetValue("core.default_archive", "release.ditiear", false); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	got, err := GetValue("core.default_archive")
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if got != "release.ditiear" {
		t.Fatalf("got %q, want %q", got, "release.ditiear")
	}
}

func TestGetValueUnknownSection(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	if _, err := GetValue("nope.field"); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func TestRepoConfigOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	globalCfg := DefaultConfig()
	globalCfg.Core.CASRoot = "global/objects"
	if err := writeConfig(filepath.Join(home, ".ditiearconfig"), globalCfg); err != nil {
		t.Fatalf("write global config: %v", err)
	}

	chdir(t, t.TempDir())
	repoCfg := DefaultConfig()
	repoCfg.Core.CASRoot = "repo/objects"
	if err := SaveRepoConfig(repoCfg); err != nil {
		t.Fatalf("SaveRepoConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Core.CASRoot != "repo/objects" {
		t.Fatalf("CASRoot = %q, want repo config to win", got.Core.CASRoot)
	}
}
