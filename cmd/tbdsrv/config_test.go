package main

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_LoadConfig_Returns_Defaults_When_No_Files_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, sources, err := LoadConfig(dir, "", nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := DefaultConfig()
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}

	if sources.Global != "" || sources.Project != "" {
		t.Errorf("expected no sources loaded, got %+v", sources)
	}
}

func Test_LoadConfig_Applies_Project_Config_Over_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	projectFile := filepath.Join(dir, ConfigFileName)
	content := `{
		// project override
		"buffer_size": 4096,
		"hunk_granule": 16,
	}`

	if err := os.WriteFile(projectFile, []byte(content), 0o644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}

	cfg, sources, err := LoadConfig(dir, "", nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.BufferSize != 4096 {
		t.Errorf("BufferSize = %d, want 4096", cfg.BufferSize)
	}

	if cfg.HunkGranule != 16 {
		t.Errorf("HunkGranule = %d, want 16", cfg.HunkGranule)
	}

	if sources.Project != projectFile {
		t.Errorf("sources.Project = %q, want %q", sources.Project, projectFile)
	}
}

func Test_LoadConfig_Returns_Error_When_Explicit_Config_Path_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := LoadConfig(dir, "does-not-exist.json", nil)
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func Test_ValidateConfig_Rejects_Buffer_Too_Small_For_Header(t *testing.T) {
	t.Parallel()

	cfg := Config{BufferSize: tbdHeaderSize - 1, HunkGranule: 8}

	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected an error for a buffer smaller than the header")
	}
}

func Test_ValidateConfig_Rejects_Zero_Hunk_Granule(t *testing.T) {
	t.Parallel()

	cfg := Config{BufferSize: 4096, HunkGranule: 0}

	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected an error for a zero hunk granule")
	}
}
