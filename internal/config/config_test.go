package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pesertagen/internal/models"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
defaults:
  id_pendidikan: 46
  id_jabatan: 20000
  id_jenis_jabatan: 2
mapping:
  aliases:
    nama: ["NAMA LENGKAP"]
input:
  sheet: "Peserta"
  reference_sheet: "Instansi"
output:
  base_path: "./hasil"
  run_dirs: false
preview:
  rows: 5
  max_cell_width: 20
cache:
  size: 64
logging:
  level: "debug"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := models.Defaults{IDPendidikan: 46, IDJabatan: 20000, IDJenisJabatan: 2}
	if cfg.Defaults != want {
		t.Errorf("Defaults = %+v, want %+v", cfg.Defaults, want)
	}

	if cfg.Input.Sheet != "Peserta" || cfg.Input.ReferenceSheet != "Instansi" {
		t.Errorf("Input = %+v", cfg.Input)
	}

	if cfg.Output.BasePath != "./hasil" || cfg.Output.RunDirs {
		t.Errorf("Output = %+v", cfg.Output)
	}

	if cfg.Preview.Rows != 5 || cfg.Preview.MaxCellWidth != 20 {
		t.Errorf("Preview = %+v", cfg.Preview)
	}

	if cfg.Cache.Size != 64 {
		t.Errorf("Cache.Size = %d, want 64", cfg.Cache.Size)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	configPath := createTempConfigFile(t, "logging:\n  level: warn\n")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Defaults != models.DefaultValues() {
		t.Errorf("Defaults = %+v, want built-in values", cfg.Defaults)
	}

	if cfg.Output.BasePath != "./output" || !cfg.Output.RunDirs {
		t.Errorf("Output = %+v, want defaults", cfg.Output)
	}

	if cfg.Preview.Rows != 10 {
		t.Errorf("Preview.Rows = %d, want 10", cfg.Preview.Rows)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "negative default",
			content: "defaults:\n  id_jabatan: -1\n",
			wantErr: "defaults must be non-negative",
		},
		{
			name:    "unknown alias field",
			content: "mapping:\n  aliases:\n    alamat: [\"ALAMAT\"]\n",
			wantErr: "unknown field",
		},
		{
			name:    "blank alias",
			content: "mapping:\n  aliases:\n    nama: [\" \"]\n",
			wantErr: "must not be blank",
		},
		{
			name:    "empty output",
			content: "output:\n  base_path: \"\"\n",
			wantErr: "output.base_path is required",
		},
		{
			name:    "negative preview",
			content: "preview:\n  rows: -1\n",
			wantErr: "preview.rows",
		},
		{
			name:    "negative cache",
			content: "cache:\n  size: -5\n",
			wantErr: "cache.size",
		},
		{
			name:    "invalid log level",
			content: "logging:\n  level: verbose\n",
			wantErr: "logging.level",
		},
		{
			name:    "invalid yaml",
			content: "defaults: [unclosed",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := createTempConfigFile(t, tt.content)

			_, err := LoadConfig(configPath)
			if err == nil {
				t.Fatal("LoadConfig() expected error, got nil")
			}

			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing file")
	}

	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %v", err)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.IDJabatan = 777
	cfg.Mapping.Aliases = map[string][]string{"NAMA": {"NAMA LENGKAP"}}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if loaded.Defaults.IDJabatan != 777 {
		t.Errorf("IDJabatan = %d, want 777", loaded.Defaults.IDJabatan)
	}

	if got := loaded.Mapping.Aliases["NAMA"]; len(got) != 1 || got[0] != "NAMA LENGKAP" {
		t.Errorf("Aliases[NAMA] = %v", got)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:       " DEBUG ",
		EnvOutputDir:      "/tmp/peserta",
		EnvIDPendidikan:   "50",
		EnvIDJabatan:      "",
		EnvIDJenisJabatan: "7",
		EnvCacheSize:      "0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	if cfg.Output.BasePath != "/tmp/peserta" {
		t.Errorf("BasePath = %q", cfg.Output.BasePath)
	}

	want := models.Defaults{IDPendidikan: 50, IDJabatan: 10932, IDJenisJabatan: 7}
	if cfg.Defaults != want {
		t.Errorf("Defaults = %+v, want %+v", cfg.Defaults, want)
	}

	if cfg.Cache.Size != 0 {
		t.Errorf("Cache.Size = %d, want 0", cfg.Cache.Size)
	}
}

func TestApplyEnv_InvalidInteger(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == EnvIDJabatan {
			return "sepuluh", true
		}

		return "", false
	})
	if !errors.Is(err, ErrInvalidEnvValue) {
		t.Errorf("ApplyEnv() error = %v, want ErrInvalidEnvValue", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)
	t.Setenv(EnvIDPendidikan, "99")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Defaults.IDPendidikan != 99 {
		t.Errorf("IDPendidikan = %d, want 99", cfg.Defaults.IDPendidikan)
	}

	if cfg.Defaults.IDJabatan != 20000 {
		t.Errorf("IDJabatan = %d, want 20000", cfg.Defaults.IDJabatan)
	}
}

func TestLoad_EnvValidated(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for invalid env log level")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	if err := os.WriteFile(envPath, []byte(EnvIDJenisJabatan+"=3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Registers cleanup so the variable does not leak into other tests.
	t.Setenv(EnvIDJenisJabatan, "")
	os.Unsetenv(EnvIDJenisJabatan)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv(EnvIDJenisJabatan); got != "3" {
		t.Errorf("%s = %q, want 3", EnvIDJenisJabatan, got)
	}
}

func TestGetAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mapping.Aliases = map[string][]string{"nama": {"NAMA LENGKAP"}}

	aliases := cfg.GetAliases()

	if got := aliases[models.FieldNama]; len(got) != 1 || got[0] != "NAMA LENGKAP" {
		t.Errorf("aliases[NAMA] = %v", got)
	}

	if len(aliases[models.FieldJenisTes]) == 0 {
		t.Error("stock JENIS_TES aliases were dropped")
	}
}

func TestConfig_String(t *testing.T) {
	got := DefaultConfig().String()
	if !strings.Contains(got, "45/10932/4") || !strings.Contains(got, "./output") {
		t.Errorf("String() = %s", got)
	}
}
