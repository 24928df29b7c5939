package config

import (
	"sync"
	"testing"
)

func resetGlobal() {
	SetConfig(nil)
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, `
rules:
  - properties: color
telemetry:
  logging:
    level: debug
`)

	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestInitialize_MultipleCallsIgnored(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	first := writeConfig(t, "lint:\n  format: json\n")
	second := writeConfig(t, "lint:\n  format: text\n")

	if err := Initialize(first); err != nil {
		t.Fatal(err)
	}
	if err := Initialize(second); err != nil {
		t.Fatal(err)
	}

	if got := GetConfig().Lint.Format; got != "json" {
		t.Errorf("second Initialize should be ignored, got format %q", got)
	}
}

func TestInitialize_Error(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, "lint:\n  format: xml\n")
	if err := Initialize(path); err == nil {
		t.Fatal("expected error for invalid config")
	}
	if GetConfig() != nil {
		t.Error("config should stay nil after failed initialization")
	}
}

func TestReloadConfig(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	SetConfig(NewDefaultConfig())

	bad := writeConfig(t, "lint:\n  format: xml\n")
	if _, err := ReloadConfig(bad); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig().Lint.Format != DefaultLintFormat {
		t.Error("failed reload replaced the configuration")
	}

	good := writeConfig(t, "lint:\n  format: json\n")
	cfg, err := ReloadConfig(good)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if cfg != GetConfig() || cfg.Lint.Format != "json" {
		t.Error("reload did not swap the configuration")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGetConfig()
}
