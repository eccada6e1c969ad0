package config

import (
	"os"
	"path/filepath"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return &Manager{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		config:     &Config{},
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := testManager(t)
	if err := m.Load(); err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if len(m.Get().Profiles) != 0 {
		t.Errorf("profiles = %v, want none", m.Get().Profiles)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := testManager(t)
	m.config.Profiles = []Profile{
		{Name: "Desk PC", Args: []string{"Dell=DP1", "LG=Hdmi2"}},
		{Name: "Laptop", Args: []string{"Dell=UsbC1"}},
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := &Manager{configPath: m.configPath, config: &Config{}}
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	profiles := loaded.Get().Profiles
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	if profiles[0].Name != "Desk PC" {
		t.Errorf("first profile name = %q", profiles[0].Name)
	}
	if len(profiles[0].Args) != 2 || profiles[0].Args[0] != "Dell=DP1" {
		t.Errorf("first profile args = %v", profiles[0].Args)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	m := testManager(t)
	if err := os.WriteFile(m.configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.Load(); err == nil {
		t.Fatal("Load should fail on malformed JSON")
	}
}

func TestGetProfile(t *testing.T) {
	m := testManager(t)
	m.config.Profiles = []Profile{{Name: "Desk PC"}}

	if p := m.GetProfile("Desk PC"); p == nil {
		t.Error("GetProfile(\"Desk PC\") = nil")
	}
	if p := m.GetProfile("Other"); p != nil {
		t.Errorf("GetProfile(\"Other\") = %v, want nil", p)
	}
}
