package timeslot

import (
	"os"
	"testing"
)

// Helper to create a temporary YAML file for testing
func createTempProfiles(t *testing.T, content string) string {
	tmpfile, err := os.CreateTemp("", "slots_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}
	return tmpfile.Name()
}

func resetProfiles() {
	profilesMu.Lock()
	currentProfiles = nil
	profilesMu.Unlock()
}

func TestLoadProfiles_Errors(t *testing.T) {
	defer resetProfiles()

	// Case 1: File does not exist
	if err := LoadProfiles("non_existent_slots.yaml"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}

	// Case 2: Invalid YAML syntax
	badPath := createTempProfiles(t, "slots: [not: a: map")
	defer os.Remove(badPath)

	if err := LoadProfiles(badPath); err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestProfileForBuiltins(t *testing.T) {
	resetProfiles()

	got := ProfileFor(FridayPeak)
	if got.Label != "Friday Peak" {
		t.Errorf("Label mismatch! Got %q, want %q", got.Label, "Friday Peak")
	}
	if !got.Sound.Valid() || got.Sound.Min != 72 {
		t.Errorf("Expected built-in sound band starting at 72, got %+v", got.Sound)
	}
	if len(got.Genres) == 0 {
		t.Error("Built-in profile should carry default genres")
	}
}

func TestProfileForYAMLOverride(t *testing.T) {
	defer resetProfiles()

	yamlContent := `
slots:
  friday_peak:
    sound:
      min: 70
      max: 90
    genres: ["latin", "reggaeton"]
`
	path := createTempProfiles(t, yamlContent)
	defer os.Remove(path)

	if err := LoadProfiles(path); err != nil {
		t.Fatalf("Failed to load valid test config: %v", err)
	}

	got := ProfileFor(FridayPeak)

	// Overridden fields take the YAML values
	if got.Sound.Min != 70 || got.Sound.Max != 90 {
		t.Errorf("Sound override not applied: %+v", got.Sound)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "latin" {
		t.Errorf("Genre override not applied: %v", got.Genres)
	}

	// Untouched fields keep the built-in values
	if got.Light.Min != 30 || got.Light.Max != 150 {
		t.Errorf("Light band should stay built-in, got %+v", got.Light)
	}
	if got.Label != "Friday Peak" {
		t.Errorf("Label should stay built-in, got %q", got.Label)
	}

	// Slots absent from the YAML stay fully built-in
	daytime := ProfileFor(Daytime)
	if daytime.Sound.Min != 55 {
		t.Errorf("Daytime should be untouched by override file, got %+v", daytime.Sound)
	}
}

func TestProfileForUnknownKey(t *testing.T) {
	resetProfiles()

	got := ProfileFor("happy_solstice")
	if !got.Sound.Valid() {
		t.Error("Unknown slot should still return a usable profile")
	}
	if got.Label != "happy_solstice" {
		t.Errorf("Unknown slot label should echo the key, got %q", got.Label)
	}
}
