package timeslot

import (
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Band is a closed interval. A zero Band means "not specified".
type Band struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (b Band) Valid() bool { return b.Max > b.Min }

// SlotProfile is the environmental playbook for a time slot: where each
// factor should sit and what kind of music usually works.
type SlotProfile struct {
	Label     string   `yaml:"label" json:"label"`
	Sound     Band     `yaml:"sound" json:"sound"`
	Light     Band     `yaml:"light" json:"light"`
	Occupancy Band     `yaml:"occupancy" json:"occupancy"`
	Temp      Band     `yaml:"temp" json:"temp"`
	Humidity  Band     `yaml:"humidity" json:"humidity"`
	Genres    []string `yaml:"genres" json:"genres"`
}

// ProfilesConfig matches the slots YAML file.
type ProfilesConfig struct {
	Slots map[string]SlotProfile `yaml:"slots"`
}

var (
	currentProfiles *ProfilesConfig
	profilesMu      sync.RWMutex
)

// Built-in profiles keep the engine working when no YAML is deployed.
// A YAML slot entry overrides these field by field.
var builtinProfiles = map[string]SlotProfile{
	Daytime: {
		Label:     "Daytime",
		Sound:     Band{55, 70},
		Light:     Band{150, 400},
		Occupancy: Band{15, 50},
		Temp:      Band{20, 24},
		Humidity:  Band{40, 60},
		Genres:    []string{"chill", "acoustic", "jazz", "pop"},
	},
	WeekdayHappyHour: {
		Label:     "Happy Hour",
		Sound:     Band{62, 75},
		Light:     Band{100, 300},
		Occupancy: Band{25, 60},
		Temp:      Band{20, 24},
		Humidity:  Band{40, 60},
		Genres:    []string{"pop", "indie", "house", "funk"},
	},
	WeekdayNight: {
		Label:     "Weekday Night",
		Sound:     Band{68, 80},
		Light:     Band{60, 200},
		Occupancy: Band{30, 70},
		Temp:      Band{20, 24},
		Humidity:  Band{40, 60},
		Genres:    []string{"house", "hiphop", "rock", "pop"},
	},
	FridayEarly: {
		Label:     "Friday Early",
		Sound:     Band{65, 78},
		Light:     Band{80, 250},
		Occupancy: Band{35, 70},
		Temp:      Band{20, 24},
		Humidity:  Band{40, 60},
		Genres:    []string{"pop", "house", "funk", "disco"},
	},
	FridayPeak: {
		Label:     "Friday Peak",
		Sound:     Band{72, 85},
		Light:     Band{30, 150},
		Occupancy: Band{55, 90},
		Temp:      Band{21, 25},
		Humidity:  Band{45, 65},
		Genres:    []string{"house", "techno", "hiphop", "dance"},
	},
	SaturdayEarly: {
		Label:     "Saturday Early",
		Sound:     Band{65, 78},
		Light:     Band{80, 250},
		Occupancy: Band{35, 70},
		Temp:      Band{20, 24},
		Humidity:  Band{40, 60},
		Genres:    []string{"pop", "house", "rnb", "disco"},
	},
	SaturdayPeak: {
		Label:     "Saturday Peak",
		Sound:     Band{74, 88},
		Light:     Band{25, 120},
		Occupancy: Band{60, 95},
		Temp:      Band{21, 25},
		Humidity:  Band{45, 65},
		Genres:    []string{"house", "techno", "dance", "hiphop"},
	},
	SundayFunday: {
		Label:     "Sunday Funday",
		Sound:     Band{60, 75},
		Light:     Band{120, 350},
		Occupancy: Band{25, 65},
		Temp:      Band{20, 24},
		Humidity:  Band{40, 60},
		Genres:    []string{"funk", "soul", "reggae", "pop"},
	},
}

func LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	profilesMu.Lock()
	currentProfiles = &cfg
	profilesMu.Unlock()

	log.Printf("📅 Slot Profiles Loaded: %d overrides", len(cfg.Slots))
	return nil
}

// ProfileFor returns the effective profile for a slot key. YAML
// overrides win field by field; anything the YAML leaves zero keeps the
// built-in value.
func ProfileFor(key string) SlotProfile {
	base, ok := builtinProfiles[key]
	if !ok {
		// Unknown key: a wide, forgiving profile beats a zero one
		base = builtinProfiles[Daytime]
		base.Label = key
	}

	profilesMu.RLock()
	defer profilesMu.RUnlock()

	if currentProfiles == nil {
		return base
	}
	override, ok := currentProfiles.Slots[key]
	if !ok {
		return base
	}
	return mergeProfile(base, override)
}

func mergeProfile(base, override SlotProfile) SlotProfile {
	out := base
	if override.Label != "" {
		out.Label = override.Label
	}
	if override.Sound.Valid() {
		out.Sound = override.Sound
	}
	if override.Light.Valid() {
		out.Light = override.Light
	}
	if override.Occupancy.Valid() {
		out.Occupancy = override.Occupancy
	}
	if override.Temp.Valid() {
		out.Temp = override.Temp
	}
	if override.Humidity.Valid() {
		out.Humidity = override.Humidity
	}
	if len(override.Genres) > 0 {
		out.Genres = override.Genres
	}
	return out
}
