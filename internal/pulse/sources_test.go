package pulse

import (
	"testing"

	"venue-pulse/internal/models"
	"venue-pulse/internal/timeslot"
)

func floatPtr(v float64) *float64 { return &v }

func testProfile() timeslot.SlotProfile {
	return timeslot.SlotProfile{
		Label: "Test Slot",
		Sound: timeslot.Band{Min: 65, Max: 80},
		Light: timeslot.Band{Min: 50, Max: 200},
	}
}

func chain(bn *models.BestNightProfile, learned *models.VenueOptimalRanges, learningConf float64, settings *models.VenueSettings) ResolvedRanges {
	return ResolveRanges(DefaultWeights(),
		&BestNightSource{Profile: bn, MinConfidence: 0.30},
		&LearnedSource{Ranges: learned, LearningConfidence: learningConf, MinConfidence: 0.30},
		&CalibratedSource{Settings: settings},
		&DefaultSource{Profile: testProfile()},
	)
}

func TestChainBestNightWins(t *testing.T) {
	bn := &models.BestNightProfile{
		AvgDecibels: 75,
		AvgLux:      120,
		Confidence:  0.6,
	}
	learned := &models.VenueOptimalRanges{
		Sound: models.OptimalRange{Min: 68, Max: 79},
	}

	got := chain(bn, learned, 0.9, nil)

	if got.Source != SourceBestNight {
		t.Errorf("Source = %q, want %q", got.Source, SourceBestNight)
	}
	if got.Sound.Min != 70 || got.Sound.Max != 80 {
		t.Errorf("Best night sound band = %+v, want 70-80", got.Sound)
	}
	if got.Light.Min != 70 || got.Light.Max != 170 {
		t.Errorf("Best night light band = %+v, want 70-170", got.Light)
	}
	// Best night keeps the baseline blend
	if got.Weights != DefaultWeights() {
		t.Errorf("Best night should keep baseline weights, got %+v", got.Weights)
	}
}

// Demote each source in turn and check the next one activates.
func TestChainDemotion(t *testing.T) {
	bn := &models.BestNightProfile{AvgDecibels: 75, AvgLux: 120, Confidence: 0.6}
	learned := &models.VenueOptimalRanges{
		Sound: models.OptimalRange{Min: 68, Max: 79},
		Light: models.OptimalRange{Min: 60, Max: 180},
	}
	settings := &models.VenueSettings{SoundMin: floatPtr(66), SoundMax: floatPtr(78)}

	// Full house: best night wins
	if got := chain(bn, learned, 0.9, settings); got.Source != SourceBestNight {
		t.Errorf("Source = %q, want %q", got.Source, SourceBestNight)
	}

	// Best night loses confidence: learned takes over
	bn.Confidence = 0.1
	got := chain(bn, learned, 0.9, settings)
	if got.Source != SourceLearned {
		t.Errorf("Source = %q, want %q", got.Source, SourceLearned)
	}
	if got.Sound.Min != 68 {
		t.Errorf("Expected learned sound band, got %+v", got.Sound)
	}

	// Learning confidence collapses: calibration takes over
	got = chain(bn, learned, 0.1, settings)
	if got.Source != SourceCalibrated {
		t.Errorf("Source = %q, want %q", got.Source, SourceCalibrated)
	}
	if got.Sound.Min != 66 || got.Sound.Max != 78 {
		t.Errorf("Calibrated sound band = %+v, want 66-78", got.Sound)
	}

	// No calibration either: slot defaults are terminal
	got = chain(bn, learned, 0.1, nil)
	if got.Source != SourceDefault {
		t.Errorf("Source = %q, want %q", got.Source, SourceDefault)
	}
	if got.Sound != testProfile().Sound {
		t.Errorf("Expected default sound band, got %+v", got.Sound)
	}
}

func TestChainLearnedBringsWeights(t *testing.T) {
	learned := &models.VenueOptimalRanges{
		Sound:       models.OptimalRange{Min: 68, Max: 79},
		Light:       models.OptimalRange{Min: 60, Max: 180},
		WeightSound: 0.50,
		WeightLight: 0.30,
		WeightCrowd: 0.10,
		WeightMusic: 0.10,
	}

	got := chain(nil, learned, 0.8, nil)

	if got.Source != SourceLearned {
		t.Fatalf("Source = %q, want %q", got.Source, SourceLearned)
	}
	if got.Weights.Sound != 0.50 || got.Weights.Light != 0.30 {
		t.Errorf("Learned weights not applied: %+v", got.Weights)
	}

	// A learned row without weights keeps the baseline
	learned.WeightSound, learned.WeightLight = 0, 0
	learned.WeightCrowd, learned.WeightMusic = 0, 0
	got = chain(nil, learned, 0.8, nil)
	if got.Weights != DefaultWeights() {
		t.Errorf("Weightless learned row should keep baseline, got %+v", got.Weights)
	}
}

// A winner that covers only one factor gets the other backfilled from
// the slot defaults.
func TestChainBackfillsMissingFactor(t *testing.T) {
	settings := &models.VenueSettings{
		SoundMin: floatPtr(66),
		SoundMax: floatPtr(78),
		// Light not calibrated
	}

	got := chain(nil, nil, 0, settings)

	if got.Source != SourceCalibrated {
		t.Errorf("Source = %q, want %q", got.Source, SourceCalibrated)
	}
	if got.SoundSource != SourceCalibrated {
		t.Errorf("Sound source = %q, want %q", got.SoundSource, SourceCalibrated)
	}
	if got.LightSource != SourceDefault {
		t.Errorf("Light source = %q, want %q", got.LightSource, SourceDefault)
	}
	if got.Light != testProfile().Light {
		t.Errorf("Light band should backfill from defaults, got %+v", got.Light)
	}
}

// An inverted calibration pair must not make the source available.
func TestChainIgnoresBrokenCalibration(t *testing.T) {
	settings := &models.VenueSettings{
		SoundMin: floatPtr(80),
		SoundMax: floatPtr(60),
	}

	got := chain(nil, nil, 0, settings)
	if got.Source != SourceDefault {
		t.Errorf("Broken calibration should be skipped, source = %q", got.Source)
	}
}

// A best night that only recorded sound still wins, with light coming
// from the defaults.
func TestChainBestNightPartial(t *testing.T) {
	bn := &models.BestNightProfile{AvgDecibels: 75, Confidence: 0.6}

	got := chain(bn, nil, 0, nil)

	if got.Source != SourceBestNight {
		t.Errorf("Source = %q, want %q", got.Source, SourceBestNight)
	}
	if got.SoundSource != SourceBestNight {
		t.Errorf("Sound source = %q, want %q", got.SoundSource, SourceBestNight)
	}
	if got.LightSource != SourceDefault {
		t.Errorf("Light source = %q, want %q", got.LightSource, SourceDefault)
	}
}
