package genre

import (
	"sort"
	"strings"

	"venue-pulse/internal/utils"
)

// Music factor scores. The factor never drops below 70: music taste is
// a nudge, not a verdict.
const (
	ScoreBestNightMatch = 100
	ScoreSlotMatch      = 90
	ScoreNeutral        = 80
	ScoreMismatch       = 70
)

// Match reasons, surfaced in score breakdowns.
const (
	ReasonNoTrack        = "no_track"
	ReasonNoGenreMatch   = "no_genre_detected"
	ReasonBestNightMatch = "best_night_match"
	ReasonSlotMatch      = "slot_match"
	ReasonMismatch       = "mismatch"
)

// Match is the outcome of scoring one playing track.
type Match struct {
	Score    float64  `json:"score"`
	Detected []string `json:"detected,omitempty"`
	Reason   string   `json:"reason"`
}

// Matcher defines the common interface for any genre detection mode.
type Matcher interface {
	Name() string
	Detect(song, artist string) []string
	Score(song, artist string, slotGenres, bestNightGenres []string) Match
}

// NewMatcher is a factory that returns the requested algorithm.
func NewMatcher(mode, vocabPath string) Matcher {
	switch strings.ToLower(mode) {
	default:
		return &KeywordMatcher{vocab: loadVocabulary(vocabPath)}
	}
}

// KeywordMatcher detects genres by scanning the song and artist text
// for known keywords.
type KeywordMatcher struct {
	vocab map[string][]string
}

func (m *KeywordMatcher) Name() string { return "keyword" }

// Detect returns every vocabulary genre whose keywords appear in the
// track text, sorted for stable output.
func (m *KeywordMatcher) Detect(song, artist string) []string {
	text := utils.NormalizeToken(song + " " + artist)
	if text == "" {
		return nil
	}

	var found []string
	for g, keywords := range m.vocab {
		for _, kw := range keywords {
			if strings.Contains(text, utils.NormalizeToken(kw)) {
				found = append(found, utils.NormalizeToken(g))
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// Score applies the match policy:
//
//  1. Nothing playing, or nothing detected: neutral. Silence is not a
//     mistake.
//  2. A best-night genre is playing: top marks, this venue has proven
//     the combination works.
//  3. With a best-night profile present, anything else is a mismatch.
//  4. Without one, matching the slot's usual genres is nearly as good.
func (m *KeywordMatcher) Score(song, artist string, slotGenres, bestNightGenres []string) Match {
	if song == "" && artist == "" {
		return Match{Score: ScoreNeutral, Reason: ReasonNoTrack}
	}

	detected := m.Detect(song, artist)
	if len(detected) == 0 {
		return Match{Score: ScoreNeutral, Reason: ReasonNoGenreMatch}
	}

	if len(bestNightGenres) > 0 {
		if intersects(detected, bestNightGenres) {
			return Match{Score: ScoreBestNightMatch, Detected: detected, Reason: ReasonBestNightMatch}
		}
		return Match{Score: ScoreMismatch, Detected: detected, Reason: ReasonMismatch}
	}

	if intersects(detected, slotGenres) {
		return Match{Score: ScoreSlotMatch, Detected: detected, Reason: ReasonSlotMatch}
	}
	return Match{Score: ScoreMismatch, Detected: detected, Reason: ReasonMismatch}
}

func intersects(detected, wanted []string) bool {
	for _, w := range wanted {
		nw := utils.NormalizeToken(w)
		for _, d := range detected {
			if d == nw {
				return true
			}
		}
	}
	return false
}
