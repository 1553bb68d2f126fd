package genre

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// VocabularyConfig matches the genres YAML file: one entry per genre,
// listing the keywords that reveal it in a song or artist name.
type VocabularyConfig struct {
	Genres map[string][]string `yaml:"genres"`
}

// Built-in vocabulary, used when no YAML file is configured.
var builtinVocabulary = map[string][]string{
	"house":      {"house", "deep house", "tech house"},
	"techno":     {"techno", "rave", "acid"},
	"hiphop":     {"hip hop", "hiphop", "rap", "trap"},
	"rock":       {"rock", "punk", "metal", "grunge"},
	"pop":        {"pop"},
	"latin":      {"latin", "reggaeton", "salsa", "bachata", "cumbia"},
	"rnb":        {"rnb", "r&b"},
	"funk":       {"funk", "groove"},
	"disco":      {"disco"},
	"jazz":       {"jazz", "swing", "bossa"},
	"reggae":     {"reggae", "dub", "ska"},
	"country":    {"country", "bluegrass"},
	"electronic": {"electronic", "edm", "electro", "synth"},
	"chill":      {"chill", "lofi", "lo fi", "ambient"},
	"acoustic":   {"acoustic", "unplugged"},
	"indie":      {"indie"},
	"soul":       {"soul", "motown"},
	"dance":      {"dance"},
}

// loadVocabulary reads a YAML vocabulary, falling back to the built-in
// table when the path is empty or unreadable.
func loadVocabulary(path string) map[string][]string {
	if path == "" {
		return builtinVocabulary
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Genre vocabulary %s unreadable (%v), using built-in", path, err)
		return builtinVocabulary
	}

	var cfg VocabularyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("⚠️ Genre vocabulary %s invalid (%v), using built-in", path, err)
		return builtinVocabulary
	}
	if len(cfg.Genres) == 0 {
		log.Printf("⚠️ Genre vocabulary %s is empty, using built-in", path)
		return builtinVocabulary
	}

	log.Printf("🎵 Genre vocabulary loaded: %d genres from %s", len(cfg.Genres), path)
	return cfg.Genres
}
