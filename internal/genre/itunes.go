package genre

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"venue-pulse/internal/utils"
)

// LookupITunes asks the iTunes search API for the primary genre of a
// track. Used by the ingester to enrich hourly roll-ups when keyword
// detection comes up empty; scoring itself never blocks on it.
func LookupITunes(song, artist string) (string, error) {
	term := strings.TrimSpace(song + " " + artist)
	if term == "" {
		return "", fmt.Errorf("empty search term")
	}

	u, _ := url.Parse("https://itunes.apple.com/search")
	q := u.Query()
	q.Set("term", term)
	q.Set("media", "music")
	q.Set("entity", "song")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(u.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var result struct {
		ResultCount int `json:"resultCount"`
		Results     []struct {
			PrimaryGenreName string `json:"primaryGenreName"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if result.ResultCount == 0 {
		return "", fmt.Errorf("no results for '%s'", term)
	}

	return utils.NormalizeToken(result.Results[0].PrimaryGenreName), nil
}
