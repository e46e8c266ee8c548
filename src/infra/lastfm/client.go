package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/contre95/resonate/src/music"
)

const defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// Page size last.fm allows for user.getrecenttracks.
const pageLimit = 200

// Client talks to the last.fm API for one user's scrobble history.
type Client struct {
	apiKey  string
	user    string
	baseURL string
	http    *http.Client
}

// NewClient creates a new last.fm client.
func NewClient(apiKey, user string) *Client {
	return &Client{
		apiKey:  apiKey,
		user:    user,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint.
func NewClientWithBaseURL(apiKey, user, baseURL string) *Client {
	client := NewClient(apiKey, user)
	client.baseURL = baseURL
	return client
}

type recentTracksResponse struct {
	RecentTracks struct {
		Track []recentTrack `json:"track"`
		Attr  struct {
			Page       string `json:"page"`
			TotalPages string `json:"totalPages"`
		} `json:"@attr"`
	} `json:"recenttracks"`
}

type recentTrack struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
		Text string `json:"#text"`
	} `json:"artist"`
	Album struct {
		Text string `json:"#text"`
	} `json:"album"`
	Date *struct {
		UTS string `json:"uts"`
	} `json:"date"`
	Attr *struct {
		NowPlaying string `json:"nowplaying"`
	} `json:"@attr"`
}

// RecentTracks fetches every scrobble newer than the given unix
// timestamp, walking all result pages. The currently-playing track
// carries no timestamp and is skipped.
func (c *Client) RecentTracks(ctx context.Context, from int64) ([]music.PlayEvent, error) {
	events := []music.PlayEvent{}

	page := 1
	for {
		resp, err := c.fetchPage(ctx, from, page)
		if err != nil {
			return nil, err
		}

		for _, track := range resp.RecentTracks.Track {
			if track.Attr != nil && track.Attr.NowPlaying == "true" {
				continue
			}
			if track.Date == nil {
				continue
			}
			ts, err := strconv.ParseInt(track.Date.UTS, 10, 64)
			if err != nil {
				slog.Warn("lastfm: skipping track with bad timestamp", "track", track.Name, "uts", track.Date.UTS)
				continue
			}

			artist := track.Artist.Name
			if artist == "" {
				artist = track.Artist.Text
			}
			events = append(events, music.PlayEvent{
				Track:     track.Name,
				Artist:    artist,
				Album:     track.Album.Text,
				Timestamp: ts,
			})
		}

		totalPages, err := strconv.Atoi(resp.RecentTracks.Attr.TotalPages)
		if err != nil || page >= totalPages {
			break
		}
		page++
	}

	slog.Debug("lastfm: fetched recent tracks", "user", c.user, "from", from, "events", len(events))
	return events, nil
}

func (c *Client) fetchPage(ctx context.Context, from int64, page int) (*recentTracksResponse, error) {
	params := url.Values{}
	params.Set("method", "user.getrecenttracks")
	params.Set("user", c.user)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("page", strconv.Itoa(page))
	if from > 0 {
		params.Set("from", strconv.FormatInt(from, 10))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Resonate/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("last.fm API request failed with status %d", resp.StatusCode)
	}

	var parsed recentTracksResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &parsed, nil
}
