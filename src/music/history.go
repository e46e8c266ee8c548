package music

import "context"

// EntityKind selects which entity a per-entity stats query runs against.
type EntityKind string

const (
	KindArtist EntityKind = "artist"
	KindAlbum  EntityKind = "album"
)

// Bucket is a calendar grouping for playcount aggregation.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketMonth Bucket = "month"
	BucketYear  Bucket = "year"
)

// BucketCount is one calendar bucket with its playcount. Label carries
// the formatted date ("2023-04-12", "2023-04" or "2023" depending on
// the bucket).
type BucketCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ChartArtist is one row of a top-artists chart.
type ChartArtist struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	Playcount int64  `json:"playcount"`
}

// ChartTrack is one row of a top-tracks chart.
type ChartTrack struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	ArtistID  int64  `json:"artist_id"`
	Playcount int64  `json:"playcount"`
}

// ChartAlbum is one row of a top-albums chart.
type ChartAlbum struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	ArtistID  int64  `json:"artist_id"`
	ImageURL  string `json:"image_url,omitempty"`
	Playcount int64  `json:"playcount"`
}

// LibraryCounts holds the distinct entity totals of the whole library.
type LibraryCounts struct {
	Artists int64 `json:"artists"`
	Albums  int64 `json:"albums"`
	Tracks  int64 `json:"tracks"`
	Plays   int64 `json:"plays"`
}

// DayCount is one day of the daily-plays series.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// PlaySummary holds the first/last play timestamps and the total
// playcount of one entity. First and Last are nil when the entity has
// no plays at all.
type PlaySummary struct {
	First *int64
	Last  *int64
	Total int64
}

// EntityPlaycount is an entity with its total playcount, used for rank
// computation across all peers of a kind.
type EntityPlaycount struct {
	ID        int64
	Name      string
	Playcount int64
}

// SearchResult is one name match returned by a substring search.
type SearchResult struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// History is the persistent play-history store. Implementations resolve
// textual play events into the artist/album/track entity graph and
// answer the analytics queries the features are built on.
type History interface {
	// AddPlays ingests a batch of already-validated events inside a
	// single transaction. Duplicate (track, timestamp) pairs are
	// skipped, not errors.
	AddPlays(ctx context.Context, events []PlayEvent) (inserted int, skipped int, err error)

	FindOrCreateArtist(ctx context.Context, name string) (*Artist, error)
	FindOrCreateAlbum(ctx context.Context, name string, artistID int64) (*Album, error)
	FindOrCreateTrack(ctx context.Context, name string, artistID int64, albumID *int64) (*Track, error)

	GetArtist(ctx context.Context, id int64) (*Artist, error)
	GetAlbum(ctx context.Context, id int64) (*Album, error)
	UpdateArtist(ctx context.Context, artist *Artist) error

	// LastPlayTimestamp returns the timestamp of the most recent play,
	// or 0 when the history is empty.
	LastPlayTimestamp(ctx context.Context) (int64, error)

	TopArtists(ctx context.Context, limit int, cutoff int64) ([]ChartArtist, error)
	TopTracks(ctx context.Context, limit int, cutoff int64, artistID, albumID *int64) ([]ChartTrack, error)
	TopAlbums(ctx context.Context, limit int, cutoff int64, artistID *int64) ([]ChartAlbum, error)

	RecentPlays(ctx context.Context, limit int) ([]PlayDetail, error)
	EntityRecentPlays(ctx context.Context, kind EntityKind, id int64, limit int) ([]PlayDetail, error)

	UniqueCounts(ctx context.Context) (*LibraryCounts, error)
	DailyPlays(ctx context.Context, days int) ([]DayCount, error)
	ArtistDailyPlays(ctx context.Context, artistID int64, days int) ([]DayCount, error)

	PlaySummary(ctx context.Context, kind EntityKind, id int64) (*PlaySummary, error)
	TotalPlays(ctx context.Context) (int64, error)
	TopBucket(ctx context.Context, kind EntityKind, id int64, bucket Bucket) (*BucketCount, error)
	// PlayDates returns the distinct play days ("YYYY-MM-DD") of an
	// entity in ascending order.
	PlayDates(ctx context.Context, kind EntityKind, id int64) ([]string, error)
	PlaycountsByKind(ctx context.Context, kind EntityKind) ([]EntityPlaycount, error)
	// NthPlay returns the n-th play (1-based, oldest first) of an
	// entity, or ErrNotFound when fewer than n plays exist.
	NthPlay(ctx context.Context, kind EntityKind, id int64, n int64) (*PlayDetail, error)

	SearchArtists(ctx context.Context, query string, limit int) ([]SearchResult, error)
	SearchTracks(ctx context.Context, query string, limit int, artistID *int64) ([]SearchResult, error)
	SearchAlbums(ctx context.Context, query string, limit int, artistID *int64) ([]SearchResult, error)
}
