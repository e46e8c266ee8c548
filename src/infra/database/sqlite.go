package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contre95/resonate/src/music"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteHistory is a SQLite implementation of the History interface.
type SqliteHistory struct {
	db *sql.DB
}

// NewSqliteHistory creates a new SqliteHistory.
func NewSqliteHistory(path string) (*SqliteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteHistory{db: db}, nil
}

// Close closes the underlying database handle.
func (d *SqliteHistory) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS artists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			spotify_uri TEXT,
			genres TEXT,
			image_url TEXT,
			last_fetched INTEGER
		);

		CREATE TABLE IF NOT EXISTS albums (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			artist_id INTEGER NOT NULL,
			spotify_uri TEXT,
			release_date TEXT,
			image_url TEXT,
			last_fetched INTEGER,
			UNIQUE(name, artist_id),
			FOREIGN KEY (artist_id) REFERENCES artists(id)
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			artist_id INTEGER NOT NULL,
			album_id INTEGER,
			spotify_uri TEXT,
			duration_ms INTEGER,
			FOREIGN KEY (artist_id) REFERENCES artists(id),
			FOREIGN KEY (album_id) REFERENCES albums(id)
		);

		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			UNIQUE(track_id, timestamp),
			FOREIGN KEY (track_id) REFERENCES tracks(id)
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
		CREATE INDEX IF NOT EXISTS idx_albums_artist ON albums(artist_id);
		CREATE INDEX IF NOT EXISTS idx_plays_track ON plays(track_id);
		CREATE INDEX IF NOT EXISTS idx_plays_timestamp ON plays(timestamp);
	`)
	if err != nil {
		return err
	}

	// A plain UNIQUE(name, artist_id, album_id) never fires for
	// album-less tracks because NULL compares unequal to NULL.
	_, err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_tracks_identity
		ON tracks(name, artist_id, COALESCE(album_id, 0));
	`)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx so the resolver
// helpers run standalone or inside an ingestion transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanArtist(row *sql.Row) (*music.Artist, error) {
	artist := &music.Artist{}
	var spotifyURI, genres, imageURL sql.NullString
	var lastFetched sql.NullInt64
	err := row.Scan(&artist.ID, &artist.Name, &spotifyURI, &genres, &imageURL, &lastFetched)
	if err != nil {
		return nil, err
	}
	artist.SpotifyURI = spotifyURI.String
	artist.Genres = genres.String
	artist.ImageURL = imageURL.String
	if lastFetched.Valid {
		t := time.Unix(lastFetched.Int64, 0).UTC()
		artist.LastFetched = &t
	}
	return artist, nil
}

func findOrCreateArtist(ctx context.Context, q querier, name string) (*music.Artist, error) {
	query := `SELECT id, name, spotify_uri, genres, image_url, last_fetched FROM artists WHERE name = ?`
	artist, err := scanArtist(q.QueryRowContext(ctx, query, name))
	if err == nil {
		return artist, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// INSERT OR IGNORE handles the race with a concurrent ingester;
	// whoever lost the race reads the winner's row back.
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO artists (name) VALUES (?)`, name); err != nil {
		return nil, err
	}
	return scanArtist(q.QueryRowContext(ctx, query, name))
}

func findOrCreateAlbum(ctx context.Context, q querier, name string, artistID int64) (*music.Album, error) {
	query := `SELECT id, name, artist_id FROM albums WHERE name = ? AND artist_id = ?`
	scan := func() (*music.Album, error) {
		album := &music.Album{}
		err := q.QueryRowContext(ctx, query, name, artistID).Scan(&album.ID, &album.Name, &album.ArtistID)
		if err != nil {
			return nil, err
		}
		return album, nil
	}

	album, err := scan()
	if err == nil {
		return album, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO albums (name, artist_id) VALUES (?, ?)`, name, artistID); err != nil {
		return nil, err
	}
	return scan()
}

func findOrCreateTrack(ctx context.Context, q querier, name string, artistID int64, albumID *int64) (*music.Track, error) {
	query := `
		SELECT id, name, artist_id, album_id FROM tracks
		WHERE name = ? AND artist_id = ? AND COALESCE(album_id, 0) = COALESCE(?, 0)
	`
	scan := func() (*music.Track, error) {
		track := &music.Track{}
		var album sql.NullInt64
		err := q.QueryRowContext(ctx, query, name, artistID, albumID).Scan(&track.ID, &track.Name, &track.ArtistID, &album)
		if err != nil {
			return nil, err
		}
		if album.Valid {
			track.AlbumID = &album.Int64
		}
		return track, nil
	}

	track, err := scan()
	if err == nil {
		return track, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO tracks (name, artist_id, album_id) VALUES (?, ?, ?)`, name, artistID, albumID); err != nil {
		return nil, err
	}
	return scan()
}

// FindOrCreateArtist returns the artist with the given name, creating
// it if it does not exist yet.
func (d *SqliteHistory) FindOrCreateArtist(ctx context.Context, name string) (*music.Artist, error) {
	return findOrCreateArtist(ctx, d.db, name)
}

// FindOrCreateAlbum returns the album with the given name under the
// given artist, creating it if it does not exist yet.
func (d *SqliteHistory) FindOrCreateAlbum(ctx context.Context, name string, artistID int64) (*music.Album, error) {
	return findOrCreateAlbum(ctx, d.db, name, artistID)
}

// FindOrCreateTrack returns the track with the given identity triple,
// creating it if it does not exist yet.
func (d *SqliteHistory) FindOrCreateTrack(ctx context.Context, name string, artistID int64, albumID *int64) (*music.Track, error) {
	return findOrCreateTrack(ctx, d.db, name, artistID, albumID)
}

// AddPlays ingests a batch of play events inside a single transaction.
// Events sharing artist or album names resolve to the same rows, and a
// (track, timestamp) pair already present is counted as skipped.
func (d *SqliteHistory) AddPlays(ctx context.Context, events []music.PlayEvent) (int, int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	// Batches from a single listener repeat the same handful of
	// artists and albums, so cache resolutions within the batch.
	artistIDs := map[string]int64{}
	albumIDs := map[string]int64{}
	trackIDs := map[string]int64{}

	inserted, skipped := 0, 0
	for _, event := range events {
		artistID, ok := artistIDs[event.Artist]
		if !ok {
			artist, err := findOrCreateArtist(ctx, tx, event.Artist)
			if err != nil {
				return 0, 0, fmt.Errorf("resolving artist %q: %w", event.Artist, err)
			}
			artistID = artist.ID
			artistIDs[event.Artist] = artistID
		}

		var albumID *int64
		if event.Album != "" {
			albumKey := fmt.Sprintf("%d\x00%s", artistID, event.Album)
			id, ok := albumIDs[albumKey]
			if !ok {
				album, err := findOrCreateAlbum(ctx, tx, event.Album, artistID)
				if err != nil {
					return 0, 0, fmt.Errorf("resolving album %q: %w", event.Album, err)
				}
				id = album.ID
				albumIDs[albumKey] = id
			}
			albumID = &id
		}

		albumPart := int64(0)
		if albumID != nil {
			albumPart = *albumID
		}
		trackKey := fmt.Sprintf("%d\x00%d\x00%s", artistID, albumPart, event.Track)
		trackID, ok := trackIDs[trackKey]
		if !ok {
			track, err := findOrCreateTrack(ctx, tx, event.Track, artistID, albumID)
			if err != nil {
				return 0, 0, fmt.Errorf("resolving track %q: %w", event.Track, err)
			}
			trackID = track.ID
			trackIDs[trackKey] = trackID
		}

		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO plays (track_id, timestamp)
			VALUES (?, ?)
		`, trackID, event.Timestamp)
		if err != nil {
			return 0, 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, 0, err
		}
		if n == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	slog.Debug("AddPlays: batch committed", "events", len(events), "inserted", inserted, "skipped", skipped)
	return inserted, skipped, nil
}

// GetArtist gets an artist from the database.
func (d *SqliteHistory) GetArtist(ctx context.Context, id int64) (*music.Artist, error) {
	artist, err := scanArtist(d.db.QueryRowContext(ctx, `
		SELECT id, name, spotify_uri, genres, image_url, last_fetched
		FROM artists
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, music.ErrNotFound
	}
	return artist, err
}

// GetAlbum gets an album from the database.
func (d *SqliteHistory) GetAlbum(ctx context.Context, id int64) (*music.Album, error) {
	album := &music.Album{}
	var spotifyURI, releaseDate, imageURL sql.NullString
	var lastFetched sql.NullInt64
	err := d.db.QueryRowContext(ctx, `
		SELECT id, name, artist_id, spotify_uri, release_date, image_url, last_fetched
		FROM albums
		WHERE id = ?
	`, id).Scan(&album.ID, &album.Name, &album.ArtistID, &spotifyURI, &releaseDate, &imageURL, &lastFetched)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, music.ErrNotFound
		}
		return nil, err
	}
	album.SpotifyURI = spotifyURI.String
	album.ReleaseDate = releaseDate.String
	album.ImageURL = imageURL.String
	if lastFetched.Valid {
		t := time.Unix(lastFetched.Int64, 0).UTC()
		album.LastFetched = &t
	}
	return album, nil
}

// UpdateArtist updates an artist's enrichment metadata in the database.
func (d *SqliteHistory) UpdateArtist(ctx context.Context, artist *music.Artist) error {
	if err := artist.Validate(); err != nil {
		slog.Error("UpdateArtist: validation failed", "error", err, "artistID", artist.ID)
		return err
	}

	var lastFetched *int64
	if artist.LastFetched != nil {
		unix := artist.LastFetched.Unix()
		lastFetched = &unix
	}
	res, err := d.db.ExecContext(ctx, `
		UPDATE artists
		SET name = ?, spotify_uri = ?, genres = ?, image_url = ?, last_fetched = ?
		WHERE id = ?
	`, artist.Name, artist.SpotifyURI, artist.Genres, artist.ImageURL, lastFetched, artist.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return music.ErrNotFound
	}
	return nil
}

// LastPlayTimestamp returns the timestamp of the most recent play, or
// 0 when the history is empty.
func (d *SqliteHistory) LastPlayTimestamp(ctx context.Context) (int64, error) {
	var ts int64
	err := d.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(timestamp), 0) FROM plays`).Scan(&ts)
	return ts, err
}

// TopArtists returns the most played artists since the cutoff, ordered
// by playcount. Equal playcounts keep the older artist first.
func (d *SqliteHistory) TopArtists(ctx context.Context, limit int, cutoff int64) ([]music.ChartArtist, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT a.id, a.name, COALESCE(a.image_url, ''), COUNT(p.id) AS playcount
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		JOIN artists a ON t.artist_id = a.id
		WHERE p.timestamp >= ?
		GROUP BY a.id
		ORDER BY playcount DESC, a.id ASC
		LIMIT ?
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chart := []music.ChartArtist{}
	for rows.Next() {
		var row music.ChartArtist
		if err := rows.Scan(&row.ID, &row.Name, &row.ImageURL, &row.Playcount); err != nil {
			return nil, err
		}
		chart = append(chart, row)
	}
	return chart, rows.Err()
}

// TopTracks returns the most played tracks since the cutoff,
// optionally scoped to one artist or one album.
func (d *SqliteHistory) TopTracks(ctx context.Context, limit int, cutoff int64, artistID, albumID *int64) ([]music.ChartTrack, error) {
	query := `
		SELECT t.id, t.name, a.name, a.id, COUNT(p.id) AS playcount
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		JOIN artists a ON t.artist_id = a.id
	`
	conditions := []string{"p.timestamp >= ?"}
	args := []interface{}{cutoff}

	if artistID != nil {
		conditions = append(conditions, "t.artist_id = ?")
		args = append(args, *artistID)
	}
	if albumID != nil {
		conditions = append(conditions, "t.album_id = ?")
		args = append(args, *albumID)
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " GROUP BY t.id ORDER BY playcount DESC, t.id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chart := []music.ChartTrack{}
	for rows.Next() {
		var row music.ChartTrack
		if err := rows.Scan(&row.ID, &row.Name, &row.Artist, &row.ArtistID, &row.Playcount); err != nil {
			return nil, err
		}
		chart = append(chart, row)
	}
	return chart, rows.Err()
}

// TopAlbums returns the most played albums since the cutoff,
// optionally scoped to one artist. Plays on album-less tracks never
// appear here.
func (d *SqliteHistory) TopAlbums(ctx context.Context, limit int, cutoff int64, artistID *int64) ([]music.ChartAlbum, error) {
	query := `
		SELECT al.id, al.name, a.name, a.id, COALESCE(al.image_url, ''), COUNT(p.id) AS playcount
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		JOIN albums al ON t.album_id = al.id
		JOIN artists a ON al.artist_id = a.id
		WHERE p.timestamp >= ?
	`
	args := []interface{}{cutoff}
	if artistID != nil {
		query += " AND al.artist_id = ?"
		args = append(args, *artistID)
	}
	query += " GROUP BY al.id ORDER BY playcount DESC, al.id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chart := []music.ChartAlbum{}
	for rows.Next() {
		var row music.ChartAlbum
		if err := rows.Scan(&row.ID, &row.Name, &row.Artist, &row.ArtistID, &row.ImageURL, &row.Playcount); err != nil {
			return nil, err
		}
		chart = append(chart, row)
	}
	return chart, rows.Err()
}

func scanPlayDetails(rows *sql.Rows) ([]music.PlayDetail, error) {
	plays := []music.PlayDetail{}
	for rows.Next() {
		var play music.PlayDetail
		var album sql.NullString
		if err := rows.Scan(&play.Track, &play.Artist, &album, &play.Timestamp); err != nil {
			return nil, err
		}
		if album.Valid {
			play.Album = &album.String
		}
		plays = append(plays, play)
	}
	return plays, rows.Err()
}

// RecentPlays returns the newest plays across the whole history.
func (d *SqliteHistory) RecentPlays(ctx context.Context, limit int) ([]music.PlayDetail, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT t.name, a.name, al.name, p.timestamp
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		JOIN artists a ON t.artist_id = a.id
		LEFT JOIN albums al ON t.album_id = al.id
		ORDER BY p.timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayDetails(rows)
}

// entityColumn maps an entity kind to the tracks column plays are
// grouped by.
func entityColumn(kind music.EntityKind) string {
	if kind == music.KindAlbum {
		return "t.album_id"
	}
	return "t.artist_id"
}

// EntityRecentPlays returns the newest plays of one artist or album.
func (d *SqliteHistory) EntityRecentPlays(ctx context.Context, kind music.EntityKind, id int64, limit int) ([]music.PlayDetail, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT t.name, a.name, al.name, p.timestamp
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		JOIN artists a ON t.artist_id = a.id
		LEFT JOIN albums al ON t.album_id = al.id
		WHERE `+entityColumn(kind)+` = ?
		ORDER BY p.timestamp DESC
		LIMIT ?
	`, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayDetails(rows)
}

// UniqueCounts returns the distinct entity totals of the library.
// Entities only exist because a play created them, so the table counts
// are the distinct-played counts.
func (d *SqliteHistory) UniqueCounts(ctx context.Context) (*music.LibraryCounts, error) {
	counts := &music.LibraryCounts{}
	err := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM artists),
			(SELECT COUNT(*) FROM albums),
			(SELECT COUNT(*) FROM tracks),
			(SELECT COUNT(*) FROM plays)
	`).Scan(&counts.Artists, &counts.Albums, &counts.Tracks, &counts.Plays)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func scanDayCounts(rows *sql.Rows) ([]music.DayCount, error) {
	days := []music.DayCount{}
	for rows.Next() {
		var day music.DayCount
		if err := rows.Scan(&day.Day, &day.Count); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// DailyPlays returns the per-day playcounts of the last N days in
// ascending day order. Days with no plays are absent.
func (d *SqliteHistory) DailyPlays(ctx context.Context, days int) ([]music.DayCount, error) {
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	rows, err := d.db.QueryContext(ctx, `
		SELECT DATE(timestamp, 'unixepoch') AS day, COUNT(*) AS count
		FROM plays
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day ASC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDayCounts(rows)
}

// ArtistDailyPlays returns the per-day playcounts of one artist for
// the last N days.
func (d *SqliteHistory) ArtistDailyPlays(ctx context.Context, artistID int64, days int) ([]music.DayCount, error) {
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	rows, err := d.db.QueryContext(ctx, `
		SELECT DATE(p.timestamp, 'unixepoch') AS day, COUNT(*) AS count
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		WHERE t.artist_id = ? AND p.timestamp >= ?
		GROUP BY day
		ORDER BY day ASC
	`, artistID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDayCounts(rows)
}

// PlaySummary returns first/last play timestamps and the total
// playcount of one entity. First and Last stay nil when the entity was
// never played.
func (d *SqliteHistory) PlaySummary(ctx context.Context, kind music.EntityKind, id int64) (*music.PlaySummary, error) {
	var first, last sql.NullInt64
	summary := &music.PlaySummary{}
	err := d.db.QueryRowContext(ctx, `
		SELECT MIN(p.timestamp), MAX(p.timestamp), COUNT(p.id)
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		WHERE `+entityColumn(kind)+` = ?
	`, id).Scan(&first, &last, &summary.Total)
	if err != nil {
		return nil, err
	}
	if first.Valid {
		summary.First = &first.Int64
	}
	if last.Valid {
		summary.Last = &last.Int64
	}
	return summary, nil
}

// TotalPlays returns the playcount of the whole history.
func (d *SqliteHistory) TotalPlays(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plays`).Scan(&count)
	return count, err
}

func bucketExpr(bucket music.Bucket) string {
	switch bucket {
	case music.BucketMonth:
		return "strftime('%Y-%m', p.timestamp, 'unixepoch')"
	case music.BucketYear:
		return "strftime('%Y', p.timestamp, 'unixepoch')"
	default:
		return "DATE(p.timestamp, 'unixepoch')"
	}
}

// TopBucket returns the calendar bucket with the most plays of one
// entity. Ties resolve to the earliest bucket. Returns nil when the
// entity has no plays.
func (d *SqliteHistory) TopBucket(ctx context.Context, kind music.EntityKind, id int64, bucket music.Bucket) (*music.BucketCount, error) {
	top := &music.BucketCount{}
	err := d.db.QueryRowContext(ctx, `
		SELECT `+bucketExpr(bucket)+` AS label, COUNT(*) AS count
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		WHERE `+entityColumn(kind)+` = ?
		GROUP BY label
		ORDER BY count DESC, label ASC
		LIMIT 1
	`, id).Scan(&top.Label, &top.Count)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return top, nil
}

// PlayDates returns the distinct play days of one entity in ascending
// order.
func (d *SqliteHistory) PlayDates(ctx context.Context, kind music.EntityKind, id int64) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT DISTINCT DATE(p.timestamp, 'unixepoch') AS day
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		WHERE `+entityColumn(kind)+` = ?
		ORDER BY day ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		dates = append(dates, day)
	}
	return dates, rows.Err()
}

// PlaycountsByKind returns every entity of a kind with its total
// playcount, including entities with zero plays.
func (d *SqliteHistory) PlaycountsByKind(ctx context.Context, kind music.EntityKind) ([]music.EntityPlaycount, error) {
	query := `
		SELECT a.id, a.name, COUNT(p.id) AS playcount
		FROM artists a
		LEFT JOIN tracks t ON t.artist_id = a.id
		LEFT JOIN plays p ON p.track_id = t.id
		GROUP BY a.id
	`
	if kind == music.KindAlbum {
		query = `
			SELECT al.id, al.name, COUNT(p.id) AS playcount
			FROM albums al
			LEFT JOIN tracks t ON t.album_id = al.id
			LEFT JOIN plays p ON p.track_id = t.id
			GROUP BY al.id
		`
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []music.EntityPlaycount{}
	for rows.Next() {
		var row music.EntityPlaycount
		if err := rows.Scan(&row.ID, &row.Name, &row.Playcount); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}
	return counts, rows.Err()
}

// NthPlay returns the n-th play (1-based, oldest first) of one entity,
// or ErrNotFound when the entity has fewer than n plays.
func (d *SqliteHistory) NthPlay(ctx context.Context, kind music.EntityKind, id int64, n int64) (*music.PlayDetail, error) {
	play := &music.PlayDetail{}
	var album sql.NullString
	err := d.db.QueryRowContext(ctx, `
		SELECT t.name, a.name, al.name, p.timestamp
		FROM plays p
		JOIN tracks t ON p.track_id = t.id
		JOIN artists a ON t.artist_id = a.id
		LEFT JOIN albums al ON t.album_id = al.id
		WHERE `+entityColumn(kind)+` = ?
		ORDER BY p.timestamp ASC
		LIMIT 1 OFFSET ?
	`, id, n-1).Scan(&play.Track, &play.Artist, &album, &play.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, music.ErrNotFound
		}
		return nil, err
	}
	if album.Valid {
		play.Album = &album.String
	}
	return play, nil
}

// SearchArtists returns artists whose name contains the query.
func (d *SqliteHistory) SearchArtists(ctx context.Context, query string, limit int) ([]music.SearchResult, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name FROM artists
		WHERE name LIKE ?
		ORDER BY name ASC
		LIMIT ?
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchResults(rows)
}

// SearchTracks returns tracks whose name contains the query. When an
// artist id is given the name filter is dropped and every track of
// that artist matches instead.
func (d *SqliteHistory) SearchTracks(ctx context.Context, query string, limit int, artistID *int64) ([]music.SearchResult, error) {
	sqlQuery := `SELECT id, name FROM tracks WHERE name LIKE ?`
	args := []interface{}{"%" + query + "%"}
	if artistID != nil {
		sqlQuery = `SELECT id, name FROM tracks WHERE artist_id = ?`
		args = []interface{}{*artistID}
	}
	sqlQuery += " ORDER BY name ASC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchResults(rows)
}

// SearchAlbums returns albums whose name contains the query. When an
// artist id is given the name filter is dropped and every album of
// that artist matches instead.
func (d *SqliteHistory) SearchAlbums(ctx context.Context, query string, limit int, artistID *int64) ([]music.SearchResult, error) {
	sqlQuery := `SELECT id, name FROM albums WHERE name LIKE ?`
	args := []interface{}{"%" + query + "%"}
	if artistID != nil {
		sqlQuery = `SELECT id, name FROM albums WHERE artist_id = ?`
		args = []interface{}{*artistID}
	}
	sqlQuery += " ORDER BY name ASC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchResults(rows)
}

func scanSearchResults(rows *sql.Rows) ([]music.SearchResult, error) {
	results := []music.SearchResult{}
	for rows.Next() {
		var result music.SearchResult
		if err := rows.Scan(&result.ID, &result.Name); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
