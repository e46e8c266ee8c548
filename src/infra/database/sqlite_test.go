package database

import (
	"context"
	"errors"
	"testing"

	"github.com/contre95/resonate/src/music"
)

func newTestHistory(t *testing.T) *SqliteHistory {
	t.Helper()
	history, err := NewSqliteHistory(":memory:")
	if err != nil {
		t.Fatalf("expected no error creating history, got %v", err)
	}
	t.Cleanup(func() { history.Close() })
	return history
}

func TestAddPlays_ResolvesSharedEntities(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "Karma Police", Artist: "Radiohead", Album: "OK Computer", Timestamp: 1000},
		{Track: "Paranoid Android", Artist: "Radiohead", Album: "OK Computer", Timestamp: 2000},
		{Track: "Karma Police", Artist: "Radiohead", Album: "OK Computer", Timestamp: 3000},
	}

	inserted, skipped, err := history.AddPlays(ctx, events)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inserted != 3 || skipped != 0 {
		t.Errorf("expected 3 inserted / 0 skipped, got %d / %d", inserted, skipped)
	}

	counts, err := history.UniqueCounts(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if counts.Artists != 1 || counts.Albums != 1 || counts.Tracks != 2 || counts.Plays != 3 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestAddPlays_ReingestIsIdempotent(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "One More Time", Artist: "Daft Punk", Album: "Discovery", Timestamp: 1000},
		{Track: "Aerodynamic", Artist: "Daft Punk", Album: "Discovery", Timestamp: 2000},
	}

	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	inserted, skipped, err := history.AddPlays(ctx, events)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inserted != 0 || skipped != 2 {
		t.Errorf("expected 0 inserted / 2 skipped, got %d / %d", inserted, skipped)
	}

	total, err := history.TotalPlays(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 total plays, got %d", total)
	}
}

func TestAddPlays_SameTrackSameSecondIsOnePlay(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "Roygbiv", Artist: "Boards of Canada", Timestamp: 5000},
		{Track: "Roygbiv", Artist: "Boards of Canada", Timestamp: 5000},
	}

	inserted, skipped, err := history.AddPlays(ctx, events)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inserted != 1 || skipped != 1 {
		t.Errorf("expected 1 inserted / 1 skipped, got %d / %d", inserted, skipped)
	}
}

func TestFindOrCreateTrack_AlbumlessTracksDeduplicate(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	artist, err := history.FindOrCreateArtist(ctx, "Aphex Twin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	first, err := history.FindOrCreateTrack(ctx, "Avril 14th", artist.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := history.FindOrCreateTrack(ctx, "Avril 14th", artist.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same track id, got %d and %d", first.ID, second.ID)
	}

	album, err := history.FindOrCreateAlbum(ctx, "Drukqs", artist.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	withAlbum, err := history.FindOrCreateTrack(ctx, "Avril 14th", artist.ID, &album.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if withAlbum.ID == first.ID {
		t.Error("expected distinct track when an album is attached")
	}
}

func TestFindOrCreateTrack_SameNameDifferentArtists(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	first, err := history.FindOrCreateArtist(ctx, "Nirvana")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := history.FindOrCreateArtist(ctx, "Patti Smith")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	one, err := history.FindOrCreateTrack(ctx, "Smells Like Teen Spirit", first.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	two, err := history.FindOrCreateTrack(ctx, "Smells Like Teen Spirit", second.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if one.ID == two.ID {
		t.Error("expected distinct tracks for distinct artists")
	}
}

func TestTopArtists_OrderAndCutoff(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "A", Artist: "Alpha", Timestamp: 100},
		{Track: "A", Artist: "Alpha", Timestamp: 200},
		{Track: "A", Artist: "Alpha", Timestamp: 300},
		{Track: "B", Artist: "Beta", Timestamp: 400},
		{Track: "B", Artist: "Beta", Timestamp: 500},
	}
	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	chart, err := history.TopArtists(ctx, 10, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chart) != 2 {
		t.Fatalf("expected 2 chart rows, got %d", len(chart))
	}
	if chart[0].Name != "Alpha" || chart[0].Playcount != 3 {
		t.Errorf("unexpected first row: %+v", chart[0])
	}

	// With a cutoff past Alpha's plays only Beta remains.
	chart, err = history.TopArtists(ctx, 10, 350)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chart) != 1 || chart[0].Name != "Beta" || chart[0].Playcount != 2 {
		t.Errorf("unexpected windowed chart: %+v", chart)
	}
}

func TestTopArtists_TieBreaksByInsertionOrder(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "X", Artist: "First", Timestamp: 100},
		{Track: "Y", Artist: "Second", Timestamp: 200},
	}
	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	chart, err := history.TopArtists(ctx, 10, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chart) != 2 || chart[0].Name != "First" || chart[1].Name != "Second" {
		t.Errorf("expected stable tie ordering, got %+v", chart)
	}
}

func TestTopTracks_ScopedToArtist(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "A", Artist: "Alpha", Timestamp: 100},
		{Track: "A", Artist: "Alpha", Timestamp: 200},
		{Track: "B", Artist: "Beta", Timestamp: 300},
	}
	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	artist, err := history.FindOrCreateArtist(ctx, "Alpha")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	chart, err := history.TopTracks(ctx, 10, 0, &artist.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chart) != 1 || chart[0].Name != "A" || chart[0].Playcount != 2 {
		t.Errorf("unexpected scoped chart: %+v", chart)
	}
}

func TestTopAlbums_SkipsAlbumlessPlays(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "With Album", Artist: "Alpha", Album: "LP", Timestamp: 100},
		{Track: "Single", Artist: "Alpha", Timestamp: 200},
	}
	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	chart, err := history.TopAlbums(ctx, 10, 0, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chart) != 1 || chart[0].Name != "LP" || chart[0].Playcount != 1 {
		t.Errorf("unexpected album chart: %+v", chart)
	}
}

func TestPlaySummary_EmptyEntity(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	artist, err := history.FindOrCreateArtist(ctx, "Silent")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	summary, err := history.PlaySummary(ctx, music.KindArtist, artist.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Total != 0 || summary.First != nil || summary.Last != nil {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestNthPlay(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "T", Artist: "Alpha", Timestamp: 300},
		{Track: "T", Artist: "Alpha", Timestamp: 100},
		{Track: "T", Artist: "Alpha", Timestamp: 200},
	}
	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	artist, err := history.FindOrCreateArtist(ctx, "Alpha")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	play, err := history.NthPlay(ctx, music.KindArtist, artist.ID, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if play.Timestamp != 200 {
		t.Errorf("expected 2nd play at 200, got %d", play.Timestamp)
	}

	_, err = history.NthPlay(ctx, music.KindArtist, artist.ID, 4)
	if !errors.Is(err, music.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTopBucket_TieResolvesToEarliest(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	// 2021-01-01 and 2021-01-02, one play each.
	events := []music.PlayEvent{
		{Track: "T", Artist: "Alpha", Timestamp: 1609459200},
		{Track: "T", Artist: "Alpha", Timestamp: 1609545600},
	}
	if _, _, err := history.AddPlays(ctx, events); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	artist, err := history.FindOrCreateArtist(ctx, "Alpha")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	top, err := history.TopBucket(ctx, music.KindArtist, artist.ID, music.BucketDay)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if top == nil || top.Label != "2021-01-01" || top.Count != 1 {
		t.Errorf("unexpected top bucket: %+v", top)
	}
}

func TestGetArtist_NotFound(t *testing.T) {
	history := newTestHistory(t)

	_, err := history.GetArtist(context.Background(), 42)
	if !errors.Is(err, music.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLastPlayTimestamp_EmptyHistory(t *testing.T) {
	history := newTestHistory(t)

	ts, err := history.LastPlayTimestamp(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ts != 0 {
		t.Errorf("expected 0 for empty history, got %d", ts)
	}
}

func TestSearchArtists(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	for _, name := range []string{"Radiohead", "Radio Slave", "Daft Punk"} {
		if _, err := history.FindOrCreateArtist(ctx, name); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	results, err := history.SearchArtists(ctx, "radio", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 matches, got %+v", results)
	}
}
