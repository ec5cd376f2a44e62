package store_test

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
	"github.com/mhoekstra/gauge/internal/store"
)

func openTemp(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "gauge.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestObservationsRoundTrip(t *testing.T) {
	s := openTemp(t)

	obs := []model.Observation{
		{
			Date:        time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
			TimeOfDay:   8 * time.Hour,
			Station:     "VLISSGN",
			Level:       1.23,
			Salinity:    math.NaN(),
			Temperature: 17.5,
			Bucket:      model.Bucket1980,
		},
		{
			Date:        time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC),
			Station:     "VLISSGN",
			Level:       math.NaN(),
			Salinity:    30000,
			Temperature: math.NaN(),
			Bucket:      model.BucketPre1900,
		},
	}
	if err := s.PutObservations("VLISSGN", "waterdata.csv", obs, 3); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, meta, ok, err := s.GetObservations("VLISSGN")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected record to exist")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(got))
	}
	if meta.Dropped != 3 || meta.Rows != 2 || meta.SourceFile != "waterdata.csv" {
		t.Errorf("meta wrong: %+v", meta)
	}

	if got[0].Level != 1.23 || got[0].Temperature != 17.5 {
		t.Errorf("values: %g %g", got[0].Level, got[0].Temperature)
	}
	if !math.IsNaN(got[0].Salinity) {
		t.Error("NaN salinity should survive storage as null")
	}
	if got[0].TimeOfDay != 8*time.Hour {
		t.Errorf("time of day: %v", got[0].TimeOfDay)
	}
	if got[1].Bucket != model.BucketPre1900 {
		t.Errorf("bucket: %s", got[1].Bucket)
	}
	if !got[0].Date.Equal(obs[0].Date) {
		t.Errorf("date: %v", got[0].Date)
	}
}

func TestGetMissingStation(t *testing.T) {
	s := openTemp(t)
	_, _, ok, err := s.GetObservations("NOWHERE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing station")
	}
}

func TestReimportReplaces(t *testing.T) {
	s := openTemp(t)
	one := []model.Observation{{Date: time.Now(), Station: "X", Level: 1}}
	two := []model.Observation{
		{Date: time.Now(), Station: "X", Level: 1},
		{Date: time.Now(), Station: "X", Level: 2},
	}
	if err := s.PutObservations("X", "a.csv", one, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.PutObservations("X", "b.csv", two, 0); err != nil {
		t.Fatal(err)
	}
	got, meta, _, err := s.GetObservations("X")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || meta.SourceFile != "b.csv" {
		t.Errorf("re-import should replace: %d rows, source %s", len(got), meta.SourceFile)
	}
}

func TestListStations(t *testing.T) {
	s := openTemp(t)
	obs := []model.Observation{{Date: time.Now(), Station: "A", Level: 1}}
	if err := s.PutObservations("A", "", obs, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.PutObservations("B", "", obs, 0); err != nil {
		t.Fatal(err)
	}
	metas, err := s.ListStations()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(metas))
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	s := openTemp(t)
	snap := store.Snapshot{
		ID:          "20260101120000abcd",
		Name:        "level-summary",
		CommandLine: "analyze summary --field level",
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.PutSnapshot(snap); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := s.GetSnapshot(snap.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.CommandLine != snap.CommandLine {
		t.Errorf("command line: %q", got.CommandLine)
	}

	list, err := s.ListSnapshots()
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %d err=%v", len(list), err)
	}

	if err := s.DeleteSnapshot(snap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, ok, err = s.GetSnapshot(snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("snapshot should be gone after delete")
	}
}

func TestStatsAndClear(t *testing.T) {
	s := openTemp(t)
	obs := []model.Observation{{Date: time.Now(), Station: "A", Level: 1}}
	if err := s.PutObservations("A", "", obs, 0); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	var obsCount int
	for _, st := range stats {
		if st.Name == "obs" {
			obsCount = st.Count
		}
	}
	if obsCount != 1 {
		t.Errorf("obs bucket: expected 1 entry, got %d", obsCount)
	}

	if err := s.ClearBucket("obs"); err != nil {
		t.Fatal(err)
	}
	_, _, ok, err := s.GetObservations("A")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("record should be gone after clear")
	}
}
