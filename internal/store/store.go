// Package store provides a thin bbolt wrapper for gauge's local database.
//
// The store holds exactly what `gauge import` put there: the prepared
// observation sequence for a station, written once and read by every
// analysis command afterwards. Re-running import is the only way the data
// changes.
//
// Buckets:
//
//	obs       prepared observations keyed by station ID
//	snapshots saved command lines for reproducible workflows
//	_meta     internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mhoekstra/gauge/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

var (
	bucketObs       = []byte("obs")
	bucketSnapshots = []byte("snapshots")
	bucketInternal  = []byte("_meta")
)

// AllBuckets lists every user-facing bucket for stats and clear operations.
var AllBuckets = []string{"obs", "snapshots"}

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path. Parent directories are
// created automatically; schema migrations run on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketObs, bucketSnapshots, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Observations ─────────────────────────────────────────────────────────────

// storedRow is the JSON-safe on-disk shape of one observation. Measurements
// are *float64 so missing values are stored as JSON null rather than NaN,
// which encoding/json cannot handle.
type storedRow struct {
	Date        string   `json:"date"`
	TimeOfDay   string   `json:"time_of_day,omitempty"`
	Level       *float64 `json:"level"`
	Salinity    *float64 `json:"salinity"`
	Temperature *float64 `json:"temperature"`
	Bucket      string   `json:"bucket"`
}

// storedStation is the on-disk envelope for a station's prepared sequence.
type storedStation struct {
	Station    string      `json:"station"`
	ImportedAt time.Time   `json:"imported_at"`
	SourceFile string      `json:"source_file,omitempty"`
	Dropped    int         `json:"dropped"`
	Rows       []storedRow `json:"rows"`
}

func toStored(o model.Observation) storedRow {
	r := storedRow{
		Date:   o.Date.Format("2006-01-02"),
		Bucket: string(o.Bucket),
	}
	if o.TimeOfDay != 0 {
		r.TimeOfDay = o.TimeOfDay.String()
	}
	r.Level = nullable(o.Level)
	r.Salinity = nullable(o.Salinity)
	r.Temperature = nullable(o.Temperature)
	return r
}

func fromStored(station string, r storedRow) model.Observation {
	t, _ := time.Parse("2006-01-02", r.Date)
	var tod time.Duration
	if r.TimeOfDay != "" {
		tod, _ = time.ParseDuration(r.TimeOfDay)
	}
	return model.Observation{
		Date:        t,
		TimeOfDay:   tod,
		Station:     station,
		Level:       denull(r.Level),
		Salinity:    denull(r.Salinity),
		Temperature: denull(r.Temperature),
		Bucket:      model.Bucket(r.Bucket),
	}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func denull(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// ImportMeta describes the provenance of a stored station sequence.
type ImportMeta struct {
	Station    string
	ImportedAt time.Time
	SourceFile string
	Dropped    int
	Rows       int
}

// PutObservations stores the prepared sequence for a station, replacing any
// previous import.
func (s *Store) PutObservations(station, sourceFile string, obs []model.Observation, dropped int) error {
	rows := make([]storedRow, len(obs))
	for i, o := range obs {
		rows[i] = toStored(o)
	}
	envelope := storedStation{
		Station:    station,
		ImportedAt: time.Now().UTC(),
		SourceFile: sourceFile,
		Dropped:    dropped,
		Rows:       rows,
	}
	b, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encoding observations: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketObs).Put([]byte(station), b)
	})
}

// GetObservations retrieves the prepared sequence for a station.
// Returns (obs, meta, true, nil) if found, (nil, zero, false, nil) if not.
func (s *Store) GetObservations(station string) ([]model.Observation, ImportMeta, bool, error) {
	var envelope storedStation
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketObs).Get([]byte(station))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &envelope)
	})
	if err != nil {
		return nil, ImportMeta{}, false, err
	}
	if envelope.Station == "" {
		return nil, ImportMeta{}, false, nil
	}
	obs := make([]model.Observation, len(envelope.Rows))
	for i, r := range envelope.Rows {
		obs[i] = fromStored(envelope.Station, r)
	}
	meta := ImportMeta{
		Station:    envelope.Station,
		ImportedAt: envelope.ImportedAt,
		SourceFile: envelope.SourceFile,
		Dropped:    envelope.Dropped,
		Rows:       len(envelope.Rows),
	}
	return obs, meta, true, nil
}

// ListStations returns the metadata of every stored station sequence.
func (s *Store) ListStations() ([]ImportMeta, error) {
	var metas []ImportMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketObs).ForEach(func(k, v []byte) error {
			var envelope storedStation
			if err := json.Unmarshal(v, &envelope); err != nil {
				return err
			}
			metas = append(metas, ImportMeta{
				Station:    envelope.Station,
				ImportedAt: envelope.ImportedAt,
				SourceFile: envelope.SourceFile,
				Dropped:    envelope.Dropped,
				Rows:       len(envelope.Rows),
			})
			return nil
		})
	})
	return metas, err
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

// Snapshot represents a saved command line for reproducible workflows.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CommandLine string    `json:"command_line"`
	CreatedAt   time.Time `json:"created_at"`
}

// PutSnapshot saves a snapshot. The key is snap:<ID>.
func (s *Store) PutSnapshot(snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte("snap:"+snap.ID), b)
	})
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id string) (Snapshot, bool, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSnapshots).Get([]byte("snap:" + id))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &snap)
	})
	if err != nil {
		return snap, false, err
	}
	return snap, snap.ID != "", nil
}

// ListSnapshots returns all snapshots in key order.
func (s *Store) ListSnapshots() ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			snaps = append(snaps, snap)
			return nil
		})
	})
	return snaps, err
}

// DeleteSnapshot removes a snapshot by ID.
func (s *Store) DeleteSnapshot(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete([]byte("snap:" + id))
	})
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns entry counts and approximate sizes for all user buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	buckets := map[string][]byte{
		"obs":       bucketObs,
		"snapshots": bucketSnapshots,
	}

	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket(buckets[name])
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket.
func (s *Store) ClearBucket(name string) error {
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}
