package kernel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/litescript/ls-ephemeris/internal/ephem"
)

var bucketSpans = []byte("spans")

// Store caches fetched state-vector spans on disk, one record per
// body, so repeated runs over the same window skip the network.
type Store struct {
	db     *bbolt.DB
	path   string
	maxAge time.Duration
}

// Span is one body's sampled window. Samples sit at the Chebyshev
// nodes of [StartJD, StopJD], which is what makes refitting on load
// exact.
type Span struct {
	StartJD float64       `json:"start_jd"`
	StopJD  float64       `json:"stop_jd"`
	Samples []StateSample `json:"samples"`
}

// spanRecord is the stored form of one body's cached span.
type spanRecord struct {
	FetchedAt int64 `json:"fetched_at"`
	Span
}

// OpenStore opens or creates the cache database at path. Records older
// than maxAge count as misses; a zero maxAge keeps them forever.
func OpenStore(path string, maxAge time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
		}
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSpans)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache bucket: %w", err)
	}
	return &Store{db: db, path: path, maxAge: maxAge}, nil
}

// Get returns a body's cached span if a fresh record covers
// [startJD, stopJD]. The second return reports whether one did.
func (s *Store) Get(id ephem.BodyID, startJD, stopJD float64) (Span, bool, error) {
	var rec spanRecord
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSpans).Get(storeKey(id))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decoding cached span for body %d: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return Span{}, false, err
	}
	if rec.StartJD > startJD || rec.StopJD < stopJD {
		return Span{}, false, nil
	}
	if s.maxAge > 0 && time.Since(time.Unix(rec.FetchedAt, 0)) > s.maxAge {
		return Span{}, false, nil
	}
	return rec.Span, true, nil
}

// Put stores a body's span, replacing any previous record.
func (s *Store) Put(id ephem.BodyID, span Span) error {
	rec := spanRecord{FetchedAt: time.Now().Unix(), Span: span}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding span for body %d: %w", id, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSpans).Put(storeKey(id), data)
	})
}

// SpanInfo describes one cached record.
type SpanInfo struct {
	Body      ephem.BodyID
	StartJD   float64
	StopJD    float64
	Samples   int
	FetchedAt time.Time
}

// Info lists the cached spans, sorted by body id.
func (s *Store) Info() ([]SpanInfo, error) {
	var infos []SpanInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSpans).ForEach(func(k, v []byte) error {
			id, err := strconv.Atoi(string(k))
			if err != nil {
				return fmt.Errorf("malformed cache key %q", k)
			}
			var rec spanRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding cached span for body %d: %w", id, err)
			}
			infos = append(infos, SpanInfo{
				Body:      ephem.BodyID(id),
				StartJD:   rec.StartJD,
				StopJD:    rec.StopJD,
				Samples:   len(rec.Samples),
				FetchedAt: time.Unix(rec.FetchedAt, 0),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Body < infos[j].Body })
	return infos, nil
}

// Clear drops every cached span.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSpans); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketSpans)
		return err
	})
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func storeKey(id ephem.BodyID) []byte {
	return []byte(strconv.Itoa(int(id)))
}
