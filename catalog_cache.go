package jigsaw

import (
	"encoding/json"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

var (
	cacheBucketCandidates = []byte("candidates")
	cacheBucketModules    = []byte("modules")
)

// CachingCatalog decorates another Catalog with a boltdb-backed memoizing
// cache, grounded on the same persistent-cache shape gps uses for source
// metadata (internal/gps/source_cache_bolt.go's boltCache): FindCandidates
// and ReadModuleInfo results are stored keyed by their query/id once
// computed, so a slow inner Catalog (DiskCatalog re-walking a large tree,
// or a hypothetical network-backed one) only pays its own cost once per
// process lifetime of the cache file.
//
// GatherProviders is not cached: it already scans the whole catalog on
// every call, and caching it would need its own invalidation story
// separate from the per-id/per-query entries below.
type CachingCatalog struct {
	inner Catalog
	db    *bolt.DB
}

// NewCachingCatalog opens (creating if necessary) a bolt database at
// dbPath and wraps inner with it.
func NewCachingCatalog(inner Catalog, dbPath string) (*CachingCatalog, error) {
	db, err := bolt.Open(dbPath, 0644, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "jigsaw: opening cache database %s", dbPath)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(cacheBucketCandidates); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(cacheBucketModules)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "jigsaw: initializing cache database")
	}

	return &CachingCatalog{inner: inner, db: db}, nil
}

// Close releases the underlying bolt database.
func (c *CachingCatalog) Close() error {
	return c.db.Close()
}

func (c *CachingCatalog) FindCandidates(q ModuleIDQuery) ([]Candidate, error) {
	key := []byte(q.String())

	var cached []Candidate
	hit := false
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(cacheBucketCandidates).Get(key)
		if v == nil {
			return nil
		}
		hit = true
		return json.Unmarshal(v, &cached)
	})
	if err != nil {
		return nil, errors.Wrap(err, "jigsaw: reading candidate cache")
	}
	if hit {
		return cached, nil
	}

	result, err := c.inner.FindCandidates(q)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "jigsaw: encoding candidate cache entry")
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucketCandidates).Put(key, data)
	}); err != nil {
		return nil, errors.Wrap(err, "jigsaw: writing candidate cache")
	}
	return result, nil
}

func (c *CachingCatalog) ReadModuleInfo(id ModuleID) (*ModuleInfo, bool, error) {
	key := []byte(id.String())

	var cached *ModuleInfo
	hit, missing := false, false
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(cacheBucketModules).Get(key)
		if v == nil {
			return nil
		}
		if len(v) == 0 {
			missing = true
			return nil
		}
		var mi ModuleInfo
		if err := json.Unmarshal(v, &mi); err != nil {
			return err
		}
		cached = &mi
		hit = true
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "jigsaw: reading module cache")
	}
	if missing {
		return nil, false, nil
	}
	if hit {
		return cached, true, nil
	}

	mi, found, err := c.inner.ReadModuleInfo(id)
	if err != nil {
		return nil, false, err
	}

	var data []byte
	if found {
		data, err = json.Marshal(mi)
		if err != nil {
			return nil, false, errors.Wrap(err, "jigsaw: encoding module cache entry")
		}
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucketModules).Put(key, data)
	}); err != nil {
		return nil, false, errors.Wrap(err, "jigsaw: writing module cache")
	}
	return mi, found, nil
}

func (c *CachingCatalog) GatherProviders(service string) ([]Provider, error) {
	return c.inner.GatherProviders(service)
}
