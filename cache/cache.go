// Package cache persists the latest quality report per remote device in a JSON file.
package cache

import (
	"io/ioutil"
	"os"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
)

// ErrNotFound is returned by Load for an address with no stored record.
var ErrNotFound = errors.New("report not found in cache")

type reportCache struct {
	filename string
	lock     sync.RWMutex
}

func New(filename string) btcodec.ReportCache {
	rc := reportCache{
		filename: filename,
	}

	return &rc
}

// Store saves rec under addr. An existing record is only overwritten when replace is set.
func (rc *reportCache) Store(addr btcodec.Addr, rec btcodec.ReportRecord, replace bool) error {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	cache, err := rc.loadExisting()
	if err != nil {
		return err
	}

	_, ok := cache[addr.String()]
	if ok && !replace {
		return errors.Errorf("cache already contains a report for %s", addr)
	}

	cache[addr.String()] = rec

	return rc.storeCache(cache)
}

func (rc *reportCache) Load(addr btcodec.Addr) (btcodec.ReportRecord, error) {
	rc.lock.RLock()
	defer rc.lock.RUnlock()

	cache, err := rc.loadExisting()
	if err != nil {
		return btcodec.ReportRecord{}, err
	}

	rec, ok := cache[addr.String()]
	if !ok {
		return btcodec.ReportRecord{}, errors.Wrapf(ErrNotFound, "%s", addr)
	}

	return rec, nil
}

// List returns every record ordered by address.
func (rc *reportCache) List() ([]btcodec.ReportRecord, error) {
	rc.lock.RLock()
	defer rc.lock.RUnlock()

	cache, err := rc.loadExisting()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(cache))
	for k := range cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]btcodec.ReportRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, cache[k])
	}
	return out, nil
}

func (rc *reportCache) Clear() error {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	err := os.Remove(rc.filename)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "can't clear cache")
	}

	return nil
}

func (rc *reportCache) loadExisting() (map[string]btcodec.ReportRecord, error) {
	_, err := os.Stat(rc.filename)
	if os.IsNotExist(err) {
		return map[string]btcodec.ReportRecord{}, nil
	}

	in, err := ioutil.ReadFile(rc.filename)
	if err != nil {
		return nil, errors.Wrap(err, "can't read cache")
	}

	var cache map[string]btcodec.ReportRecord
	err = jsoniter.Unmarshal(in, &cache)
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse cache %v", rc.filename)
	}
	if cache == nil {
		cache = map[string]btcodec.ReportRecord{}
	}

	return cache, nil
}

func (rc *reportCache) storeCache(cache map[string]btcodec.ReportRecord) error {
	out, err := jsoniter.Marshal(cache)
	if err != nil {
		return err
	}

	return errors.Wrap(ioutil.WriteFile(rc.filename, out, 0644), "can't write cache")
}
