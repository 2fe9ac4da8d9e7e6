package dataset

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autosales-dashboard/internal/models"
)

const cacheVersion = "v1"

var errCacheDisabled = errors.New("dataset cache disabled")

type snapshot struct {
	Version string
	Source  string
	SavedAt time.Time
	Records []models.SalesRecord
}

func (l *Loader) cacheFilename(source string) string {
	sum := sha256.Sum256([]byte(source))
	return filepath.Join(l.cacheDir, fmt.Sprintf("sales_%s_%s.gob", hex.EncodeToString(sum[:8]), cacheVersion))
}

func (l *Loader) cacheEnabled() bool {
	return l.cacheDir != "" && l.cacheTTL > 0
}

func (l *Loader) saveSnapshot(source string, savedAt time.Time, records []models.SalesRecord) error {
	if !l.cacheEnabled() {
		return nil
	}
	if err := os.MkdirAll(l.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(l.cacheFilename(source))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(snapshot{
		Version: cacheVersion,
		Source:  source,
		SavedAt: savedAt,
		Records: records,
	})
}

func (l *Loader) loadSnapshot(source string) (*snapshot, error) {
	if !l.cacheEnabled() {
		return nil, errCacheDisabled
	}

	file, err := os.Open(l.cacheFilename(source))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Version != cacheVersion || snap.Source != source {
		return nil, fmt.Errorf("stale cache entry for %s", source)
	}
	return &snap, nil
}

// snapshotFresh reports whether a snapshot may stand in for the source.
// Local files must also be older than the snapshot.
func (l *Loader) snapshotFresh(source string, snap *snapshot) bool {
	if l.now().Sub(snap.SavedAt) > l.cacheTTL {
		return false
	}
	if isRemote(source) {
		return true
	}
	info, err := os.Stat(source)
	return err == nil && info.ModTime().Before(snap.SavedAt)
}
