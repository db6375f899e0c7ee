// Package geocache downloads the road overlay for a bounding box, keeps the
// last successful download on disk and serves it from memory.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"survey-app/internal/metrics"
	"survey-app/internal/models"
	"survey-app/internal/overpass"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// DefaultMaxSpan is the largest latitude or longitude extent accepted for a download.
const DefaultMaxSpan = 0.5

const overlayKey = "overlay"

// Status is the outcome of a download that did not fail.
type Status string

const (
	StatusSaved    Status = "saved"
	StatusNotFound Status = "not_found"
)

// DownloadResult reports what a download did.
type DownloadResult struct {
	Status   Status        `json:"status"`
	Features int           `json:"features"`
	Bounds   models.Bounds `json:"bounds"`
}

// RoadSource fetches road ways for a bounding box.
type RoadSource interface {
	Roads(ctx context.Context, b models.Bounds) ([]overpass.Element, error)
}

// Cache owns the single shared overlay file.
type Cache struct {
	path    string
	source  RoadSource
	maxSpan float64

	mem     *cache.Cache
	version atomic.Uint64
	mu      sync.Mutex
}

// entry is what the in-memory cache holds; stamp ties it to the file state it was read from.
type entry struct {
	stamp stamp
	fc    *models.FeatureCollection
}

type stamp struct {
	version uint64
	modTime time.Time
	size    int64
}

// New creates a cache persisting to path and downloading from source.
func New(path string, source RoadSource, maxSpan float64) *Cache {
	if maxSpan <= 0 {
		maxSpan = DefaultMaxSpan
	}
	return &Cache{
		path:    path,
		source:  source,
		maxSpan: maxSpan,
		mem:     cache.New(cache.NoExpiration, 0),
	}
}

// Path returns the overlay file location.
func (c *Cache) Path() string { return c.path }

// Get returns the last downloaded overlay, or nil when there is none. The
// in-memory copy is reused only while the file is unchanged.
func (c *Cache) Get(ctx context.Context) (*models.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.mem.Delete(overlayKey)
			metrics.OverlayCacheReads.WithLabelValues("absent").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("geocache: failed to stat overlay: %w", err)
	}
	current := stamp{version: c.version.Load(), modTime: info.ModTime(), size: info.Size()}

	if cached, ok := c.mem.Get(overlayKey); ok {
		if e, ok := cached.(entry); ok && e.stamp == current {
			metrics.OverlayCacheReads.WithLabelValues("memory").Inc()
			return e.fc, nil
		}
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("geocache: failed to read overlay: %w", err)
	}
	var fc models.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("geocache: overlay file is not valid GeoJSON: %w", err)
	}

	c.mem.Set(overlayKey, entry{stamp: current, fc: &fc}, cache.NoExpiration)
	metrics.OverlayCacheReads.WithLabelValues("disk").Inc()
	return &fc, nil
}

// Invalidate drops the in-memory overlay so the next Get rereads the file.
func (c *Cache) Invalidate() {
	c.version.Add(1)
	c.mem.Delete(overlayKey)
}

// Download fetches the roads in b and replaces the cached overlay with them.
// Oversized boxes are rejected before any request is made. An empty result
// leaves the existing overlay in place and is reported as StatusNotFound.
func (c *Cache) Download(ctx context.Context, b models.Bounds) (DownloadResult, error) {
	result := DownloadResult{Bounds: b}

	if err := b.Validate(); err != nil {
		metrics.OverlayDownloads.WithLabelValues("invalid").Inc()
		return result, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}
	if b.LatSpan() > c.maxSpan || b.LonSpan() > c.maxSpan {
		metrics.OverlayDownloads.WithLabelValues("too_large").Inc()
		return result, &QueryTooLargeError{LatSpan: b.LatSpan(), LonSpan: b.LonSpan(), MaxSpan: c.maxSpan}
	}

	start := time.Now()
	elements, err := c.source.Roads(ctx, b)
	metrics.OverlayQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OverlayDownloads.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Str("bbox", b.String()).Msg("overlay query failed")
		return result, &QueryFailure{Err: err}
	}

	features := ToFeatures(elements)
	if len(features) == 0 {
		metrics.OverlayDownloads.WithLabelValues(string(StatusNotFound)).Inc()
		log.Info().Str("bbox", b.String()).Msg("no roads found in bounding box")
		result.Status = StatusNotFound
		return result, nil
	}

	data, err := json.Marshal(models.NewFeatureCollection(features))
	if err != nil {
		return result, fmt.Errorf("geocache: failed to encode overlay: %w", err)
	}

	c.mu.Lock()
	err = writeFileAtomic(c.path, data)
	c.Invalidate()
	c.mu.Unlock()
	if err != nil {
		metrics.OverlayDownloads.WithLabelValues("failed").Inc()
		return result, fmt.Errorf("geocache: failed to save overlay: %w", err)
	}

	metrics.OverlayDownloads.WithLabelValues(string(StatusSaved)).Inc()
	log.Info().Str("bbox", b.String()).Int("features", len(features)).Msg("road overlay saved")

	result.Status = StatusSaved
	result.Features = len(features)
	return result, nil
}

// Delete removes the overlay file. Deleting a missing overlay is not an error.
func (c *Cache) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path)
	c.Invalidate()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("geocache: failed to delete overlay: %w", err)
	}
	return nil
}

// ToFeatures converts ways with geometry into line features. Nodes,
// relations and ways without geometry are dropped.
func ToFeatures(elements []overpass.Element) []models.Feature {
	features := make([]models.Feature, 0, len(elements))
	for _, el := range elements {
		if el.Type != "way" || len(el.Geometry) == 0 {
			continue
		}
		points := make([]models.Coordinate, len(el.Geometry))
		for i, p := range el.Geometry {
			points[i] = models.Coordinate{Lat: p.Lat, Lon: p.Lon}
		}
		tags := make(map[string]string, len(el.Tags))
		for k, v := range el.Tags {
			tags[k] = v
		}
		features = append(features, models.NewLineFeature(points, tags))
	}
	return features
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
