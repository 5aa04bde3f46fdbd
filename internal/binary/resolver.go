package binary

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/cache"
)

// LatestVersionTTL is how long a resolved channel version stays cached.
const LatestVersionTTL = 7 * 24 * time.Hour

// Resolver turns a VersionSpec into a concrete version.
type Resolver struct {
	releases  ReleaseLister
	cache     cache.Store
	tagPrefix string
	logger    Logger

	mu       sync.Mutex
	resolved map[string]string
}

// NewResolver creates a resolver. store may be nil, in which case channel
// results are only memoized in memory.
func NewResolver(tool Tool, releases ReleaseLister, store cache.Store, logger Logger) *Resolver {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Resolver{
		releases:  releases,
		cache:     store,
		tagPrefix: tool.TagPrefix,
		logger:    logger,
		resolved:  make(map[string]string),
	}
}

// CacheKey returns the external cache key for a channel on an artifact.
func CacheKey(channel Channel, artifact string) string {
	return "binary.latest_version." + string(channel) + "." + artifact
}

// Resolve returns the bare version (no leading "v") for spec. Explicit
// versions are returned without any I/O. Concurrent channel lookups are
// serialized so the index is fetched at most once per instance.
func (r *Resolver) Resolve(ctx context.Context, spec VersionSpec, artifact string) (string, error) {
	if !spec.IsChannel() {
		if spec.Version() == "" {
			return "", fmt.Errorf("%w: empty version", ErrInvalidVersion)
		}
		return spec.Version(), nil
	}

	key := CacheKey(spec.Channel(), artifact)

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.resolved[key]; ok {
		return v, nil
	}

	if r.cache != nil {
		v, ok, err := r.cache.Get(key)
		if err != nil {
			r.logger.Warn("version cache read failed", "key", key, "error", err)
		} else if ok {
			r.logger.Debug("resolved version from cache", "channel", spec.Channel(), "version", v)
			r.resolved[key] = v
			return v, nil
		}
	}

	v, err := r.fetchLatest(ctx, spec.Channel())
	if err != nil {
		return "", err
	}
	r.logger.Debug("resolved version from release index", "channel", spec.Channel(), "version", v)

	if r.cache != nil {
		if err := r.cache.Set(key, v, LatestVersionTTL); err != nil {
			r.logger.Warn("version cache write failed", "key", key, "error", err)
		}
	}

	r.resolved[key] = v
	return v, nil
}

// fetchLatest lists releases and picks the first one matching channel.
func (r *Resolver) fetchLatest(ctx context.Context, channel Channel) (string, error) {
	if r.releases == nil {
		return "", fmt.Errorf("%w: no release index configured", ErrVersionResolution)
	}

	releases, err := r.releases.ListReleases(ctx)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrVersionResolution, channel, err)
	}

	for _, rel := range releases {
		if !strings.HasPrefix(rel.TagName, r.tagPrefix) {
			continue
		}
		if channel == ChannelStable && rel.Prerelease {
			continue
		}
		if channel == ChannelNightly && !rel.Prerelease {
			continue
		}
		v := strings.TrimPrefix(rel.TagName, r.tagPrefix)
		if v == "" {
			continue
		}
		return v, nil
	}

	return "", fmt.Errorf("%w: no %s release found with tag prefix %q", ErrVersionResolution, channel, r.tagPrefix)
}
