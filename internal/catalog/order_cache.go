package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/multierr"

	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
	"github.com/salessavvy/storefront/pkg/logger"
	"github.com/salessavvy/storefront/pkg/metrics"
)

// Persisted cache keys. All three are written together; a record missing
// any of them is corrupt.
const (
	keyShuffleOrder     = "shuffle_order"
	keyShuffleTimestamp = "shuffle_timestamp"
	keyShuffleUser      = "shuffle_user"
)

const (
	readOutcomeMerge     = "merge"
	readOutcomeReshuffle = "reshuffle"
)

// KeyValueStore is the persistence capability backing the order cache.
// Get reports whether the key existed; SetAll writes every pair as one
// atomic replacement.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetAll(ctx context.Context, values map[string]string) error
}

// OrderCache produces a stable catalog display order across reloads
// within a TTL window, scoped to the user who produced it.
type OrderCache struct {
	store   KeyValueStore
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	now     func() time.Time
	rand    *rand.Rand
}

// OrderCacheParams bundles the order cache dependencies. TTL, Now and
// Rand default when unset.
type OrderCacheParams struct {
	Store   KeyValueStore
	TTL     time.Duration
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
	Now     func() time.Time
	Rand    *rand.Rand
}

// NewOrderCache builds an order cache backed by the provided store.
func NewOrderCache(params OrderCacheParams) (*OrderCache, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("key-value store required")
	}
	if params.TTL <= 0 {
		params.TTL = 10 * time.Minute
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Rand == nil {
		params.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &OrderCache{
		store:   params.Store,
		ttl:     params.TTL,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
		rand:    params.Rand,
	}, nil
}

type shuffleRecord struct {
	orderedIDs []string
	timestamp  time.Time
	owner      string
}

// Order returns the display order for a fresh catalog fetch. A valid
// cached record (younger than the TTL and owned by currentUser) is merged
// against the fetch without refreshing its TTL; anything else triggers a
// reshuffle and a wholesale record rewrite. Store failures never surface
// to the caller: the catalog is still ordered, only persistence is lost.
func (c *OrderCache) Order(ctx context.Context, currentUser string, fresh []Product) []Product {
	record, err := c.readRecord(ctx)
	if err != nil {
		c.warn(ctx, "discarding unreadable shuffle record", err)
		record = nil
	}

	if record != nil && c.isValid(record, currentUser) {
		c.metrics.IncCacheRead(readOutcomeMerge)
		return mergeOrder(record.orderedIDs, fresh)
	}

	c.metrics.IncCacheRead(readOutcomeReshuffle)
	ordered := c.shuffle(fresh)
	if err := c.persist(ctx, currentUser, ordered); err != nil {
		c.warn(ctx, "persisting shuffle record failed", err)
	}
	return ordered
}

func (c *OrderCache) isValid(record *shuffleRecord, currentUser string) bool {
	if c.now().Sub(record.timestamp) >= c.ttl {
		return false
	}
	return record.owner == currentUser
}

// readRecord returns nil with no error when no record exists, and a
// CACHE_CORRUPT error when a record exists but cannot be parsed.
func (c *OrderCache) readRecord(ctx context.Context) (*shuffleRecord, error) {
	orderRaw, orderOK, orderErr := c.store.Get(ctx, keyShuffleOrder)
	tsRaw, tsOK, tsErr := c.store.Get(ctx, keyShuffleTimestamp)
	userRaw, userOK, userErr := c.store.Get(ctx, keyShuffleUser)
	if err := multierr.Combine(orderErr, tsErr, userErr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCacheCorrupt, err, "reading shuffle record")
	}
	if !orderOK && !tsOK && !userOK {
		return nil, nil
	}
	if !orderOK || !tsOK || !userOK {
		return nil, pkgerrors.New(pkgerrors.CodeCacheCorrupt, "partial shuffle record")
	}

	var orderedIDs []string
	if err := json.Unmarshal([]byte(orderRaw), &orderedIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCacheCorrupt, err, "parsing shuffle order")
	}
	millis, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCacheCorrupt, err, "parsing shuffle timestamp")
	}
	return &shuffleRecord{
		orderedIDs: orderedIDs,
		timestamp:  time.UnixMilli(millis),
		owner:      userRaw,
	}, nil
}

// mergeOrder replays the cached order over the fresh fetch: cached ids
// still present come first in cache order, fresh-only products follow in
// fetch order, and cached ids absent from the fetch are dropped.
func mergeOrder(orderedIDs []string, fresh []Product) []Product {
	byID := make(map[string]Product, len(fresh))
	for _, p := range fresh {
		byID[p.ID] = p
	}

	merged := make([]Product, 0, len(fresh))
	consumed := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := consumed[id]; dup {
			continue
		}
		consumed[id] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range fresh {
		if _, ok := consumed[p.ID]; ok {
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// shuffle applies a uniform Fisher-Yates pass over a copy of the fetch.
func (c *OrderCache) shuffle(fresh []Product) []Product {
	shuffled := make([]Product, len(fresh))
	copy(shuffled, fresh)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := c.rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

func (c *OrderCache) persist(ctx context.Context, currentUser string, ordered []Product) error {
	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding shuffle order: %w", err)
	}
	return c.store.SetAll(ctx, map[string]string{
		keyShuffleOrder:     string(encoded),
		keyShuffleTimestamp: strconv.FormatInt(c.now().UnixMilli(), 10),
		keyShuffleUser:      currentUser,
	})
}

func (c *OrderCache) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(ctx, fmt.Sprintf("%s: %v", msg, err))
}
