package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/siherrmann/phraseopt/core/option"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
)

// OptionCache keeps the scored options of recently seen source phrases.
// Options are stored once and handed out rebound to the range they are requested for.
type OptionCache struct {
	entries   *lru.Cache[string, []*option.Option]
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

// NewOptionCache creates a cache holding up to size source phrases.
// Metrics are registered with reg, a nil registerer leaves them unregistered.
func NewOptionCache(size int, reg prometheus.Registerer) (*OptionCache, error) {
	factory := promauto.With(reg)
	c := &OptionCache{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "phraseopt_option_cache_hits_total",
			Help: "Total option cache hits",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "phraseopt_option_cache_misses_total",
			Help: "Total option cache misses",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "phraseopt_option_cache_evictions_total",
			Help: "Total source phrases evicted from the option cache",
		}),
	}

	entries, err := lru.NewWithEvict[string, []*option.Option](size, func(string, []*option.Option) {
		c.evictions.Inc()
	})
	if err != nil {
		return nil, helper.NewError("create lru cache", err)
	}
	c.entries = entries

	return c, nil
}

// Register registers the cache metrics with reg
func (c *OptionCache) Register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{c.hits, c.misses, c.evictions} {
		if err := reg.Register(collector); err != nil {
			return helper.NewError("register metrics", err)
		}
	}
	return nil
}

// Get returns the cached options for key rebound to rng
func (c *OptionCache) Get(key string, rng model.Range) ([]*option.Option, bool) {
	cached, ok := c.entries.Get(key)
	if !ok {
		c.misses.Inc()
		return nil, false
	}
	c.hits.Inc()

	result := make([]*option.Option, len(cached))
	for i, o := range cached {
		result[i] = o.WithRange(rng)
	}
	return result, true
}

// Add stores the options of a source phrase. An empty list is cached as well,
// it records that the phrase has no translation.
func (c *OptionCache) Add(key string, options []*option.Option) {
	stored := make([]*option.Option, len(options))
	for i, o := range options {
		stored[i] = o.Clone()
	}
	c.entries.Add(key, stored)
}

// Len returns the number of cached source phrases
func (c *OptionCache) Len() int {
	return c.entries.Len()
}

// Purge removes all entries
func (c *OptionCache) Purge() {
	c.entries.Purge()
}
