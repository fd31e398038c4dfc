package collection

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/siherrmann/phraseopt/core/cache"
	"github.com/siherrmann/phraseopt/core/option"
	"github.com/siherrmann/phraseopt/core/pipeline"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
	"golang.org/x/sync/errgroup"
)

// Collector gathers the translation options of a sentence from a set of decode graphs
type Collector struct {
	config *model.DecoderConfig
	scorer *option.Scorer
	graphs []*pipeline.DecodeGraph
	cache  *cache.OptionCache
	log    *slog.Logger

	// graphKey names the graph set in option cache keys
	graphKey string
}

// NewCollector creates a collector. The option cache and logger are optional.
func NewCollector(config *model.DecoderConfig, scorer *option.Scorer, graphs []*pipeline.DecodeGraph, optionCache *cache.OptionCache, logger *slog.Logger) (*Collector, error) {
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate config", err)
	}
	if len(graphs) == 0 {
		return nil, helper.NewError("decode graphs", fmt.Errorf("at least one decode graph is required"))
	}
	for _, graph := range graphs {
		if err := graph.Validate(); err != nil {
			return nil, helper.NewError("decode graphs", err)
		}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ids := make([]string, len(graphs))
	for i, graph := range graphs {
		ids[i] = strconv.Itoa(graph.ID)
	}

	return &Collector{
		config:   config,
		scorer:   scorer,
		graphs:   graphs,
		cache:    optionCache,
		log:      logger,
		graphKey: strings.Join(ids, ","),
	}, nil
}

// Collect runs every decode graph on every span up to the maximum phrase length,
// adds options for unknown words and computes the future-cost matrix.
// Spans are processed concurrently by up to Workers goroutines.
func (c *Collector) Collect(ctx context.Context, sentence *model.Sentence) (*Collection, error) {
	size := sentence.Size()
	spans := make([][][]*option.Option, size)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.config.Workers)
	for start := 0; start < size; start++ {
		maxLength := min(c.config.MaxPhraseLength, size-start)
		spans[start] = make([][]*option.Option, maxLength)
		for length := 1; length <= maxLength; length++ {
			eg.Go(func() error {
				options, err := c.collectSpan(egCtx, sentence, model.NewRange(start, start+length-1))
				if err != nil {
					return err
				}
				spans[start][length-1] = options
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, helper.NewError("collect spans", err)
	}

	for pos := 0; pos < size; pos++ {
		if len(spans[pos][0]) > 0 {
			continue
		}
		unknown, err := c.unknownOption(sentence, pos)
		if err != nil {
			return nil, helper.NewError("unknown word", err)
		}
		spans[pos][0] = []*option.Option{unknown}
	}

	collection := &Collection{sentence: sentence, spans: spans}
	collection.futureCost = newFutureCostMatrix(size, func(start, end int) float64 {
		options := collection.Options(model.NewRange(start, end))
		if len(options) == 0 {
			return math.Inf(-1)
		}
		return options[0].FutureScore()
	})

	c.log.Debug("Collected options", slog.Int("words", size), slog.Int("options", collection.Len()))
	return collection, nil
}

func (c *Collector) collectSpan(ctx context.Context, sentence *model.Sentence, rng model.Range) ([]*option.Option, error) {
	source, err := sentence.SubPhrase(rng)
	if err != nil {
		return nil, err
	}
	key := c.cacheKey(source)

	if c.cache != nil {
		if options, ok := c.cache.Get(key, rng); ok {
			return options, nil
		}
	}

	var options []*option.Option
	for _, graph := range c.graphs {
		builders, err := graph.Process(ctx, sentence, rng)
		if err != nil {
			return nil, err
		}
		for _, b := range builders {
			options = append(options, b.Finalize(c.scorer))
		}
	}
	options = prune(options, c.config.MaxOptionsPerSpan)

	if c.cache != nil {
		c.cache.Add(key, options)
	}
	return options, nil
}

// cacheKey identifies a source phrase by all of its factors and the decode graphs
// producing its options, steps may read factors beyond the input factors.
func (c *Collector) cacheKey(source model.Phrase) string {
	return source.String() + "#" + c.graphKey
}

// prune keeps the limit best options by future score. Ties keep collection order.
func prune(options []*option.Option, limit int) []*option.Option {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].FutureScore() > options[j].FutureScore()
	})
	if len(options) > limit {
		options = options[:limit]
	}
	return options
}

// unknownOption passes the source word through with the unknown word penalty,
// or deletes it when unknown words are dropped.
func (c *Collector) unknownOption(sentence *model.Sentence, pos int) (*option.Option, error) {
	word, err := sentence.Word(pos)
	if err != nil {
		return nil, err
	}

	var target model.Phrase
	if !c.config.DropUnknown {
		target = model.NewPhrase(word.Project(c.config.OutputFactors))
	}
	tp := model.NewTargetPhrase(target, model.ScoreVector{model.FeatureUnknown: c.config.UnknownWordPenalty})

	c.log.Debug("Unknown word", slog.Int("position", pos), slog.String("word", word.String()))
	return option.NewUnknownBuilder(model.NewRange(pos, pos), tp, sentence).Finalize(c.scorer), nil
}
