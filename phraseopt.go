package phraseopt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/siherrmann/phraseopt/core/cache"
	"github.com/siherrmann/phraseopt/core/collection"
	"github.com/siherrmann/phraseopt/core/option"
	"github.com/siherrmann/phraseopt/core/pipeline"
	"github.com/siherrmann/phraseopt/database"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
	loadSql "github.com/siherrmann/phraseopt/sql"
)

// Optioner wires the phrase store, the decode graphs and the option cache
// into translation option collection for whole sentences.
type Optioner struct {
	DB          *helper.Database
	Phrases     *database.PhrasesDBHandler
	Generations *database.GenerationsDBHandler
	Config      *model.DecoderConfig
	Cache       *cache.OptionCache // Optional, nil when CacheSize is 0
	Graphs      []*pipeline.DecodeGraph
	scorer      *option.Scorer
	collector   *collection.Collector
	// Logging
	log *slog.Logger
}

// NewOptioner creates a new Optioner backed by the database in dbConfig.
// A nil config uses the defaults, a nil language model scores zero.
func NewOptioner(dbConfig *helper.DatabaseConfiguration, config *model.DecoderConfig, lm option.LanguageModel) (*Optioner, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	if config == nil {
		defaults := model.DefaultDecoderConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate config", err)
	}

	// Initialize database
	db := helper.NewDatabase("phraseopt", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	phrases, err := database.NewPhrasesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create phrases handler", err)
	}

	generations, err := database.NewGenerationsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create generations handler", err)
	}

	var optionCache *cache.OptionCache
	if config.CacheSize > 0 {
		optionCache, err = cache.NewOptionCache(config.CacheSize, nil)
		if err != nil {
			return nil, helper.NewError("create option cache", err)
		}
	}

	o := &Optioner{
		DB:          db,
		Phrases:     phrases,
		Generations: generations,
		Config:      config,
		Cache:       optionCache,
		scorer:      option.NewScorer(config, lm),
		log:         logger,
	}

	err = o.SetGraphs(o.DefaultGraph())
	if err != nil {
		return nil, helper.NewError("set default graph", err)
	}

	return o, nil
}

// Close closes the database connection
func (o *Optioner) Close() error {
	if o.DB != nil && o.DB.Instance != nil {
		return o.DB.Instance.Close()
	}
	return nil
}

// DefaultGraph returns the decode graph reading the stored tables: a translation step
// from the input to the output factors, followed by a generation step if one is configured.
func (o *Optioner) DefaultGraph() *pipeline.DecodeGraph {
	steps := []pipeline.Step{
		pipeline.TranslationStep(o.Config.InputFactors, o.Config.OutputFactors, pipeline.TableLookup(o.Phrases, o.Config.MaxOptionsPerSpan)),
	}
	if o.Config.HasGeneration() {
		steps = append(steps, pipeline.GenerationStep(
			o.Config.GenerationInputFactors,
			o.Config.GenerationOutputFactors,
			pipeline.TableGeneration(o.Generations, o.Config.MaxOptionsPerSpan),
		))
	}

	graph := pipeline.NewDecodeGraph(0, steps...)
	graph.MaxPartialOptions = o.Config.MaxPartialOptions
	graph.SetLogger(o.log)
	return graph
}

// SetGraphs replaces the decode graphs. Cached options are dropped.
func (o *Optioner) SetGraphs(graphs ...*pipeline.DecodeGraph) error {
	collector, err := collection.NewCollector(o.Config, o.scorer, graphs, o.Cache, o.log)
	if err != nil {
		return helper.NewError("create collector", err)
	}

	o.Graphs = graphs
	o.collector = collector
	if o.Cache != nil {
		o.Cache.Purge()
	}
	return nil
}

// RegisterMetrics registers the option cache metrics with reg
func (o *Optioner) RegisterMetrics(reg prometheus.Registerer) error {
	if o.Cache == nil {
		return nil
	}
	return o.Cache.Register(reg)
}

// CollectOptions tokenizes text and collects the translation options of every span
func (o *Optioner) CollectOptions(ctx context.Context, text string) (*collection.Collection, error) {
	sentence := model.NewSentence(text, o.Config.InputFactors)
	if sentence.Size() == 0 {
		return nil, helper.NewError("collect options", fmt.Errorf("sentence is empty"))
	}

	result, err := o.collector.Collect(ctx, sentence)
	if err != nil {
		return nil, helper.NewError("collect", err)
	}

	o.log.Info("Collected options", slog.Int("words", sentence.Size()), slog.Int("options", result.Len()))
	return result, nil
}

// AddPhrase stores a phrase-table entry. The source is read with the input factors,
// the target with the output factors, both in the factored text form `word|factor`.
func (o *Optioner) AddPhrase(source, target string, scores model.ScoreVector) (*model.PhraseEntry, error) {
	sentence := model.NewSentence(source, o.Config.InputFactors)
	if sentence.Size() == 0 {
		return nil, helper.NewError("add phrase", fmt.Errorf("source phrase is empty"))
	}
	sourcePhrase, err := sentence.SubPhrase(model.NewRange(0, sentence.Size()-1))
	if err != nil {
		return nil, helper.NewError("source phrase", err)
	}

	entry := &model.PhraseEntry{
		Source: sourcePhrase.Key(o.Config.InputFactors),
		Target: model.ParsePhrase(target, o.Config.OutputFactors),
		Scores: scores,
	}
	if err := o.Phrases.InsertPhrase(entry); err != nil {
		return nil, helper.NewError("insert phrase", err)
	}

	o.log.Info("Inserted phrase", slog.String("rid", entry.RID.String()), slog.String("source", entry.Source))
	return entry, nil
}

// AddGeneration stores a generation-table entry mapping the generation input factors
// of a word to its generation output factors.
func (o *Optioner) AddGeneration(input, output string, scores model.ScoreVector) (*model.GenerationEntry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, helper.NewError("add generation", fmt.Errorf("input is empty"))
	}

	entry := &model.GenerationEntry{
		Input:  model.ParseWord(input, o.Config.GenerationInputFactors).Format(o.Config.GenerationInputFactors),
		Output: model.ParseWord(strings.TrimSpace(output), o.Config.GenerationOutputFactors),
		Scores: scores,
	}
	if err := o.Generations.InsertGeneration(entry); err != nil {
		return nil, helper.NewError("insert generation", err)
	}

	o.log.Info("Inserted generation", slog.String("rid", entry.RID.String()), slog.String("input", entry.Input))
	return entry, nil
}
