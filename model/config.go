package model

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DecoderConfig holds the settings option collection and scoring need.
// Everything scoring consults is passed explicitly from here, there is no global state.
type DecoderConfig struct {
	// Factors
	InputFactors            []FactorType `json:"input_factors" yaml:"input_factors" validate:"required,min=1,dive,gte=0,lt=4"`
	OutputFactors           []FactorType `json:"output_factors" yaml:"output_factors" validate:"required,min=1,dive,gte=0,lt=4"`
	GenerationInputFactors  []FactorType `json:"generation_input_factors,omitempty" yaml:"generation_input_factors,omitempty" validate:"dive,gte=0,lt=4"`
	GenerationOutputFactors []FactorType `json:"generation_output_factors,omitempty" yaml:"generation_output_factors,omitempty" validate:"dive,gte=0,lt=4"`

	// Scoring
	Weights                   map[string]float64 `json:"weights" yaml:"weights"`
	LMWeight                  float64            `json:"lm_weight" yaml:"lm_weight"`
	WordPenaltyWeight         float64            `json:"word_penalty_weight" yaml:"word_penalty_weight"`
	UseReorderingInFutureCost bool               `json:"use_reordering_in_future_cost" yaml:"use_reordering_in_future_cost"`

	// Collection limits
	MaxPhraseLength   int `json:"max_phrase_length" yaml:"max_phrase_length" validate:"gte=1"`
	MaxOptionsPerSpan int `json:"max_options_per_span" yaml:"max_options_per_span" validate:"gte=1"`
	MaxPartialOptions int `json:"max_partial_options" yaml:"max_partial_options" validate:"gte=1"`
	Workers           int `json:"workers" yaml:"workers" validate:"gte=1"`
	CacheSize         int `json:"cache_size" yaml:"cache_size" validate:"gte=0"`

	// Unknown words
	DropUnknown        bool    `json:"drop_unknown" yaml:"drop_unknown"`
	UnknownWordPenalty float64 `json:"unknown_word_penalty" yaml:"unknown_word_penalty" validate:"lte=0"`
}

// DefaultDecoderConfig returns a surface-only configuration with unit table weights
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		InputFactors:  []FactorType{FactorSurface},
		OutputFactors: []FactorType{FactorSurface},
		Weights: map[string]float64{
			FeaturePhraseTable: 1.0,
			FeatureGeneration:  1.0,
			FeatureUnknown:     1.0,
			FeatureReordering:  1.0,
		},
		LMWeight:                  0.5,
		WordPenaltyWeight:         0.0,
		UseReorderingInFutureCost: true,
		MaxPhraseLength:           7,
		MaxOptionsPerSpan:         50,
		MaxPartialOptions:         10000,
		Workers:                   4,
		CacheSize:                 10000,
		DropUnknown:               false,
		UnknownWordPenalty:        -100.0,
	}
}

// Validate checks the configuration values
func (c *DecoderConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid decoder config: %w", err)
	}
	if len(c.GenerationInputFactors) > 0 && len(c.GenerationOutputFactors) == 0 {
		return fmt.Errorf("invalid decoder config: generation input factors set without output factors")
	}
	return nil
}

// HasGeneration reports whether a generation step is configured
func (c *DecoderConfig) HasGeneration() bool {
	return len(c.GenerationInputFactors) > 0 && len(c.GenerationOutputFactors) > 0
}

// LoadDecoderConfig reads a YAML file over the defaults and validates the result
func LoadDecoderConfig(path string) (*DecoderConfig, error) {
	config := DefaultDecoderConfig()
	if path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
