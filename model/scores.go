package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/siherrmann/phraseopt/helper"
)

// Feature names used by the built-in score producers
const (
	FeaturePhraseTable = "tm"
	FeatureGeneration  = "generation"
	FeatureUnknown     = "unknown"
	FeatureReordering  = "reordering"
)

// ScoreVector maps feature names to their accumulated contribution
type ScoreVector map[string]float64

// Get returns the value of a feature, zero if unset
func (s ScoreVector) Get(name string) float64 {
	return s[name]
}

// Add adds other into s field-wise, introducing missing features
func (s *ScoreVector) Add(other ScoreVector) {
	if len(other) == 0 {
		return
	}
	if *s == nil {
		*s = make(ScoreVector, len(other))
	}
	for name, value := range other {
		(*s)[name] += value
	}
}

// Names returns the feature names in sorted order
func (s ScoreVector) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InnerProduct returns the weighted sum of all features. Features without weight contribute zero.
// Features are summed in name order so equal vectors always give bit-identical results.
func (s ScoreVector) InnerProduct(weights map[string]float64) float64 {
	sum := 0.0
	for _, name := range s.Names() {
		sum += s[name] * weights[name]
	}
	return sum
}

// Sum returns the unweighted sum of all features
func (s ScoreVector) Sum() float64 {
	sum := 0.0
	for _, name := range s.Names() {
		sum += s[name]
	}
	return sum
}

// Clone returns a copy. A nil vector stays nil.
func (s ScoreVector) Clone() ScoreVector {
	if s == nil {
		return nil
	}
	out := make(ScoreVector, len(s))
	for name, value := range s {
		out[name] = value
	}
	return out
}

func (s ScoreVector) String() string {
	parts := make([]string, 0, len(s))
	for _, name := range s.Names() {
		parts = append(parts, fmt.Sprintf("%s=%.4f", name, s[name]))
	}
	return strings.Join(parts, " ")
}

// ParseScore reads `name=value` into a single-feature vector entry
func ParseScore(text string) (string, float64, error) {
	name, value, ok := strings.Cut(text, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("score %q is not of the form name=value", text)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", 0, fmt.Errorf("score %q has no numeric value: %w", text, err)
	}
	return name, f, nil
}

// Value implements the driver.Valuer interface for database storage
func (s ScoreVector) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]float64(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *ScoreVector) Scan(value interface{}) error {
	if value == nil {
		*s = ScoreVector{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}
	return json.Unmarshal(b, s)
}
