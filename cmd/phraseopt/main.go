// Package main provides the phraseopt command line tool for managing the phrase store
// and inspecting the translation options collected for a sentence.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/siherrmann/phraseopt"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phraseopt",
	Short: "Translation option collection for phrase-based translation",
	Long:  "phraseopt stores phrase and generation table entries in Postgres and precomputes the scored translation options of every span of a source sentence.",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a decoder config YAML file (defaults are used when empty)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newOptioner connects to the database configured in the environment
func newOptioner() (*phraseopt.Optioner, error) {
	config, err := model.LoadDecoderConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load decoder config: %w", err)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	return phraseopt.NewOptioner(dbConfig, config, nil)
}

// parseScores reads repeated `name=value` flags into a score vector
func parseScores(values []string) (model.ScoreVector, error) {
	scores := model.ScoreVector{}
	for _, v := range values {
		name, value, err := model.ParseScore(v)
		if err != nil {
			return nil, err
		}
		scores[name] += value
	}
	return scores, nil
}
