package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/phraseopt"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
)

var phraseTable = []struct {
	source string
	target string
	score  float64
}{
	{"the", "le", -0.3},
	{"the", "la", -0.9},
	{"black", "noir", -0.4},
	{"black", "noire", -0.8},
	{"cat", "chat", -0.2},
	{"black cat", "chat noir", -0.5},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	config := model.DefaultDecoderConfig()
	config.WordPenaltyWeight = 0.1

	o, err := phraseopt.NewOptioner(dbConfig, &config, nil)
	if err != nil {
		log.Fatalf("Failed to create optioner: %v", err)
	}
	defer o.Close()

	for _, p := range phraseTable {
		_, err := o.AddPhrase(p.source, p.target, model.ScoreVector{model.FeaturePhraseTable: p.score})
		if err != nil {
			log.Fatalf("Failed to add phrase: %v", err)
		}
	}

	// "grey" is not in the table and passes through as an unknown word
	result, err := o.CollectOptions(context.Background(), "the grey black cat")
	if err != nil {
		log.Fatalf("Failed to collect options: %v", err)
	}

	fmt.Printf("\n=== %d options for %q ===\n", result.Len(), result.Sentence().String())
	for _, opt := range result.All() {
		fmt.Println(opt)
	}

	// Options a hypothesis covering "the" can still extend with
	coverage := model.NewCoverageBitmap(result.Sentence().Size())
	coverage.Cover(model.NewRange(0, 0))

	fmt.Printf("\n=== Compatible with coverage %s ===\n", coverage)
	for _, opt := range result.Compatible(coverage) {
		fmt.Println(opt)
	}
	fmt.Printf("future cost of the rest: %.4f\n", result.FutureCost().CostFor(coverage))
}
