package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rulesengine/internal/demo"
	"rulesengine/internal/obslog"
)

var factsPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the bundled example engine once against a facts file",
	RunE:  runEvaluate,
}

func init() {
	runCmd.Flags().StringVar(&factsPath, "facts", "facts.yaml", "path to a YAML facts file")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	eng, err := demo.BuildEngine()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	facts, ruleCtx, err := loadFacts(factsPath)
	if err != nil {
		return err
	}

	collector := obslog.NewZapCollector(obslog.For(logger, obslog.CategoryEngine))
	result, err := eng.Evaluate(facts, ruleCtx, collector)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	if diagErr := checkJSONSafe(result); diagErr != nil {
		logger.Warn("some derived facts or failure reasons are not JSON-printable", zap.Error(diagErr))
	}

	encoded, err := json.MarshalIndent(summarize(result), "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
