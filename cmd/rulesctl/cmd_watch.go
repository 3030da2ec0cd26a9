package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the evaluation whenever the facts file changes",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&factsPath, "facts", "facts.yaml", "path to a YAML facts file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(factsPath); err != nil {
		return fmt.Errorf("watch: add %s: %w", factsPath, err)
	}

	logger.Info("watching facts file for changes", zap.String("path", factsPath))
	if err := runEvaluate(cmd, args); err != nil {
		logger.Error("initial evaluation failed", zap.Error(err))
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runEvaluate(cmd, args); err != nil {
				logger.Error("evaluation failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", zap.Error(err))
		}
	}
}
