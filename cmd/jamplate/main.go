package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cufyorg/jamplate-processor/internal/ref"
)

func main() {
	var (
		watch      bool
		configPath string
	)

	renderCmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a jamplate template to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenderCmd(cmd.Context(), args[0], watch, configPath)
		},
	}
	renderCmd.Flags().BoolVar(&watch, "watch", false, "re-render on file change")
	renderCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd := &cobra.Command{
		Use:   "jamplate",
		Short: "Render jamplate templates",
	}
	rootCmd.AddCommand(renderCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRenderCmd(ctx context.Context, path string, watch bool, configPath string) error {
	cfg := &config{}
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	store, err := newCacheStore(cfg.CacheDir)
	if err != nil {
		return err
	}

	renderOnce := func() bool {
		doc, err := ref.NewFileDocument(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		result, err := runRender(ctx, doc, cfg.EnabledDirectives, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		fmt.Fprint(os.Stdout, result.Console)
		for _, line := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, line)
		}
		return !result.HasErrors
	}

	ok := renderOnce()
	if !watch {
		if !ok {
			return errRenderFailed
		}
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, open := <-watcher.Events:
			if !open {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				renderOnce()
			}
		case err, open := <-watcher.Errors:
			if !open {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
