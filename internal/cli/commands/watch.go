package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/snedea/arcane-auditor/pkg/model"
)

// debounceWindow coalesces editor save bursts into one re-analysis.
const debounceWindow = 250 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run analysis whenever definition files change",
		Example: `  # Watch the current directory
  arcane watch

  # Watch a specific app directory
  arcane watch ./myapp`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = "."
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runWatch(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json (overrides --output)")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *AnalyzeOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, opts.Path); err != nil {
		return err
	}

	// Initial run; parse failures are reported but keep the watch alive.
	if err := runAnalyze(cmd, opts); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need watching; only recognized definition
			// files trigger a re-run.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}
			if model.KindForPath(event.Name) == model.KindUnknown {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)

		case <-pending:
			fmt.Fprintln(cmd.OutOrStdout())
			if err := runAnalyze(cmd, opts); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		}
	}
}

// addWatchDirs registers root and every directory beneath it.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
