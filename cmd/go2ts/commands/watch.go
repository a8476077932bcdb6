package commands

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [packages]",
		Short: "Transpile again whenever Go sources or rule files change",
		Long: `Transpile the given packages, then watch their directories and the
rule files. Every burst of changes to .go files or rule files triggers a
new run. Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWatch,
	}

	addRunFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", defaultDebounce, "Quiet period before a change triggers a run")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(s.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	runOnce := func() []string {
		outcome, err := transpile(ctx, s, args, logger)
		if err != nil {
			logger.Error("transpile failed", zap.Error(err))
			return nil
		}

		printDiagnostics(cmd.ErrOrStderr(), &outcome.result.Diagnostics)

		if err := emit(cmd.OutOrStdout(), s, outcome.result); err != nil {
			logger.Error("writing output failed", zap.Error(err))
		}

		logger.Info("transpiled",
			zap.Int("files", len(outcome.result.Files)),
			zap.Int("errors", len(outcome.result.Diagnostics.Errors)),
		)

		return outcome.dirs
	}

	dirs := runOnce()
	if len(dirs) == 0 {
		return errors.New("nothing to watch: the first run loaded no files")
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")

	w, err := newSourceWatcher(dirs, s.Rules, debounce, logger, func() { runOnce() })
	if err != nil {
		return err
	}

	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	return w.Run(ctx)
}

// sourceWatcher triggers a callback after a burst of source changes.
type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	rules    map[string]bool
	debounce time.Duration
	logger   *zap.Logger
	onChange func()
}

// newSourceWatcher watches the directories in paths for .go changes, and
// the directories of the rule files for changes to those files. Watching
// the directory keeps rule files saved by rename observed.
func newSourceWatcher(paths, rules []string, debounce time.Duration, logger *zap.Logger, onChange func()) (*sourceWatcher, error) {
	w := &sourceWatcher{
		rules:    make(map[string]bool, len(rules)),
		debounce: debounce,
		logger:   logger,
		onChange: onChange,
	}

	dirs := slices.Clone(paths)
	for _, r := range rules {
		w.rules[absPath(r)] = true
		dirs = append(dirs, filepath.Dir(r))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		abs := absPath(d)
		if seen[abs] {
			continue
		}

		seen[abs] = true

		if err := watcher.Add(d); err != nil {
			_ = watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", d)
		}
	}

	w.watcher = watcher

	return w, nil
}

// Run handles events until ctx is done, then closes the watcher.
func (w *sourceWatcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("change detected",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))

			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			w.onChange()
		}
	}
}

func (w *sourceWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if w.rules[absPath(event.Name)] {
		return true
	}

	return filepath.Ext(event.Name) == ".go"
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}

	return abs
}
