package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const watchDebounce = 250 * time.Millisecond

func newWatchCmd(app *App) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the calendar whenever the input document changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			regenerate := func() {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Header("Generated "+app.now().Format("15:04:05")))
				if err := runGenerate(cmd, app, f); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", formatter.StyleRed.Render("error:"), err)
				}
			}
			regenerate()
			return watchFile(cmd.Context(), f.input, watchDebounce, app.Logger, regenerate)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input document (YAML or JSON)")
	addOutputFlag(cmd.Flags(), &f.output)
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "neither read nor write the stored calendar")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// watchFile calls onChange after path has been quiet for delay following a
// write, create or rename. It watches the parent directory so editors that
// replace the file are followed. onChange runs on the calling goroutine.
// Returns nil when ctx is done.
func watchFile(ctx context.Context, path string, delay time.Duration, log zerolog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	dir, file := filepath.Dir(path), filepath.Base(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	log.Debug().Str("dir", dir).Str("file", file).Msg("watching input")

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("dir", dir).Msg("watch error")
		case <-pending:
			pending = nil
			log.Debug().Str("file", file).Msg("input changed")
			onChange()
		}
	}
}
