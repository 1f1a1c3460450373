package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storybook/internal/api"
	"storybook/internal/logging"
	"storybook/internal/progress"
	"storybook/internal/state"
)

const dashRedrawInterval = 250 * time.Millisecond

func newDashCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dash <story-id>",
		Short: "Live dashboard for one story",
		Long: "Live dashboard for one story: fetches the full tree, subscribes to the " +
			"progress stream, and re-renders generation counters and per-scene status " +
			"as events arrive. Interrupt with Ctrl-C.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			tree, err := client.GetStoryTree(cmd.Context(), storyID)
			if err != nil {
				return err
			}
			bible, err := client.GetWorldBible(cmd.Context(), storyID)
			if err != nil && !api.IsNotFound(err) {
				return err
			}

			store := state.NewStore()
			store.SetSnapshot(state.NewSnapshot(tree, bible))

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			listener := progress.NewListener(
				cfg.Backend.WebSocketURL,
				store,
				logging.NewComponentLogger(ctx.ensureLogger(), "progress"),
			)
			listenerDone := make(chan error, 1)
			go func() { listenerDone <- listener.Run(runCtx) }()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			err = runDashLoop(runCtx, store, out, colorize, listenerDone)

			saveDashSnapshot(ctx, store)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// runDashLoop re-renders on state changes, coalescing bursts of events into
// one redraw per interval.
func runDashLoop(ctx context.Context, store *state.Store, out io.Writer, colorize bool, listenerDone <-chan error) error {
	changes := store.Watch(ctx)
	timer := time.NewTimer(0)
	defer timer.Stop()
	dirty := false

	renderDashboard(out, store, colorize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-listenerDone:
			return err
		case _, ok := <-changes:
			if !ok {
				return ctx.Err()
			}
			dirty = true
		case <-timer.C:
			if dirty {
				renderDashboard(out, store, colorize)
				dirty = false
			}
			timer.Reset(dashRedrawInterval)
		}
	}
}

func renderDashboard(out io.Writer, store *state.Store, colorize bool) {
	conn := store.Connection()
	extraction := store.Extraction()
	lastErr := store.LastError()

	// The listener mutates the snapshot in place; traverse it under the
	// store's read lock.
	store.ReadSnapshot(func(snap *state.Snapshot) {
		if snap == nil || snap.Tree == nil {
			return
		}

		if colorize {
			fmt.Fprint(out, "\x1b[2J\x1b[H")
		}

		for _, line := range renderSectionHeader(fmt.Sprintf("%s (story %d)", snap.Tree.Title, snap.Tree.ID), colorize) {
			fmt.Fprintln(out, line)
		}

		connKind := statusWarn
		if conn == state.ConnConnected {
			connKind = statusOK
		}
		fmt.Fprintln(out, renderStatusLine("Stream", connKind, conn, colorize))
		fmt.Fprintln(out, renderStatusLine("Images", countsKind(snap.ImageCounts()), formatCounts(snap.ImageCounts()), colorize))
		fmt.Fprintln(out, renderStatusLine("Videos", countsKind(snap.VideoCounts()), formatCounts(snap.VideoCounts()), colorize))
		if extraction != "" {
			fmt.Fprintln(out, renderStatusLine("Extraction", statusInfo, extraction, colorize))
		}
		if lastErr != "" {
			fmt.Fprintln(out, renderStatusLine("Last error", statusError, lastErr, colorize))
		}

		rows := buildSceneStatusRows(snap)
		if len(rows) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Scene", "Type", "Shots", "Images", "Videos", "Composed"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
		}
	})
}

func countsKind(counts state.GenerationCounts) statusKind {
	switch {
	case counts.Error > 0:
		return statusError
	case counts.Total > 0 && counts.Complete == counts.Total:
		return statusOK
	default:
		return statusInfo
	}
}

func buildSceneStatusRows(snap *state.Snapshot) [][]string {
	var rows [][]string
	for _, chapter := range snap.Tree.Chapters {
		for _, scene := range chapter.Scenes {
			images, videos := 0, 0
			for _, shot := range scene.Shots {
				if shot.GenerationStatus == "complete" {
					images++
				}
				if shot.VideoGenerationStatus == "complete" {
					videos++
				}
			}
			composed := ""
			if path, ok := snap.ComposedScenes[scene.ID]; ok && path != "" {
				composed = path
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", scene.ID),
				scene.SceneType,
				fmt.Sprintf("%d", len(scene.Shots)),
				fmt.Sprintf("%d/%d", images, len(scene.Shots)),
				fmt.Sprintf("%d/%d", videos, len(scene.Shots)),
				truncate(strings.TrimSpace(composed), 40),
			})
		}
	}
	return rows
}

// saveDashSnapshot mirrors the final in-memory state so `story show --cached`
// reflects what the dashboard last saw.
func saveDashSnapshot(ctx *commandContext, store *state.Store) {
	mirrorStore, err := ctx.openMirror()
	if err != nil || mirrorStore == nil {
		return
	}
	defer mirrorStore.Close()
	store.ReadSnapshot(func(snap *state.Snapshot) {
		if snap == nil || snap.Tree == nil {
			return
		}
		_ = mirrorStore.SaveSnapshot(context.Background(), snap)
	})
}
