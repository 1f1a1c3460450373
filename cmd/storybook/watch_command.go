package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"storybook/internal/logging"
	"storybook/internal/notifications"
	"storybook/internal/progress"
	"storybook/internal/state"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var storyFilter int64

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the backend's progress stream",
		Long: "Follow the backend's progress stream, printing one line per event and " +
			"reconnecting when the connection drops. Interrupt with Ctrl-C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			store := state.NewStore()
			notifier := ctx.notifier()

			listener := progress.NewListener(
				cfg.Backend.WebSocketURL,
				store,
				logging.NewComponentLogger(ctx.ensureLogger(), "progress"),
				progress.WithEventCallback(func(evt progress.Event) {
					if storyFilter > 0 && evt.StoryID > 0 && evt.StoryID != storyFilter {
						return
					}
					printEventLine(out, evt, colorize)
					pushEventNotification(cmd.Context(), notifier, evt)
				}),
			)

			go printConnectionChanges(cmd.Context(), store, out, colorize)

			fmt.Fprintf(out, "Watching %s\n", cfg.Backend.WebSocketURL)
			err = listener.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().Int64Var(&storyFilter, "story", 0, "Only print events for one story")
	return cmd
}

func printEventLine(out io.Writer, evt progress.Event, colorize bool) {
	kind := statusKindFor(evt.Status)
	switch evt.Type {
	case progress.TypeGenerationComplete,
		progress.TypeVideoGenComplete,
		progress.TypeVideoGenSceneComplete,
		progress.TypeCompositionComplete,
		progress.TypeAllReferencesComplete:
		kind = statusOK
	}
	line := renderStatusLine(time.Now().Format("15:04:05"), kind, evt.Summary(), colorize)
	fmt.Fprintln(out, line)
}

// printConnectionChanges surfaces the reconnect loop's state transitions
// between event lines.
func printConnectionChanges(ctx context.Context, store *state.Store, out io.Writer, colorize bool) {
	changes := store.Watch(ctx)
	last := ""
	for change := range changes {
		if change.Key != state.KeyConnection {
			continue
		}
		status := store.Connection()
		if status == last {
			continue
		}
		last = status
		kind := statusInfo
		if status == state.ConnConnected {
			kind = statusOK
		} else if status == state.ConnDisconnected {
			kind = statusWarn
		}
		fmt.Fprintln(out, renderStatusLine(time.Now().Format("15:04:05"), kind, "stream "+status, colorize))
	}
}

// pushEventNotification forwards milestone events to ntfy. Send failures are
// deliberately swallowed; the console already printed the event.
func pushEventNotification(ctx context.Context, notifier notifications.Service, evt progress.Event) {
	label := ""
	if evt.StoryID != 0 {
		label = fmt.Sprintf("story %d", evt.StoryID)
	}
	switch evt.Type {
	case progress.TypeGenerationComplete:
		_ = notifier.NotifyGenerationComplete(ctx, label, evt.Total)
	case progress.TypeVideoGenComplete:
		_ = notifier.NotifyVideoComplete(ctx, label, evt.Total)
	case progress.TypeCompositionComplete:
		_ = notifier.NotifyCompositionComplete(ctx, label, evt.SceneID)
	case progress.TypeAllReferencesComplete:
		_ = notifier.NotifyReferencesComplete(ctx, label)
	case progress.TypeExtractionProgress:
		if evt.Status == progress.StatusComplete {
			_ = notifier.NotifyExtractionComplete(ctx, label)
		}
	}
	if failure := evt.Failure(); failure != "" {
		_ = notifier.NotifyError(ctx, errors.New(failure), evt.Summary())
	}
}
