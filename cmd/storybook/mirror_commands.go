package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newMirrorCommand(ctx *commandContext) *cobra.Command {
	mirrorCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect the local snapshot cache",
	}

	mirrorCmd.AddCommand(newMirrorListCommand(ctx))
	mirrorCmd.AddCommand(newMirrorPruneCommand(ctx))

	return mirrorCmd
}

func newMirrorListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached story snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openMirror()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("mirroring is disabled; enable [mirror] in the config")
			}
			defer store.Close()

			entries, err := store.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Mirror is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					fmt.Sprintf("%d", entry.StoryID),
					truncate(entry.Title, 40),
					formatStatusLabel(entry.Status),
					entry.FetchedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			out := renderTable(
				[]string{"Story", "Title", "Status", "Fetched"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newMirrorPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop all but the most recently fetched snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openMirror()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("mirroring is disabled; enable [mirror] in the config")
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d snapshots, kept the newest %d\n", removed, keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 5, "How many snapshots to keep")
	return cmd
}
