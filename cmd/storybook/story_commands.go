package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storybook/internal/api"
	"storybook/internal/state"
)

func newStoryCommand(ctx *commandContext) *cobra.Command {
	storyCmd := &cobra.Command{
		Use:   "story",
		Short: "Create and inspect stories",
	}

	storyCmd.AddCommand(newStoryListCommand(ctx))
	storyCmd.AddCommand(newStoryCreateCommand(ctx))
	storyCmd.AddCommand(newStoryShowCommand(ctx))
	storyCmd.AddCommand(newStorySetCommand(ctx))
	storyCmd.AddCommand(newStoryDeleteCommand(ctx))

	return storyCmd
}

func newStoryListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				stories, err := client.ListStories(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stories)
				}
				rows := buildStoryRows(stories)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No stories yet")
					return nil
				}
				out := renderTable(
					[]string{"ID", "Title", "Status", "Chapters", "Scenes", "Shots", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newStoryCreateCommand(ctx *commandContext) *cobra.Command {
	var title string
	var textFile string
	var visualStyle string
	var musicStyle string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a story from a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" {
				return errors.New("--title is required")
			}
			raw, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("read story text: %w", err)
			}
			if len(strings.TrimSpace(string(raw))) == 0 {
				return fmt.Errorf("story text file %s is empty", textFile)
			}

			return ctx.withClient(func(client *api.Client) error {
				story, err := client.CreateStory(cmd.Context(), api.CreateStoryRequest{
					Title:       title,
					RawText:     string(raw),
					VisualStyle: strings.TrimSpace(visualStyle),
					MusicStyle:  strings.TrimSpace(musicStyle),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created story %d: %s\n", story.ID, story.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Story title")
	cmd.Flags().StringVarP(&textFile, "file", "f", "", "Path to the story text")
	cmd.Flags().StringVar(&visualStyle, "visual-style", "", "Visual style hint")
	cmd.Flags().StringVar(&musicStyle, "music-style", "", "Music style hint")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newStoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var full bool
	var cached bool

	cmd := &cobra.Command{
		Use:   "show <story-id>",
		Short: "Show one story, optionally with its full shot tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}

			if cached {
				return showCachedStory(cmd, ctx, storyID, asJSON)
			}

			return ctx.withClient(func(client *api.Client) error {
				if !full {
					story, err := client.GetStory(cmd.Context(), storyID)
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(cmd, story)
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(buildStoryDetail(story)))
					return nil
				}

				tree, err := client.GetStoryTree(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				mirrorTree(ctx, tree)
				if asJSON {
					return writeJSON(cmd, tree)
				}
				for _, line := range buildTreeLines(tree, nil) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&full, "full", false, "Render the chapter/scene/shot tree")
	cmd.Flags().BoolVar(&cached, "cached", false, "Render from the local mirror without contacting the backend")
	return cmd
}

func showCachedStory(cmd *cobra.Command, ctx *commandContext, storyID int64, asJSON bool) error {
	store, err := ctx.openMirror()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("mirroring is disabled; enable [mirror] in the config to use --cached")
	}
	defer store.Close()

	snap, err := store.LoadSnapshot(cmd.Context(), storyID)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, snap.Tree)
	}
	for _, line := range buildTreeLines(snap.Tree, snap.ComposedScenes) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n(cached %s)\n", snap.FetchedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// mirrorTree writes the freshly fetched tree to the local mirror; failures are
// logged, never surfaced, since the fetch itself succeeded.
func mirrorTree(ctx *commandContext, tree *api.StoryTree) {
	store, err := ctx.openMirror()
	if err != nil || store == nil {
		return
	}
	defer store.Close()
	_ = store.SaveSnapshot(context.Background(), state.NewSnapshot(tree, nil))
}

func newStorySetCommand(ctx *commandContext) *cobra.Command {
	var title string
	var visualStyle string
	var musicStyle string

	cmd := &cobra.Command{
		Use:   "set <story-id>",
		Short: "Update story fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}

			var patch api.StoryPatch
			changed := false
			if cmd.Flags().Changed("title") {
				patch.Title = &title
				changed = true
			}
			if cmd.Flags().Changed("visual-style") {
				patch.VisualStyle = &visualStyle
				changed = true
			}
			if cmd.Flags().Changed("music-style") {
				patch.MusicStyle = &musicStyle
				changed = true
			}
			if !changed {
				return errors.New("no fields to update; pass --title, --visual-style, or --music-style")
			}

			return ctx.withClient(func(client *api.Client) error {
				story, err := client.UpdateStory(cmd.Context(), storyID, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated story %d\n", story.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&visualStyle, "visual-style", "", "New visual style")
	cmd.Flags().StringVar(&musicStyle, "music-style", "", "New music style")
	return cmd
}

func newStoryDeleteCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a story and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			if !force {
				return errors.New("deleting a story removes all chapters, scenes, shots, and assets; pass --force to confirm")
			}
			return ctx.withClient(func(client *api.Client) error {
				if err := client.DeleteStory(cmd.Context(), storyID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted story %d\n", storyID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation guard")
	return cmd
}

func parseID(arg, noun string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s ID %q", noun, arg)
	}
	return id, nil
}
