package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storybook/internal/api"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "segment <story-id>",
		Short: "Segment a story into chapters and scenes",
		Long:  "Segment a story into chapters and scenes. Re-segmenting replaces the existing chapter tree.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.SegmentStory(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Segmented story %d into %d chapters\n", storyID, result.Chapters)
				return nil
			})
		},
	}
}

func newBreakdownCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "breakdown <scene-id> | breakdown --all <story-id>",
		Short: "Break scenes down into shots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				storyID, err := parseID(args[0], "story")
				if err != nil {
					return err
				}
				return ctx.withClient(func(client *api.Client) error {
					result, err := client.BreakdownAll(cmd.Context(), storyID)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Broke story %d down into %d shots\n", storyID, result.TotalShots)
					return nil
				})
			}

			sceneID, err := parseID(args[0], "scene")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.BreakdownScene(cmd.Context(), sceneID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Broke scene %d down into %d shots\n", sceneID, result.Shots)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Break down every scene of a story")
	return cmd
}

func newPromptsCommand(ctx *commandContext) *cobra.Command {
	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "Image prompt utilities",
	}

	promptsCmd.AddCommand(&cobra.Command{
		Use:   "build <story-id>",
		Short: "Build image prompts for every shot, injecting the world bible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.BuildPrompts(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Built %d image prompts\n", result.PromptsBuilt)
				return nil
			})
		},
	})

	return promptsCmd
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Trigger image and video generation",
		Long: "Trigger image and video generation. Generation runs asynchronously on the " +
			"backend; follow progress with `storybook watch` or `storybook dash`.",
	}

	generateCmd.AddCommand(&cobra.Command{
		Use:   "shot <shot-id>",
		Short: "Generate the image for one shot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shotID, err := parseID(args[0], "shot")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.GenerateShot(cmd.Context(), shotID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generating image for shot %d\n", result.ShotID)
				return nil
			})
		},
	})

	generateCmd.AddCommand(&cobra.Command{
		Use:   "all <story-id>",
		Short: "Generate images for every shot of a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.GenerateAll(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generating %d shot images\n", result.Generating)
				return nil
			})
		},
	})

	generateCmd.AddCommand(&cobra.Command{
		Use:   "video <shot-id>",
		Short: "Generate the video clip for one shot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shotID, err := parseID(args[0], "shot")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.GenerateShotVideo(cmd.Context(), shotID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generating video for shot %d\n", result.ShotID)
				return nil
			})
		},
	})

	generateCmd.AddCommand(&cobra.Command{
		Use:   "scene-videos <scene-id>",
		Short: "Generate videos for a scene's shots as a continuous sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sceneID, err := parseID(args[0], "scene")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.GenerateSceneVideos(cmd.Context(), sceneID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generating %d videos for scene %d\n", result.Shots, result.SceneID)
				return nil
			})
		},
	})

	generateCmd.AddCommand(&cobra.Command{
		Use:   "all-videos <story-id>",
		Short: "Generate videos for every scene of a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.GenerateAllVideos(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generating %d videos across %d scenes\n", result.TotalShots, result.Scenes)
				return nil
			})
		},
	})

	return generateCmd
}

func newComposeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compose <scene-id>",
		Short: "Compose a scene's shot videos into one clip with transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sceneID, err := parseID(args[0], "scene")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.ComposeScene(cmd.Context(), sceneID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Composing scene %d; completion arrives on the progress stream\n", result.SceneID)
				return nil
			})
		},
	}
}
