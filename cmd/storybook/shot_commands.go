package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storybook/internal/api"
)

func newShotCommand(ctx *commandContext) *cobra.Command {
	shotCmd := &cobra.Command{
		Use:   "shot",
		Short: "Inspect and edit individual shots",
	}

	shotCmd.AddCommand(newShotShowCommand(ctx))
	shotCmd.AddCommand(newShotSetCommand(ctx))
	shotCmd.AddCommand(newShotReorderCommand(ctx))

	return shotCmd
}

func newShotShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <shot-id>",
		Short: "Show one shot's full direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shotID, err := parseID(args[0], "shot")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				shot, err := client.GetShot(cmd.Context(), shotID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, shot)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(buildShotDetail(shot)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newShotSetCommand(ctx *commandContext) *cobra.Command {
	var (
		description    string
		dialogue       string
		shotType       string
		cameraMovement string
		colorMood      string
		lighting       string
		musicMood      string
		duration       float64
		transitionType string
		imagePrompt    string
	)

	cmd := &cobra.Command{
		Use:   "set <shot-id>",
		Short: "Update shot fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shotID, err := parseID(args[0], "shot")
			if err != nil {
				return err
			}

			var patch api.ShotPatch
			changed := false
			set := func(flag string, assign func()) {
				if cmd.Flags().Changed(flag) {
					assign()
					changed = true
				}
			}
			set("description", func() { patch.Description = &description })
			set("dialogue", func() { patch.Dialogue = &dialogue })
			set("type", func() { patch.ShotType = &shotType })
			set("camera", func() { patch.CameraMovement = &cameraMovement })
			set("color-mood", func() { patch.ColorMood = &colorMood })
			set("lighting", func() { patch.Lighting = &lighting })
			set("music-mood", func() { patch.MusicMood = &musicMood })
			set("duration", func() { patch.Duration = &duration })
			set("transition", func() { patch.TransitionType = &transitionType })
			set("image-prompt", func() { patch.ImagePrompt = &imagePrompt })
			if !changed {
				return errors.New("no fields to update; see --help for available flags")
			}

			return ctx.withClient(func(client *api.Client) error {
				shot, err := client.UpdateShot(cmd.Context(), shotID, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated shot %d\n", shot.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Shot description")
	cmd.Flags().StringVar(&dialogue, "dialogue", "", "Dialogue or narration")
	cmd.Flags().StringVar(&shotType, "type", "", "Shot type (wide, medium, close_up, ...)")
	cmd.Flags().StringVar(&cameraMovement, "camera", "", "Camera movement")
	cmd.Flags().StringVar(&colorMood, "color-mood", "", "Color mood")
	cmd.Flags().StringVar(&lighting, "lighting", "", "Lighting direction")
	cmd.Flags().StringVar(&musicMood, "music-mood", "", "Music mood")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Duration in seconds")
	cmd.Flags().StringVar(&transitionType, "transition", "", "Transition into the next shot")
	cmd.Flags().StringVar(&imagePrompt, "image-prompt", "", "Override the built image prompt")
	return cmd
}

func newShotReorderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <shot-id> [<shot-id>...]",
		Short: "Reorder shots within their scene",
		Long:  "Reorder shots within their scene. Pass every shot ID of the scene in the desired order.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shotIDs := make([]int64, 0, len(args))
			seen := make(map[int64]bool, len(args))
			for _, arg := range args {
				id, err := parseID(arg, "shot")
				if err != nil {
					return err
				}
				if seen[id] {
					return fmt.Errorf("shot %d listed twice", id)
				}
				seen[id] = true
				shotIDs = append(shotIDs, id)
			}

			return ctx.withClient(func(client *api.Client) error {
				if err := client.ReorderShots(cmd.Context(), shotIDs); err != nil {
					return err
				}
				labels := make([]string, len(shotIDs))
				for i, id := range shotIDs {
					labels[i] = fmt.Sprintf("%d", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reordered shots: %s\n", strings.Join(labels, ", "))
				return nil
			})
		},
	}
}
