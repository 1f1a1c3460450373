package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storybook/internal/api"
)

func newBibleCommand(ctx *commandContext) *cobra.Command {
	bibleCmd := &cobra.Command{
		Use:   "bible",
		Short: "Manage the world bible",
		Long: "Manage the world bible: the recurring characters, locations, props, and " +
			"camera style profile injected into every image prompt.",
	}

	bibleCmd.AddCommand(newBibleShowCommand(ctx))
	bibleCmd.AddCommand(newBibleExtractCommand(ctx))
	bibleCmd.AddCommand(newBibleSetCommand(ctx))
	bibleCmd.AddCommand(newBibleRemoveCommand(ctx))
	bibleCmd.AddCommand(newBibleRefsCommand(ctx))

	return bibleCmd
}

func newBibleShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <story-id>",
		Short: "Show a story's world bible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				bible, err := client.GetWorldBible(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, bible)
				}
				renderBible(cmd, bible)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderBible(cmd *cobra.Command, bible *api.WorldBible) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader(fmt.Sprintf("Characters (%d)", len(bible.Characters)), colorize) {
		fmt.Fprintln(out, line)
	}
	if len(bible.Characters) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Name", "Role", "Face", "Approved refs"},
			buildCharacterRows(bible.Characters),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	for _, line := range renderSectionHeader(fmt.Sprintf("Locations (%d)", len(bible.Locations)), colorize) {
		fmt.Fprintln(out, line)
	}
	if len(bible.Locations) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Name", "Type", "Atmosphere", "Approved refs"},
			buildLocationRows(bible.Locations),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	for _, line := range renderSectionHeader(fmt.Sprintf("Props (%d)", len(bible.Props)), colorize) {
		fmt.Fprintln(out, line)
	}
	if len(bible.Props) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Name", "Category", "Description", "Approved refs"},
			buildPropRows(bible.Props),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	if bible.CameraBible != nil {
		for _, line := range renderSectionHeader("Camera style", colorize) {
			fmt.Fprintln(out, line)
		}
		cam := bible.CameraBible
		fmt.Fprintln(out, renderKeyValues([][2]string{
			{"Lens style", cam.LensStyle},
			{"Film stock", cam.FilmStock},
			{"Color grading", cam.ColorGrading},
			{"Lighting", cam.LightingPhilosophy},
			{"Movement", cam.MovementPhilosophy},
			{"Reference films", cam.ReferenceFilms},
			{"Prompt prefix", truncate(cam.PromptPrefix, 100)},
		}))
	}
}

func newBibleExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <story-id>",
		Short: "Extract the world bible from the story text",
		Long: "Extract the world bible from the story text. Extraction runs asynchronously; " +
			"follow it with `storybook watch`. Re-extracting replaces the existing bible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				result, err := client.ExtractWorldBible(cmd.Context(), storyID)
				if err != nil {
					return err
				}
				message := result.Message
				if message == "" {
					message = fmt.Sprintf("Extracting world bible for story %d", storyID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
}

func newBibleSetCommand(ctx *commandContext) *cobra.Command {
	var (
		name        string
		description string
		promptDesc  string
		lensStyle   string
		filmStock   string
		grading     string
		prefix      string
	)

	cmd := &cobra.Command{
		Use:       "set <character|location|prop|camera> <id>",
		Short:     "Update a world bible entity",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"character", "location", "prop", "camera"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			id, err := parseID(args[1], kind)
			if err != nil {
				return err
			}

			changed := func(flag string) bool { return cmd.Flags().Changed(flag) }
			anySet := changed("name") || changed("description") || changed("prompt-description") ||
				changed("lens-style") || changed("film-stock") || changed("color-grading") || changed("prompt-prefix")
			if !anySet {
				return errors.New("no fields to update; see --help for available flags")
			}

			return ctx.withClient(func(client *api.Client) error {
				switch kind {
				case "character":
					var patch api.CharacterPatch
					if changed("name") {
						patch.Name = &name
					}
					if changed("description") {
						patch.FaceDescription = &description
					}
					if changed("prompt-description") {
						patch.PromptDescription = &promptDesc
					}
					if _, err := client.UpdateCharacter(cmd.Context(), id, patch); err != nil {
						return err
					}
				case "location":
					var patch api.LocationPatch
					if changed("name") {
						patch.Name = &name
					}
					if changed("description") {
						patch.Description = &description
					}
					if changed("prompt-description") {
						patch.PromptDescription = &promptDesc
					}
					if _, err := client.UpdateLocation(cmd.Context(), id, patch); err != nil {
						return err
					}
				case "prop":
					var patch api.PropPatch
					if changed("name") {
						patch.Name = &name
					}
					if changed("description") {
						patch.Description = &description
					}
					if changed("prompt-description") {
						patch.PromptDescription = &promptDesc
					}
					if _, err := client.UpdateProp(cmd.Context(), id, patch); err != nil {
						return err
					}
				case "camera":
					var patch api.CameraBiblePatch
					if changed("lens-style") {
						patch.LensStyle = &lensStyle
					}
					if changed("film-stock") {
						patch.FilmStock = &filmStock
					}
					if changed("color-grading") {
						patch.ColorGrading = &grading
					}
					if changed("prompt-prefix") {
						patch.PromptPrefix = &prefix
					}
					if _, err := client.UpdateCameraBible(cmd.Context(), id, patch); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown entity kind %q", kind)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d\n", kind, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Entity name")
	cmd.Flags().StringVar(&description, "description", "", "Visual description")
	cmd.Flags().StringVar(&promptDesc, "prompt-description", "", "Compact description injected into prompts")
	cmd.Flags().StringVar(&lensStyle, "lens-style", "", "Camera lens style")
	cmd.Flags().StringVar(&filmStock, "film-stock", "", "Film stock emulation")
	cmd.Flags().StringVar(&grading, "color-grading", "", "Color grading direction")
	cmd.Flags().StringVar(&prefix, "prompt-prefix", "", "Prefix prepended to every image prompt")
	return cmd
}

func newBibleRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "rm <character|location|prop> <id>",
		Short:     "Remove a world bible entity",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"character", "location", "prop"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			id, err := parseID(args[1], kind)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				switch kind {
				case "character":
					err = client.DeleteCharacter(cmd.Context(), id)
				case "location":
					err = client.DeleteLocation(cmd.Context(), id)
				case "prop":
					err = client.DeleteProp(cmd.Context(), id)
				default:
					return fmt.Errorf("unknown entity kind %q", kind)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %d\n", kind, id)
				return nil
			})
		},
	}
}

func newBibleRefsCommand(ctx *commandContext) *cobra.Command {
	refsCmd := &cobra.Command{
		Use:   "refs",
		Short: "Generate and approve reference images",
	}

	var all bool
	generateCmd := &cobra.Command{
		Use:   "generate <character|location|prop> <id> | generate --all <story-id>",
		Short: "Generate reference images",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) != 1 {
					return errors.New("--all takes a single story ID")
				}
				storyID, err := parseID(args[0], "story")
				if err != nil {
					return err
				}
				return ctx.withClient(func(client *api.Client) error {
					result, err := client.GenerateAllReferences(cmd.Context(), storyID)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Generating %d reference images\n", result.Total)
					return nil
				})
			}

			if len(args) != 2 {
				return errors.New("expected an entity kind and ID, or --all with a story ID")
			}
			kind := args[0]
			id, err := parseID(args[1], kind)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				var result *api.ReferencesResult
				switch kind {
				case "character":
					result, err = client.GenerateCharacterReferences(cmd.Context(), id)
				case "location":
					result, err = client.GenerateLocationReferences(cmd.Context(), id)
				case "prop":
					result, err = client.GeneratePropReferences(cmd.Context(), id)
				default:
					return fmt.Errorf("unknown entity kind %q", kind)
				}
				if err != nil {
					return err
				}
				message := result.Message
				if message == "" {
					message = fmt.Sprintf("Generating references for %s %d", kind, id)
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
	generateCmd.Flags().BoolVar(&all, "all", false, "Generate references for every entity of a story")

	approveCmd := &cobra.Command{
		Use:       "approve <character|location|prop> <reference-id>",
		Short:     "Approve a reference image for use in prompts",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"character", "location", "prop"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			refID, err := parseID(args[1], "reference")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				var ref *api.Reference
				switch kind {
				case "character":
					ref, err = client.ApproveCharacterReference(cmd.Context(), refID)
				case "location":
					ref, err = client.ApproveLocationReference(cmd.Context(), refID)
				case "prop":
					ref, err = client.ApprovePropReference(cmd.Context(), refID)
				default:
					return fmt.Errorf("unknown entity kind %q", kind)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Approved %s reference %d (%s)\n", kind, ref.ID, ref.RefType)
				return nil
			})
		},
	}

	refsCmd.AddCommand(generateCmd)
	refsCmd.AddCommand(approveCmd)
	return refsCmd
}
