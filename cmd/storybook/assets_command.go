package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"storybook/internal/api"
	"storybook/internal/textutil"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Download generated assets",
	}

	assetsCmd.AddCommand(newAssetsPullCommand(ctx))
	return assetsCmd
}

func newAssetsPullCommand(ctx *commandContext) *cobra.Command {
	var destDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "pull <story-id>",
		Short: "Download a story's current images into the assets directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID, err := parseID(args[0], "story")
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dir := destDir
			if dir == "" {
				dir = cfg.Paths.AssetsDir
			}

			return ctx.withClient(func(client *api.Client) error {
				tree, err := client.GetStoryTree(cmd.Context(), storyID)
				if err != nil {
					return err
				}

				storyDir := filepath.Join(dir, textutil.StoryDirName(tree.ID, tree.Title))
				if err := os.MkdirAll(storyDir, 0o755); err != nil {
					return fmt.Errorf("create asset directory %q: %w", storyDir, err)
				}

				pulled, skipped := 0, 0
				for _, chapter := range tree.Chapters {
					for _, scene := range chapter.Scenes {
						for _, shot := range scene.Shots {
							if shot.CurrentImage == nil || shot.CurrentImage.FilePath == "" {
								continue
							}
							name := textutil.AssetFileName(scene.ID, shot.ID, shot.CurrentImage.AssetType, shot.CurrentImage.FilePath)
							target := filepath.Join(storyDir, textutil.SanitizeFileName(name))
							if !overwrite {
								if _, err := os.Stat(target); err == nil {
									skipped++
									continue
								}
							}
							if err := pullFile(cmd, client, shot.CurrentImage.FilePath, target); err != nil {
								return fmt.Errorf("pull shot %d: %w", shot.ID, err)
							}
							pulled++
						}
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d assets to %s", pulled, storyDir)
				if skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%d already present)", skipped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&destDir, "dir", "d", "", "Destination directory (defaults to the configured assets dir)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-download assets that already exist locally")
	return cmd
}

func pullFile(cmd *cobra.Command, client *api.Client, servedPath, target string) error {
	body, err := client.FetchFile(cmd.Context(), servedPath)
	if err != nil {
		return err
	}
	defer body.Close()

	tmp := target + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %q: %w", tmp, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %q: %w", tmp, err)
	}
	return os.Rename(tmp, target)
}
