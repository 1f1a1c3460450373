package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storybook/internal/api"
	"storybook/internal/state"
)

var titleCaser = cases.Title(language.Und)

// formatStatusLabel turns snake_case status values into display labels,
// e.g. "prompt_ready" -> "Prompt Ready".
func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "Pending"
	}
	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

func formatDisplayTime(value string) string {
	ts := parseServerTime(value)
	if ts.IsZero() {
		return strings.TrimSpace(value)
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func parseServerTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func buildStoryRows(stories []api.Story) [][]string {
	if len(stories) == 0 {
		return nil
	}
	sorted := make([]api.Story, len(stories))
	copy(sorted, stories)
	sort.Slice(sorted, func(i, j int) bool {
		ti := parseServerTime(sorted[i].CreatedAt)
		tj := parseServerTime(sorted[j].CreatedAt)
		if ti.Equal(tj) {
			return sorted[i].ID > sorted[j].ID
		}
		return ti.After(tj)
	})

	rows := make([][]string, 0, len(sorted))
	for _, story := range sorted {
		rows = append(rows, []string{
			fmt.Sprintf("%d", story.ID),
			truncate(story.Title, 40),
			formatStatusLabel(story.Status),
			fmt.Sprintf("%d", story.ChapterCount),
			fmt.Sprintf("%d", story.SceneCount),
			fmt.Sprintf("%d", story.ShotCount),
			formatDisplayTime(story.CreatedAt),
		})
	}
	return rows
}

func buildStoryDetail(story *api.Story) [][2]string {
	pairs := [][2]string{
		{"ID", fmt.Sprintf("%d", story.ID)},
		{"Title", story.Title},
		{"Status", formatStatusLabel(story.Status)},
		{"Visual style", story.VisualStyle},
		{"Music style", story.MusicStyle},
		{"Chapters", fmt.Sprintf("%d", story.ChapterCount)},
		{"Scenes", fmt.Sprintf("%d", story.SceneCount)},
		{"Shots", fmt.Sprintf("%d", story.ShotCount)},
		{"Created", formatDisplayTime(story.CreatedAt)},
	}
	if len(story.ColorScript) > 0 {
		keys := make([]string, 0, len(story.ColorScript))
		for key := range story.ColorScript {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pairs = append(pairs, [2]string{"Color script", strings.Join(keys, ", ")})
	}
	return pairs
}

// buildTreeLines flattens the story hierarchy into indented lines for
// `story show --full`.
func buildTreeLines(tree *api.StoryTree, composed map[int64]string) []string {
	if tree == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("Story %d: %s [%s]", tree.ID, tree.Title, formatStatusLabel(tree.Status))}
	for _, chapter := range tree.Chapters {
		lines = append(lines, fmt.Sprintf("  Chapter %d: %s (%d scenes)", chapter.OrderIndex+1, chapter.Title, len(chapter.Scenes)))
		for _, scene := range chapter.Scenes {
			sceneLine := fmt.Sprintf("    Scene %d [%s] %s", scene.ID, scene.SceneType, truncate(sceneSummary(scene), 60))
			if path, ok := composed[scene.ID]; ok && path != "" {
				sceneLine += " (composed)"
			}
			lines = append(lines, sceneLine)
			for _, shot := range scene.Shots {
				marker := shotMarker(shot)
				lines = append(lines, fmt.Sprintf("      %s shot %d [%s] %s", marker, shot.ID, shot.ShotType, truncate(shot.Description, 52)))
			}
		}
	}
	return lines
}

// shotMarker gives each shot a one-char image/video progress glyph.
func shotMarker(shot api.Shot) string {
	switch {
	case shot.VideoGenerationStatus == "complete":
		return "▶"
	case shot.GenerationStatus == "complete":
		return "●"
	case shot.GenerationStatus == "error" || shot.VideoGenerationStatus == "error":
		return "✗"
	case shot.GenerationStatus == "generating" || shot.VideoGenerationStatus == "generating":
		return "◌"
	default:
		return "·"
	}
}

func sceneSummary(scene api.Scene) string {
	if scene.SceneType == "sequel" {
		return firstNonEmpty(scene.Emotion, scene.Decision, scene.SourceText)
	}
	return firstNonEmpty(scene.Goal, scene.Outcome, scene.SourceText)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func buildShotDetail(shot *api.Shot) [][2]string {
	pairs := [][2]string{
		{"ID", fmt.Sprintf("%d", shot.ID)},
		{"Scene", fmt.Sprintf("%d", shot.SceneID)},
		{"Order", fmt.Sprintf("%d", shot.OrderIndex)},
		{"Type", shot.ShotType},
		{"Description", shot.Description},
		{"Dialogue", shot.Dialogue},
		{"Camera", strings.TrimSpace(shot.CameraMovement + " " + shot.CameraMovementDetail)},
		{"Palette", strings.Join(shot.ColorPalette, ", ")},
		{"Color mood", shot.ColorMood},
		{"Lighting", shot.Lighting},
		{"Music", formatMusic(shot)},
		{"Duration", fmt.Sprintf("%.1fs", shot.Duration)},
		{"Transition", formatTransition(shot)},
		{"Image status", formatStatusLabel(shot.GenerationStatus)},
		{"Video status", formatStatusLabel(shot.VideoGenerationStatus)},
	}
	if shot.ImagePrompt != "" {
		pairs = append(pairs, [2]string{"Image prompt", truncate(shot.ImagePrompt, 100)})
	}
	if shot.CurrentImage != nil {
		pairs = append(pairs, [2]string{"Current image", shot.CurrentImage.FilePath})
	}
	return pairs
}

func formatMusic(shot *api.Shot) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{shot.MusicTempo, shot.MusicMood, shot.MusicInstruments} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, " / ")
}

func formatTransition(shot *api.Shot) string {
	if strings.TrimSpace(shot.TransitionType) == "" {
		return ""
	}
	return fmt.Sprintf("%s (%.1fs)", shot.TransitionType, shot.TransitionDuration)
}

func buildCharacterRows(characters []api.Character) [][]string {
	rows := make([][]string, 0, len(characters))
	for _, ch := range characters {
		rows = append(rows, []string{
			fmt.Sprintf("%d", ch.ID),
			ch.Name,
			ch.Role,
			truncate(ch.FaceDescription, 40),
			fmt.Sprintf("%d", countApproved(ch.References)),
		})
	}
	return rows
}

func buildLocationRows(locations []api.Location) [][]string {
	rows := make([][]string, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, []string{
			fmt.Sprintf("%d", loc.ID),
			loc.Name,
			loc.LocationType,
			truncate(loc.Atmosphere, 40),
			fmt.Sprintf("%d", countApproved(loc.References)),
		})
	}
	return rows
}

func buildPropRows(props []api.Prop) [][]string {
	rows := make([][]string, 0, len(props))
	for _, prop := range props {
		rows = append(rows, []string{
			fmt.Sprintf("%d", prop.ID),
			prop.Name,
			prop.Category,
			truncate(prop.Description, 40),
			fmt.Sprintf("%d", countApproved(prop.References)),
		})
	}
	return rows
}

func countApproved(refs []api.Reference) int {
	count := 0
	for _, ref := range refs {
		if ref.IsApproved {
			count++
		}
	}
	return count
}

func formatCounts(counts state.GenerationCounts) string {
	if counts.Total == 0 {
		return "no shots"
	}
	parts := []string{fmt.Sprintf("%d/%d complete", counts.Complete, counts.Total)}
	if counts.Generating > 0 {
		parts = append(parts, fmt.Sprintf("%d generating", counts.Generating))
	}
	if counts.Error > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", counts.Error))
	}
	return strings.Join(parts, ", ")
}
