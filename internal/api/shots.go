package api

import (
	"context"
	"fmt"
)

// ShotPatch updates shot fields by name; nil fields are not sent.
type ShotPatch struct {
	Description          *string   `json:"description,omitempty"`
	Dialogue             *string   `json:"dialogue,omitempty"`
	ShotType             *string   `json:"shot_type,omitempty"`
	CameraMovement       *string   `json:"camera_movement,omitempty"`
	CameraMovementDetail *string   `json:"camera_movement_detail,omitempty"`
	ColorPalette         *[]string `json:"color_palette,omitempty"`
	ColorMood            *string   `json:"color_mood,omitempty"`
	Lighting             *string   `json:"lighting,omitempty"`
	MusicTempo           *string   `json:"music_tempo,omitempty"`
	MusicMood            *string   `json:"music_mood,omitempty"`
	MusicInstruments     *string   `json:"music_instruments,omitempty"`
	MusicNote            *string   `json:"music_note,omitempty"`
	Duration             *float64  `json:"duration,omitempty"`
	TransitionType       *string   `json:"transition_type,omitempty"`
	TransitionDuration   *float64  `json:"transition_duration,omitempty"`
	ImagePrompt          *string   `json:"image_prompt,omitempty"`
}

// GetShot fetches a single shot record.
func (c *Client) GetShot(ctx context.Context, shotID int64) (*Shot, error) {
	var shot Shot
	if err := c.get(ctx, fmt.Sprintf("/api/shots/%d", shotID), &shot); err != nil {
		return nil, err
	}
	return &shot, nil
}

// UpdateShot PATCHes the provided fields.
func (c *Client) UpdateShot(ctx context.Context, shotID int64, patch ShotPatch) (*Shot, error) {
	var shot Shot
	if err := c.patch(ctx, fmt.Sprintf("/api/shots/%d", shotID), patch, &shot); err != nil {
		return nil, err
	}
	return &shot, nil
}

// ReorderShots rewrites shot order indexes to match the given ID sequence.
func (c *Client) ReorderShots(ctx context.Context, shotIDs []int64) error {
	body := struct {
		ShotIDs []int64 `json:"shot_ids"`
	}{ShotIDs: shotIDs}
	return c.post(ctx, "/api/shots/reorder", body, nil)
}
