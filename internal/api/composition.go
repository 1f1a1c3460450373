package api

import (
	"context"
	"fmt"
)

// ComposeResult acknowledges a queued scene composition.
type ComposeResult struct {
	OK      bool  `json:"ok"`
	SceneID int64 `json:"scene_id"`
}

// ComposeScene queues composition of a scene's shots into a single video with
// transitions. Completion arrives as a composition_complete event.
func (c *Client) ComposeScene(ctx context.Context, sceneID int64) (*ComposeResult, error) {
	var result ComposeResult
	if err := c.post(ctx, fmt.Sprintf("/api/scenes/%d/compose", sceneID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
