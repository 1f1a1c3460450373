package api

import (
	"context"
	"fmt"
)

// BuildPromptsResult reports how many image prompts were built.
type BuildPromptsResult struct {
	OK           bool `json:"ok"`
	PromptsBuilt int  `json:"prompts_built"`
}

// GenerateResult acknowledges a queued single-shot generation.
type GenerateResult struct {
	OK     bool  `json:"ok"`
	ShotID int64 `json:"shot_id"`
}

// GenerateAllResult acknowledges a queued whole-story image generation.
type GenerateAllResult struct {
	OK         bool `json:"ok"`
	Generating int  `json:"generating"`
}

// SceneVideosResult acknowledges a queued scene video sequence.
type SceneVideosResult struct {
	OK      bool  `json:"ok"`
	SceneID int64 `json:"scene_id"`
	Shots   int   `json:"shots"`
}

// AllVideosResult acknowledges a queued whole-story video generation.
type AllVideosResult struct {
	OK         bool `json:"ok"`
	Scenes     int  `json:"scenes"`
	TotalShots int  `json:"total_shots"`
}

// BuildPrompts builds image prompts for every shot in the story, injecting the
// world bible for consistency.
func (c *Client) BuildPrompts(ctx context.Context, storyID int64) (*BuildPromptsResult, error) {
	var result BuildPromptsResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/build-prompts", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateShot queues image generation for one shot. Progress arrives on the
// WebSocket channel as shot_progress events.
func (c *Client) GenerateShot(ctx context.Context, shotID int64) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.post(ctx, fmt.Sprintf("/api/shots/%d/generate", shotID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateAll queues image generation for every shot with a prompt.
func (c *Client) GenerateAll(ctx context.Context, storyID int64) (*GenerateAllResult, error) {
	var result GenerateAllResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/generate-all", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateShotVideo queues image-to-video generation for one shot.
func (c *Client) GenerateShotVideo(ctx context.Context, shotID int64) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.post(ctx, fmt.Sprintf("/api/shots/%d/generate-video", shotID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateSceneVideos queues sequential video generation for all shots in a
// scene so the camera stays continuous across cuts.
func (c *Client) GenerateSceneVideos(ctx context.Context, sceneID int64) (*SceneVideosResult, error) {
	var result SceneVideosResult
	if err := c.post(ctx, fmt.Sprintf("/api/scenes/%d/generate-video-sequence", sceneID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateAllVideos queues video generation for the whole story. Scenes run in
// parallel on the backend; shots within a scene run sequentially.
func (c *Client) GenerateAllVideos(ctx context.Context, storyID int64) (*AllVideosResult, error) {
	var result AllVideosResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/generate-all-videos", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
