package api

import (
	"context"
	"fmt"
)

// SegmentResult reports a completed segmentation run.
type SegmentResult struct {
	OK       bool `json:"ok"`
	Chapters int  `json:"chapters"`
}

// BreakdownResult reports a completed single-scene breakdown.
type BreakdownResult struct {
	OK    bool `json:"ok"`
	Shots int  `json:"shots"`
}

// BreakdownAllResult reports a completed whole-story breakdown.
type BreakdownAllResult struct {
	OK         bool `json:"ok"`
	TotalShots int  `json:"total_shots"`
}

// SegmentStory asks the backend to segment a story into chapters and scenes.
// Re-segmenting replaces the existing chapter tree.
func (c *Client) SegmentStory(ctx context.Context, storyID int64) (*SegmentResult, error) {
	var result SegmentResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/segment", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BreakdownScene asks the backend to break one scene into shots.
func (c *Client) BreakdownScene(ctx context.Context, sceneID int64) (*BreakdownResult, error) {
	var result BreakdownResult
	if err := c.post(ctx, fmt.Sprintf("/api/scenes/%d/breakdown", sceneID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BreakdownAll breaks down every scene in the story that has no shots yet.
func (c *Client) BreakdownAll(ctx context.Context, storyID int64) (*BreakdownAllResult, error) {
	var result BreakdownAllResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/breakdown-all", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
