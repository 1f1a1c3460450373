package api

import (
	"context"
	"fmt"
)

// CreateStoryRequest is the payload for creating a story.
type CreateStoryRequest struct {
	Title       string `json:"title"`
	RawText     string `json:"raw_text"`
	VisualStyle string `json:"visual_style,omitempty"`
	MusicStyle  string `json:"music_style,omitempty"`
}

// StoryPatch updates story fields by name; nil fields are not sent.
type StoryPatch struct {
	Title       *string              `json:"title,omitempty"`
	VisualStyle *string              `json:"visual_style,omitempty"`
	ColorScript *map[string][]string `json:"color_script,omitempty"`
	MusicStyle  *string              `json:"music_style,omitempty"`
}

// ListStories returns all stories, newest first.
func (c *Client) ListStories(ctx context.Context) ([]Story, error) {
	var stories []Story
	if err := c.get(ctx, "/api/stories", &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// CreateStory creates a new story from raw text.
func (c *Client) CreateStory(ctx context.Context, req CreateStoryRequest) (*Story, error) {
	var story Story
	if err := c.post(ctx, "/api/stories", req, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// GetStory fetches a single story record.
func (c *Client) GetStory(ctx context.Context, storyID int64) (*Story, error) {
	var story Story
	if err := c.get(ctx, fmt.Sprintf("/api/stories/%d", storyID), &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// UpdateStory PATCHes the provided fields.
func (c *Client) UpdateStory(ctx context.Context, storyID int64, patch StoryPatch) (*Story, error) {
	var story Story
	if err := c.patch(ctx, fmt.Sprintf("/api/stories/%d", storyID), patch, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// DeleteStory removes a story and its entire tree.
func (c *Client) DeleteStory(ctx context.Context, storyID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/stories/%d", storyID))
}

// GetStoryTree fetches the story with all chapters, scenes, and shots.
func (c *Client) GetStoryTree(ctx context.Context, storyID int64) (*StoryTree, error) {
	var tree StoryTree
	if err := c.get(ctx, fmt.Sprintf("/api/stories/%d/full", storyID), &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}
