package progress

import (
	"encoding/json"
	"fmt"
	"strings"

	"storybook/internal/api"
)

// Event types pushed by the backend on /ws/progress.
const (
	TypeShotProgress          = "shot_progress"
	TypeBreakdownProgress     = "breakdown_progress"
	TypeVideoProgress         = "video_progress"
	TypeExtractionProgress    = "extraction_progress"
	TypeReferenceProgress     = "reference_progress"
	TypeShotMapProgress       = "shot_map_progress"
	TypeGenerationComplete    = "generation_complete"
	TypeVideoGenComplete      = "video_generation_complete"
	TypeVideoGenSceneComplete = "video_generation_scene_complete"
	TypeCompositionComplete   = "composition_complete"
	TypeAllReferencesComplete = "all_references_complete"
)

// Statuses carried by progress events.
const (
	StatusGenerating = "generating"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Event is the union of every message the backend broadcasts. Only the fields
// matching the Type tag are populated.
type Event struct {
	Type         string          `json:"type"`
	StoryID      int64           `json:"story_id,omitempty"`
	SceneID      int64           `json:"scene_id,omitempty"`
	ShotID       int64           `json:"shot_id,omitempty"`
	Status       string          `json:"status,omitempty"`
	Step         string          `json:"step,omitempty"`
	Error        string          `json:"error,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Image        *api.Asset      `json:"image,omitempty"`
	Video        *api.Asset      `json:"video,omitempty"`
	ShotMap      *api.Asset      `json:"shot_map,omitempty"`
	WorldBible   *api.WorldBible `json:"world_bible,omitempty"`
	EntityType   string          `json:"entity_type,omitempty"`
	EntityID     int64           `json:"entity_id,omitempty"`
	RefType      string          `json:"ref_type,omitempty"`
	SceneShotIDs []int64         `json:"scene_shot_ids,omitempty"`
	VideoPath    string          `json:"video_path,omitempty"`
	Total        int             `json:"total,omitempty"`
}

// Decode parses one WebSocket text frame into an Event.
func Decode(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, fmt.Errorf("decode progress event: %w", err)
	}
	if strings.TrimSpace(evt.Type) == "" {
		return Event{}, fmt.Errorf("progress event missing type tag")
	}
	return evt, nil
}

// Failure returns the event's error text, preferring the explicit error
// fields over the status.
func (e Event) Failure() string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return e.Error
}

// Summary renders a one-line human description, used by `storybook watch`.
func (e Event) Summary() string {
	switch e.Type {
	case TypeShotProgress:
		return fmt.Sprintf("shot %d image %s%s", e.ShotID, e.Status, failureSuffix(e))
	case TypeVideoProgress:
		return fmt.Sprintf("shot %d video %s%s", e.ShotID, e.Status, failureSuffix(e))
	case TypeBreakdownProgress:
		return fmt.Sprintf("scene %d breakdown %s%s", e.SceneID, e.Status, failureSuffix(e))
	case TypeExtractionProgress:
		if e.Step != "" {
			return fmt.Sprintf("world bible extraction: %s", e.Step)
		}
		return fmt.Sprintf("world bible extraction %s%s", e.Status, failureSuffix(e))
	case TypeReferenceProgress:
		return fmt.Sprintf("%s %d reference %q %s", e.EntityType, e.EntityID, e.RefType, e.Status)
	case TypeShotMapProgress:
		return fmt.Sprintf("scene %d shot map %s%s", e.SceneID, e.Status, failureSuffix(e))
	case TypeGenerationComplete:
		return "image generation complete"
	case TypeVideoGenComplete:
		return "video generation complete"
	case TypeVideoGenSceneComplete:
		return fmt.Sprintf("scene video sequence complete (%d shots)", len(e.SceneShotIDs))
	case TypeCompositionComplete:
		return fmt.Sprintf("scene %d composed: %s", e.SceneID, e.VideoPath)
	case TypeAllReferencesComplete:
		return fmt.Sprintf("all world bible references complete for story %d", e.StoryID)
	default:
		return fmt.Sprintf("unknown event %q", e.Type)
	}
}

func failureSuffix(e Event) string {
	if e.Status != StatusError {
		return ""
	}
	if msg := e.Failure(); msg != "" {
		return ": " + msg
	}
	return ""
}
