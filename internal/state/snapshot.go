package state

import (
	"time"

	"storybook/internal/api"
)

// Snapshot mirrors the server's story tree client-side so progress events can
// patch individual records without refetching the whole hierarchy.
type Snapshot struct {
	Tree      *api.StoryTree
	Bible     *api.WorldBible
	FetchedAt time.Time

	// ComposedScenes maps scene ID to the served path of its composed video.
	ComposedScenes map[int64]string
}

// NewSnapshot wraps a freshly fetched tree.
func NewSnapshot(tree *api.StoryTree, bible *api.WorldBible) *Snapshot {
	return &Snapshot{
		Tree:           tree,
		Bible:          bible,
		FetchedAt:      time.Now().UTC(),
		ComposedScenes: make(map[int64]string),
	}
}

// FindShot returns a pointer into the tree for the given shot ID.
func (s *Snapshot) FindShot(shotID int64) *api.Shot {
	if s == nil || s.Tree == nil {
		return nil
	}
	for ci := range s.Tree.Chapters {
		for si := range s.Tree.Chapters[ci].Scenes {
			scene := &s.Tree.Chapters[ci].Scenes[si]
			for hi := range scene.Shots {
				if scene.Shots[hi].ID == shotID {
					return &scene.Shots[hi]
				}
			}
		}
	}
	return nil
}

// FindScene returns a pointer into the tree for the given scene ID.
func (s *Snapshot) FindScene(sceneID int64) *api.Scene {
	if s == nil || s.Tree == nil {
		return nil
	}
	for ci := range s.Tree.Chapters {
		for si := range s.Tree.Chapters[ci].Scenes {
			if s.Tree.Chapters[ci].Scenes[si].ID == sceneID {
				return &s.Tree.Chapters[ci].Scenes[si]
			}
		}
	}
	return nil
}

// SetShotStatus patches one shot's image generation status. Unknown shots are
// ignored per the progress contract.
func (s *Snapshot) SetShotStatus(shotID int64, status string) bool {
	shot := s.FindShot(shotID)
	if shot == nil {
		return false
	}
	shot.GenerationStatus = status
	return true
}

// SetShotVideoStatus patches one shot's video generation status.
func (s *Snapshot) SetShotVideoStatus(shotID int64, status string) bool {
	shot := s.FindShot(shotID)
	if shot == nil {
		return false
	}
	shot.VideoGenerationStatus = status
	return true
}

// AttachImage records a freshly generated image as the shot's current asset.
func (s *Snapshot) AttachImage(shotID int64, asset *api.Asset) bool {
	shot := s.FindShot(shotID)
	if shot == nil || asset == nil {
		return false
	}
	shot.CurrentImage = asset
	shot.GenerationStatus = "complete"
	return true
}

// SetComposedScene records a finished scene composition.
func (s *Snapshot) SetComposedScene(sceneID int64, videoPath string) bool {
	if s == nil || s.FindScene(sceneID) == nil {
		return false
	}
	if s.ComposedScenes == nil {
		s.ComposedScenes = make(map[int64]string)
	}
	s.ComposedScenes[sceneID] = videoPath
	return true
}

// GenerationCounts aggregates per-shot statuses for dashboard rendering.
type GenerationCounts struct {
	Total       int
	Pending     int
	PromptReady int
	Generating  int
	Complete    int
	Error       int
}

// ImageCounts tallies image generation statuses across the tree.
func (s *Snapshot) ImageCounts() GenerationCounts {
	var counts GenerationCounts
	s.eachShot(func(shot *api.Shot) {
		counts.Total++
		switch shot.GenerationStatus {
		case "pending", "":
			counts.Pending++
		case "prompt_ready":
			counts.PromptReady++
		case "generating":
			counts.Generating++
		case "complete":
			counts.Complete++
		case "error":
			counts.Error++
		}
	})
	return counts
}

// VideoCounts tallies video generation statuses across the tree.
func (s *Snapshot) VideoCounts() GenerationCounts {
	var counts GenerationCounts
	s.eachShot(func(shot *api.Shot) {
		counts.Total++
		switch shot.VideoGenerationStatus {
		case "", "pending":
			counts.Pending++
		case "generating":
			counts.Generating++
		case "complete":
			counts.Complete++
		case "error":
			counts.Error++
		}
	})
	return counts
}

func (s *Snapshot) eachShot(fn func(shot *api.Shot)) {
	if s == nil || s.Tree == nil {
		return
	}
	for ci := range s.Tree.Chapters {
		for si := range s.Tree.Chapters[ci].Scenes {
			scene := &s.Tree.Chapters[ci].Scenes[si]
			for hi := range scene.Shots {
				fn(&scene.Shots[hi])
			}
		}
	}
}
