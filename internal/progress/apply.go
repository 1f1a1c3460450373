package progress

import (
	"storybook/internal/state"
)

// Apply patches the shared state store from one progress event and reports
// whether anything changed. Events referencing records the snapshot does not
// hold are ignored.
func Apply(store *state.Store, evt Event) bool {
	if store == nil {
		return false
	}

	if evt.Status == StatusError {
		if msg := evt.Failure(); msg != "" {
			store.SetLastError(msg)
		}
	}

	switch evt.Type {
	case TypeShotProgress:
		return store.UpdateSnapshot(func(snap *state.Snapshot) bool {
			if evt.Image != nil {
				return snap.AttachImage(evt.ShotID, evt.Image)
			}
			return snap.SetShotStatus(evt.ShotID, evt.Status)
		})

	case TypeVideoProgress:
		return store.UpdateSnapshot(func(snap *state.Snapshot) bool {
			return snap.SetShotVideoStatus(evt.ShotID, evt.Status)
		})

	case TypeVideoGenSceneComplete:
		return store.UpdateSnapshot(func(snap *state.Snapshot) bool {
			changed := false
			for _, shotID := range evt.SceneShotIDs {
				if snap.SetShotVideoStatus(shotID, StatusComplete) {
					changed = true
				}
			}
			return changed
		})

	case TypeExtractionProgress:
		switch {
		case evt.Step != "":
			store.SetExtraction(evt.Step)
		case evt.Status != "":
			store.SetExtraction(evt.Status)
		}
		if evt.WorldBible != nil {
			store.UpdateSnapshot(func(snap *state.Snapshot) bool {
				if snap == nil {
					return false
				}
				snap.Bible = evt.WorldBible
				return true
			})
		}
		return true

	case TypeCompositionComplete:
		return store.UpdateSnapshot(func(snap *state.Snapshot) bool {
			return snap.SetComposedScene(evt.SceneID, evt.VideoPath)
		})

	case TypeBreakdownProgress, TypeShotMapProgress, TypeReferenceProgress,
		TypeGenerationComplete, TypeVideoGenComplete, TypeAllReferencesComplete:
		// Nothing structural to patch; listeners react through the event callback.
		return false
	}

	return false
}
