package api

// Server-owned records mirrored client-side. Field sets follow the backend's
// JSON; this layer never invents fields, it only displays and PATCHes them.

// Story is the top-level narrative unit.
type Story struct {
	ID           int64               `json:"id"`
	Title        string              `json:"title"`
	RawText      string              `json:"raw_text"`
	VisualStyle  string              `json:"visual_style"`
	ColorScript  map[string][]string `json:"color_script"`
	MusicStyle   string              `json:"music_style"`
	Status       string              `json:"status"`
	CreatedAt    string              `json:"created_at"`
	ChapterCount int                 `json:"chapter_count"`
	SceneCount   int                 `json:"scene_count"`
	ShotCount    int                 `json:"shot_count"`
}

// Chapter groups scenes inside a story.
type Chapter struct {
	ID         int64   `json:"id"`
	StoryID    int64   `json:"story_id"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	OrderIndex int     `json:"order_index"`
	SourceText string  `json:"source_text"`
	SceneCount int     `json:"scene_count"`
	Scenes     []Scene `json:"scenes,omitempty"`
}

// Scene is a goal/conflict/outcome unit (or a sequel: emotion/logic/decision).
type Scene struct {
	ID             int64   `json:"id"`
	ChapterID      int64   `json:"chapter_id"`
	OrderIndex     int     `json:"order_index"`
	SceneType      string  `json:"scene_type"`
	SourceText     string  `json:"source_text"`
	Goal           string  `json:"goal"`
	Conflict       string  `json:"conflict"`
	Outcome        string  `json:"outcome"`
	Emotion        string  `json:"emotion"`
	Logic          string  `json:"logic"`
	Decision       string  `json:"decision"`
	OpeningEmotion string  `json:"opening_emotion"`
	ClosingEmotion string  `json:"closing_emotion"`
	Intensity      float64 `json:"intensity"`
	TargetDuration int     `json:"target_duration"`
	ShotCount      int     `json:"shot_count"`
	Shots          []Shot  `json:"shots,omitempty"`
}

// Shot carries the full visual and musical direction for one generated clip.
type Shot struct {
	ID                    int64    `json:"id"`
	SceneID               int64    `json:"scene_id"`
	OrderIndex            int      `json:"order_index"`
	Description           string   `json:"description"`
	Dialogue              string   `json:"dialogue"`
	ShotType              string   `json:"shot_type"`
	CameraMovement        string   `json:"camera_movement"`
	CameraMovementDetail  string   `json:"camera_movement_detail"`
	ColorPalette          []string `json:"color_palette"`
	ColorMood             string   `json:"color_mood"`
	Lighting              string   `json:"lighting"`
	MusicTempo            string   `json:"music_tempo"`
	MusicMood             string   `json:"music_mood"`
	MusicInstruments      string   `json:"music_instruments"`
	MusicNote             string   `json:"music_note"`
	Duration              float64  `json:"duration"`
	TransitionType        string   `json:"transition_type"`
	TransitionDuration    float64  `json:"transition_duration"`
	ImagePrompt           string   `json:"image_prompt"`
	GenerationStatus      string   `json:"generation_status"`
	VideoPrompt           string   `json:"video_prompt,omitempty"`
	VideoGenerationStatus string   `json:"video_generation_status,omitempty"`
	CurrentImage          *Asset   `json:"current_image,omitempty"`
}

// Asset is a generated file attached to a shot (image, video, or composed scene).
type Asset struct {
	ID               int64          `json:"id"`
	ShotID           int64          `json:"shot_id"`
	AssetType        string         `json:"asset_type"`
	FilePath         string         `json:"file_path"`
	GenerationParams map[string]any `json:"generation_params,omitempty"`
	IsCurrent        bool           `json:"is_current"`
	CreatedAt        string         `json:"created_at"`
}

// StoryTree is the full Story→Chapter→Scene→Shot hierarchy.
type StoryTree struct {
	Story
	Chapters []Chapter `json:"chapters"`
}

// WorldBible holds the recurring elements reused across generated images.
type WorldBible struct {
	ID          int64        `json:"id"`
	StoryID     int64        `json:"story_id"`
	Characters  []Character  `json:"characters"`
	Locations   []Location   `json:"locations"`
	Props       []Prop       `json:"props"`
	CameraBible *CameraBible `json:"camera_bible,omitempty"`
}

// Character is a recurring person in the world bible.
type Character struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	Role                string      `json:"role"`
	AgeAppearance       string      `json:"age_appearance"`
	GenderPresentation  string      `json:"gender_presentation"`
	BodyType            string      `json:"body_type"`
	FaceDescription     string      `json:"face_description"`
	Hair                string      `json:"hair"`
	Skin                string      `json:"skin"`
	ClothingDefault     string      `json:"clothing_default"`
	DistinctiveFeatures string      `json:"distinctive_features"`
	Demeanor            string      `json:"demeanor"`
	PromptDescription   string      `json:"prompt_description"`
	References          []Reference `json:"references,omitempty"`
}

// Location is a recurring place in the world bible.
type Location struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	LocationType       string      `json:"location_type"`
	Description        string      `json:"description"`
	ArchitecturalStyle string      `json:"architectural_style"`
	LightingDefault    string      `json:"lighting_default"`
	Atmosphere         string      `json:"atmosphere"`
	TimeOfDay          string      `json:"time_of_day"`
	KeyObjects         string      `json:"key_objects"`
	PromptDescription  string      `json:"prompt_description"`
	References         []Reference `json:"references,omitempty"`
}

// Prop is a recurring object in the world bible.
type Prop struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	Description       string      `json:"description"`
	VisualDetails     string      `json:"visual_details"`
	Scale             string      `json:"scale"`
	MaterialNotes     string      `json:"material_notes"`
	PromptDescription string      `json:"prompt_description"`
	References        []Reference `json:"references,omitempty"`
}

// CameraBible is the story-wide camera style profile injected into prompts.
type CameraBible struct {
	ID                 int64  `json:"id"`
	LensStyle          string `json:"lens_style"`
	FilmStock          string `json:"film_stock"`
	ColorGrading       string `json:"color_grading"`
	LightingPhilosophy string `json:"lighting_philosophy"`
	MovementPhilosophy string `json:"movement_philosophy"`
	ReferenceFilms     string `json:"reference_films"`
	PromptPrefix       string `json:"prompt_prefix"`
}

// Reference is a generated reference image for a world bible entity.
type Reference struct {
	ID         int64  `json:"id"`
	RefType    string `json:"ref_type"`
	FilePath   string `json:"file_path"`
	PromptUsed string `json:"prompt_used"`
	IsApproved bool   `json:"is_approved"`
}
