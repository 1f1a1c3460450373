package api

import (
	"context"
	"fmt"
)

// ExtractResult acknowledges a started world bible extraction. Progress
// arrives as extraction_progress events.
type ExtractResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ReferencesResult acknowledges queued reference image generation.
type ReferencesResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Total   int    `json:"total,omitempty"`
}

// CharacterPatch updates character fields by name; nil fields are not sent.
type CharacterPatch struct {
	Name                *string `json:"name,omitempty"`
	Role                *string `json:"role,omitempty"`
	AgeAppearance       *string `json:"age_appearance,omitempty"`
	GenderPresentation  *string `json:"gender_presentation,omitempty"`
	BodyType            *string `json:"body_type,omitempty"`
	FaceDescription     *string `json:"face_description,omitempty"`
	Hair                *string `json:"hair,omitempty"`
	Skin                *string `json:"skin,omitempty"`
	ClothingDefault     *string `json:"clothing_default,omitempty"`
	DistinctiveFeatures *string `json:"distinctive_features,omitempty"`
	Demeanor            *string `json:"demeanor,omitempty"`
	PromptDescription   *string `json:"prompt_description,omitempty"`
}

// LocationPatch updates location fields by name; nil fields are not sent.
type LocationPatch struct {
	Name               *string `json:"name,omitempty"`
	LocationType       *string `json:"location_type,omitempty"`
	Description        *string `json:"description,omitempty"`
	ArchitecturalStyle *string `json:"architectural_style,omitempty"`
	LightingDefault    *string `json:"lighting_default,omitempty"`
	Atmosphere         *string `json:"atmosphere,omitempty"`
	TimeOfDay          *string `json:"time_of_day,omitempty"`
	KeyObjects         *string `json:"key_objects,omitempty"`
	PromptDescription  *string `json:"prompt_description,omitempty"`
}

// PropPatch updates prop fields by name; nil fields are not sent.
type PropPatch struct {
	Name              *string `json:"name,omitempty"`
	Category          *string `json:"category,omitempty"`
	Description       *string `json:"description,omitempty"`
	VisualDetails     *string `json:"visual_details,omitempty"`
	Scale             *string `json:"scale,omitempty"`
	MaterialNotes     *string `json:"material_notes,omitempty"`
	PromptDescription *string `json:"prompt_description,omitempty"`
}

// CameraBiblePatch updates camera style fields by name; nil fields are not sent.
type CameraBiblePatch struct {
	LensStyle          *string `json:"lens_style,omitempty"`
	FilmStock          *string `json:"film_stock,omitempty"`
	ColorGrading       *string `json:"color_grading,omitempty"`
	LightingPhilosophy *string `json:"lighting_philosophy,omitempty"`
	MovementPhilosophy *string `json:"movement_philosophy,omitempty"`
	ReferenceFilms     *string `json:"reference_films,omitempty"`
	PromptPrefix       *string `json:"prompt_prefix,omitempty"`
}

// ExtractWorldBible starts asynchronous extraction of characters, locations,
// props, and the camera style from the story text. Re-extracting replaces the
// existing world bible.
func (c *Client) ExtractWorldBible(ctx context.Context, storyID int64) (*ExtractResult, error) {
	var result ExtractResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/world-bible/extract", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWorldBible fetches the full world bible for a story.
func (c *Client) GetWorldBible(ctx context.Context, storyID int64) (*WorldBible, error) {
	var bible WorldBible
	if err := c.get(ctx, fmt.Sprintf("/api/stories/%d/world-bible", storyID), &bible); err != nil {
		return nil, err
	}
	return &bible, nil
}

// UpdateCharacter PATCHes the provided character fields.
func (c *Client) UpdateCharacter(ctx context.Context, characterID int64, patch CharacterPatch) (*Character, error) {
	var character Character
	if err := c.patch(ctx, fmt.Sprintf("/api/characters/%d", characterID), patch, &character); err != nil {
		return nil, err
	}
	return &character, nil
}

// DeleteCharacter removes a character from the world bible.
func (c *Client) DeleteCharacter(ctx context.Context, characterID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/characters/%d", characterID))
}

// UpdateLocation PATCHes the provided location fields.
func (c *Client) UpdateLocation(ctx context.Context, locationID int64, patch LocationPatch) (*Location, error) {
	var location Location
	if err := c.patch(ctx, fmt.Sprintf("/api/locations/%d", locationID), patch, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation removes a location from the world bible.
func (c *Client) DeleteLocation(ctx context.Context, locationID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/locations/%d", locationID))
}

// UpdateProp PATCHes the provided prop fields.
func (c *Client) UpdateProp(ctx context.Context, propID int64, patch PropPatch) (*Prop, error) {
	var prop Prop
	if err := c.patch(ctx, fmt.Sprintf("/api/props/%d", propID), patch, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// DeleteProp removes a prop from the world bible.
func (c *Client) DeleteProp(ctx context.Context, propID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/props/%d", propID))
}

// UpdateCameraBible PATCHes the story-wide camera style profile.
func (c *Client) UpdateCameraBible(ctx context.Context, cameraBibleID int64, patch CameraBiblePatch) (*CameraBible, error) {
	var bible CameraBible
	if err := c.patch(ctx, fmt.Sprintf("/api/camera-bible/%d", cameraBibleID), patch, &bible); err != nil {
		return nil, err
	}
	return &bible, nil
}

// GenerateCharacterReferences queues reference image generation for a character.
func (c *Client) GenerateCharacterReferences(ctx context.Context, characterID int64) (*ReferencesResult, error) {
	var result ReferencesResult
	if err := c.post(ctx, fmt.Sprintf("/api/characters/%d/generate-references", characterID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateLocationReferences queues reference image generation for a location.
func (c *Client) GenerateLocationReferences(ctx context.Context, locationID int64) (*ReferencesResult, error) {
	var result ReferencesResult
	if err := c.post(ctx, fmt.Sprintf("/api/locations/%d/generate-references", locationID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GeneratePropReferences queues reference image generation for a prop.
func (c *Client) GeneratePropReferences(ctx context.Context, propID int64) (*ReferencesResult, error) {
	var result ReferencesResult
	if err := c.post(ctx, fmt.Sprintf("/api/props/%d/generate-references", propID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateAllReferences queues reference generation for every described
// entity in the world bible.
func (c *Client) GenerateAllReferences(ctx context.Context, storyID int64) (*ReferencesResult, error) {
	var result ReferencesResult
	if err := c.post(ctx, fmt.Sprintf("/api/stories/%d/world-bible/generate-all-references", storyID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveCharacterReference marks one reference image as the approved look for
// its type; siblings of the same type are unapproved server-side.
func (c *Client) ApproveCharacterReference(ctx context.Context, referenceID int64) (*Reference, error) {
	var ref Reference
	if err := c.post(ctx, fmt.Sprintf("/api/character-references/%d/approve", referenceID), nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ApproveLocationReference marks one location reference image as approved.
func (c *Client) ApproveLocationReference(ctx context.Context, referenceID int64) (*Reference, error) {
	var ref Reference
	if err := c.post(ctx, fmt.Sprintf("/api/location-references/%d/approve", referenceID), nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ApprovePropReference marks one prop reference image as approved.
func (c *Client) ApprovePropReference(ctx context.Context, referenceID int64) (*Reference, error) {
	var ref Reference
	if err := c.post(ctx, fmt.Sprintf("/api/prop-references/%d/approve", referenceID), nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}
