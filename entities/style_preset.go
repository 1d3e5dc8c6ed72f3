package entities

// StylePreset is a named pair of prompt fragments appended to a request to
// steer the image toward a particular look.
type StylePreset struct {
	Name           string
	Prompt         string
	NegativePrompt string
}

var StylePresets = []StylePreset{
	{
		Name:           "Photorealistic",
		Prompt:         "photorealistic, 8k, sharp focus, detailed textures, natural lighting",
		NegativePrompt: "painting, drawing, illustration, cartoon",
	},
	{
		Name:           "Anime",
		Prompt:         "anime style, vibrant colors, clean line art, cel shading",
		NegativePrompt: "photorealistic, 3d render",
	},
	{
		Name:           "Watercolor",
		Prompt:         "watercolor painting, soft washes of color, visible paper texture",
		NegativePrompt: "photograph, sharp edges, digital art",
	},
	{
		Name:           "Oil Painting",
		Prompt:         "oil painting, thick brush strokes, rich colors, canvas texture",
		NegativePrompt: "photograph, flat colors",
	},
	{
		Name:           "Cyberpunk",
		Prompt:         "cyberpunk, neon lights, rain-slicked streets, futuristic cityscape",
		NegativePrompt: "daylight, rural, historical",
	},
	{
		Name:           "3D Render",
		Prompt:         "3d render, octane render, global illumination, high detail",
		NegativePrompt: "flat, 2d, sketch",
	},
	{
		Name:           "Pixel Art",
		Prompt:         "pixel art, 16-bit, limited color palette, crisp pixels",
		NegativePrompt: "smooth gradients, photorealistic, blurry",
	},
	{
		Name:           "Sketch",
		Prompt:         "pencil sketch, monochrome, loose expressive lines, cross-hatching shading",
		NegativePrompt: "color, photograph, painted",
	},
}

// FindStylePreset looks a preset up by name. An empty or unknown name
// reports false.
func FindStylePreset(name string) (*StylePreset, bool) {
	for index := range StylePresets {
		if StylePresets[index].Name == name {
			return &StylePresets[index], true
		}
	}

	return nil, false
}
