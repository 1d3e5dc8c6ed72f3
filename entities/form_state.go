package entities

// FormState is the pending request a member is building up: mode, prompts,
// reference images and the last result. The bot keeps one per member so that
// result buttons (use as base, regenerate) can act on it.
type FormState struct {
	Mode           Mode
	Prompt         string
	NegativePrompt string
	BaseImage      *ImageFile
	BlendImage     *ImageFile
	AspectRatio    string
	StylePreset    string
	Result         *MediaResult
}

func NewFormState() *FormState {
	return &FormState{
		Mode:        ModeImage,
		AspectRatio: DefaultAspectRatio,
	}
}

// ClearAll resets every field back to the initial state.
func (f *FormState) ClearAll() {
	*f = *NewFormState()
}

// ReuseAsBase promotes the current image result into the base image slot of
// a fresh image request, clearing the result and any blend image. It reports
// false when there is no image result to promote.
func (f *FormState) ReuseAsBase() bool {
	if f.Result == nil || f.Result.Type != MediaTypeImage {
		return false
	}

	f.BaseImage = &ImageFile{
		Data:     dataURIPayload(f.Result.Src),
		MimeType: "image/png",
		Name:     "generated-image.png",
	}
	f.BlendImage = nil
	f.Result = nil
	f.Mode = ModeImage

	return true
}

// LoadCreation restores a saved creation back into the form: mode, prompts,
// reference images, aspect ratio, style and the stored result.
func (f *FormState) LoadCreation(c *Creation) {
	f.Mode = c.Mode
	f.Prompt = c.Prompt
	f.NegativePrompt = c.NegativePrompt
	f.BaseImage = c.BaseImage
	f.BlendImage = c.BlendImage
	f.StylePreset = c.StylePreset
	f.Result = &MediaResult{Type: c.Result.Type, Src: c.Result.Src, Text: c.Result.Text}

	if ValidAspectRatio(c.AspectRatio) {
		f.AspectRatio = c.AspectRatio
	}
}

// dataURIPayload strips a "data:<mime>;base64," prefix if present so the
// promoted image holds bare encoded bytes like any uploaded one.
func dataURIPayload(src string) string {
	for i := 0; i < len(src); i++ {
		if src[i] == ',' {
			return src[i+1:]
		}
	}

	return src
}
