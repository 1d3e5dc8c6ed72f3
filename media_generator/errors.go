package media_generator

// Reasons a generation attempt can fail before or after reaching the backend.
const (
	ReasonEmptyPrompt     = "empty-prompt"
	ReasonNoOutput        = "no-output"
	ReasonNoImageReturned = "no-image-returned"
	ReasonNoDownloadLink  = "no-download-link"
	ReasonDownloadFailed  = "download-failed"
	ReasonBackendRejected = "backend-rejected"
)

var reasonMessages = map[string]string{
	ReasonEmptyPrompt:     "A prompt is required for generation.",
	ReasonNoOutput:        "Image generation did not return any images.",
	ReasonNoImageReturned: "The AI did not return an image. Try a different prompt.",
	ReasonNoDownloadLink:  "Video generation completed, but no download link was provided.",
	ReasonDownloadFailed:  "Failed to download the generated video.",
	ReasonBackendRejected: "The generation request was rejected by the backend.",
}

// GenerationError carries a machine-readable reason plus a message fit to
// show the user as-is.
type GenerationError struct {
	Reason string
	cause  error
}

func NewGenerationError(reason string, cause error) *GenerationError {
	return &GenerationError{Reason: reason, cause: cause}
}

func (e *GenerationError) Error() string {
	if message, ok := reasonMessages[e.Reason]; ok {
		return message
	}

	return "Generation failed."
}

func (e *GenerationError) Unwrap() error {
	return e.cause
}

func (e *GenerationError) Is(err error) bool {
	other, ok := err.(*GenerationError)
	if !ok {
		return false
	}

	return other.Reason == "" || other.Reason == e.Reason
}
