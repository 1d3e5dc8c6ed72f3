package entities

import "time"

type Mode string

const (
	ModeImage Mode = "Image"
	ModeVideo Mode = "Video"
)

var AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

const DefaultAspectRatio = "1:1"

func ValidAspectRatio(ratio string) bool {
	for _, r := range AspectRatios {
		if r == ratio {
			return true
		}
	}

	return false
}

// Creation is one completed generation request and its result. Records are
// never updated after insert; they are only listed and deleted.
type Creation struct {
	ID             int64       `json:"id"`
	OwnerID        string      `json:"owner_id"`
	Mode           Mode        `json:"mode"`
	Prompt         string      `json:"prompt"`
	NegativePrompt string      `json:"negative_prompt"`
	BaseImage      *ImageFile  `json:"base_image"`
	BlendImage     *ImageFile  `json:"blend_image"`
	AspectRatio    string      `json:"aspect_ratio"`
	Result         MediaResult `json:"result"`
	StylePreset    string      `json:"style_preset"`
	CreatedAt      time.Time   `json:"created_at"`
}
