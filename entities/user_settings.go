package entities

type UserSettings struct {
	MemberID       string `json:"member_id"`
	AspectRatio    string `json:"aspect_ratio"`
	NegativePrompt string `json:"negative_prompt"`
	PreferredMode  Mode   `json:"preferred_mode"`
}
