package entities

// ImageFile is one uploaded or generated still image, carried as base64
// encoded bytes tagged with a MIME type. Values are immutable once built and
// are copied freely into requests and records.
type ImageFile struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
	Name     string `json:"name"`
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeText  MediaType = "text"
)

// MediaResult is what a generation attempt produced. Image results carry a
// data URI in Src, video results a local file path. Text results carry only
// Text and are how generation failures reach the presentation layer.
type MediaResult struct {
	Type MediaType `json:"type"`
	Src  string    `json:"src,omitempty"`
	Text string    `json:"text,omitempty"`
}

// VideoJob is the transient handle for one asynchronous video generation.
// It lives only for the duration of the call and is never persisted.
type VideoJob struct {
	Name      string
	Done      bool
	ResultURI string
}
