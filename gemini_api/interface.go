package gemini_api

type GeminiAPI interface {
	GenerateImages(req *GenerateImagesRequest) (*GenerateImagesResponse, error)
	GenerateContent(req *GenerateContentRequest) (*GenerateContentResponse, error)
	GenerateVideos(req *GenerateVideosRequest) (*VideoOperation, error)
	GetVideosOperation(operationName string) (*VideoOperation, error)
	DownloadFile(uri string) ([]byte, error)
}
