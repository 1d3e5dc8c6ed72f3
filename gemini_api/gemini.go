package gemini_api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const defaultHost = "https://generativelanguage.googleapis.com"

const (
	imageModel = "imagen-4.0-generate-001"
	editModel  = "gemini-2.5-flash-image-preview"
	videoModel = "veo-2.0-generate-001"
)

type apiImpl struct {
	host   string
	apiKey string
}

type Config struct {
	Host   string
	APIKey string
}

func New(cfg Config) (GeminiAPI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key")
	}

	if cfg.Host == "" {
		cfg.Host = defaultHost
	}

	// remove trailing slash
	if cfg.Host[len(cfg.Host)-1:] == "/" {
		cfg.Host = cfg.Host[:len(cfg.Host)-1]
	}

	return &apiImpl{
		host:   cfg.Host,
		apiKey: cfg.APIKey,
	}, nil
}

// TransportError reports a non-success HTTP status from the backend.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend returned %s", e.Status)
}

func (e *TransportError) Is(err error) bool {
	_, ok := err.(*TransportError)
	return ok
}

type InlineImage struct {
	Data     string `json:"bytesBase64Encoded"`
	MimeType string `json:"mimeType"`
}

type GenerateImagesRequest struct {
	Prompt         string
	NumberOfImages int
	AspectRatio    string
	OutputMimeType string
}

type GenerateImagesResponse struct {
	Images []InlineImage
}

type jsonImageInstance struct {
	Prompt string `json:"prompt"`
}

type jsonImageParameters struct {
	SampleCount    int    `json:"sampleCount"`
	AspectRatio    string `json:"aspectRatio"`
	OutputMimeType string `json:"outputMimeType"`
}

type jsonImagePredictRequest struct {
	Instances  []jsonImageInstance `json:"instances"`
	Parameters jsonImageParameters `json:"parameters"`
}

type jsonImagePredictResponse struct {
	Predictions []InlineImage `json:"predictions"`
}

func (api *apiImpl) GenerateImages(req *GenerateImagesRequest) (*GenerateImagesResponse, error) {
	if req == nil {
		return nil, errors.New("missing request")
	}

	jsonReq := &jsonImagePredictRequest{
		Instances: []jsonImageInstance{{Prompt: req.Prompt}},
		Parameters: jsonImageParameters{
			SampleCount:    req.NumberOfImages,
			AspectRatio:    req.AspectRatio,
			OutputMimeType: req.OutputMimeType,
		},
	}

	respStruct := &jsonImagePredictResponse{}

	err := api.post(fmt.Sprintf("/v1beta/models/%s:predict", imageModel), jsonReq, respStruct)
	if err != nil {
		return nil, err
	}

	return &GenerateImagesResponse{Images: respStruct.Predictions}, nil
}

type ContentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GenerateContentRequest struct {
	Parts []ContentPart
}

type GenerateContentResponse struct {
	Parts []ContentPart
}

type jsonContent struct {
	Parts []ContentPart `json:"parts"`
}

type jsonGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type jsonGenerateContentRequest struct {
	Contents         []jsonContent        `json:"contents"`
	GenerationConfig jsonGenerationConfig `json:"generationConfig"`
}

type jsonCandidate struct {
	Content jsonContent `json:"content"`
}

type jsonGenerateContentResponse struct {
	Candidates []jsonCandidate `json:"candidates"`
}

func (api *apiImpl) GenerateContent(req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if req == nil {
		return nil, errors.New("missing request")
	}

	jsonReq := &jsonGenerateContentRequest{
		Contents: []jsonContent{{Parts: req.Parts}},
		GenerationConfig: jsonGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	respStruct := &jsonGenerateContentResponse{}

	err := api.post(fmt.Sprintf("/v1beta/models/%s:generateContent", editModel), jsonReq, respStruct)
	if err != nil {
		return nil, err
	}

	if len(respStruct.Candidates) == 0 {
		return &GenerateContentResponse{}, nil
	}

	return &GenerateContentResponse{Parts: respStruct.Candidates[0].Content.Parts}, nil
}

type GenerateVideosRequest struct {
	Prompt string
	Image  *InlineImage
}

// VideoOperation is the backend's long-running job handle. Done may already
// be true on submit.
type VideoOperation struct {
	Name      string
	Done      bool
	VideoURIs []string
}

type jsonVideoInstance struct {
	Prompt string       `json:"prompt"`
	Image  *InlineImage `json:"image,omitempty"`
}

type jsonVideoParameters struct {
	SampleCount int `json:"sampleCount"`
}

type jsonVideoRequest struct {
	Instances  []jsonVideoInstance `json:"instances"`
	Parameters jsonVideoParameters `json:"parameters"`
}

type jsonVideoSample struct {
	Video struct {
		URI string `json:"uri"`
	} `json:"video"`
}

type jsonVideoOperationResponse struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []jsonVideoSample `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

func (op *jsonVideoOperationResponse) toOperation() *VideoOperation {
	operation := &VideoOperation{
		Name: op.Name,
		Done: op.Done,
	}

	for _, sample := range op.Response.GenerateVideoResponse.GeneratedSamples {
		if sample.Video.URI != "" {
			operation.VideoURIs = append(operation.VideoURIs, sample.Video.URI)
		}
	}

	return operation
}

func (api *apiImpl) GenerateVideos(req *GenerateVideosRequest) (*VideoOperation, error) {
	if req == nil {
		return nil, errors.New("missing request")
	}

	jsonReq := &jsonVideoRequest{
		Instances:  []jsonVideoInstance{{Prompt: req.Prompt, Image: req.Image}},
		Parameters: jsonVideoParameters{SampleCount: 1},
	}

	respStruct := &jsonVideoOperationResponse{}

	err := api.post(fmt.Sprintf("/v1beta/models/%s:predictLongRunning", videoModel), jsonReq, respStruct)
	if err != nil {
		return nil, err
	}

	return respStruct.toOperation(), nil
}

func (api *apiImpl) GetVideosOperation(operationName string) (*VideoOperation, error) {
	if operationName == "" {
		return nil, errors.New("missing operation name")
	}

	respStruct := &jsonVideoOperationResponse{}

	err := api.get("/v1beta/"+operationName, respStruct)
	if err != nil {
		return nil, err
	}

	return respStruct.toOperation(), nil
}

// DownloadFile fetches an asset by the URI the backend handed out. The API
// key rides along as a query parameter, matching how the file service expects
// to be called.
func (api *apiImpl) DownloadFile(uri string) ([]byte, error) {
	if uri == "" {
		return nil, errors.New("missing uri")
	}

	separator := "?"
	if strings.Contains(uri, "?") {
		separator = "&"
	}

	request, err := http.NewRequest("GET", uri+separator+"key="+api.apiKey, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{}

	response, err := client.Do(request)
	if err != nil {
		log.Printf("Error downloading file from %s: %v", uri, err)

		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &TransportError{StatusCode: response.StatusCode, Status: response.Status}
	}

	return io.ReadAll(response.Body)
}

func (api *apiImpl) post(path string, jsonReq interface{}, respStruct interface{}) error {
	postURL := api.host + path

	jsonData, err := json.Marshal(jsonReq)
	if err != nil {
		return err
	}

	request, err := http.NewRequest("POST", postURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json; charset=UTF-8")
	request.Header.Set("x-goog-api-key", api.apiKey)

	client := &http.Client{}

	response, err := client.Do(request)
	if err != nil {
		log.Printf("API URL: %s", postURL)
		log.Printf("Error with API Request: %v", err)

		return err
	}

	defer response.Body.Close()

	body, _ := io.ReadAll(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		log.Printf("API URL: %s", postURL)
		log.Printf("Unexpected API status %s: %s", response.Status, string(body))

		return &TransportError{StatusCode: response.StatusCode, Status: response.Status}
	}

	err = json.Unmarshal(body, respStruct)
	if err != nil {
		log.Printf("API URL: %s", postURL)
		log.Printf("Unexpected API response: %s", string(body))

		return err
	}

	return nil
}

func (api *apiImpl) get(path string, respStruct interface{}) error {
	getURL := api.host + path

	request, err := http.NewRequest("GET", getURL, nil)
	if err != nil {
		return err
	}

	request.Header.Set("x-goog-api-key", api.apiKey)

	client := &http.Client{}

	response, err := client.Do(request)
	if err != nil {
		log.Printf("API URL: %s", getURL)
		log.Printf("Error with API Request: %v", err)

		return err
	}

	defer response.Body.Close()

	body, _ := io.ReadAll(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		log.Printf("API URL: %s", getURL)
		log.Printf("Unexpected API status %s: %s", response.Status, string(body))

		return &TransportError{StatusCode: response.StatusCode, Status: response.Status}
	}

	err = json.Unmarshal(body, respStruct)
	if err != nil {
		log.Printf("API URL: %s", getURL)
		log.Printf("Unexpected API response: %s", string(body))

		return err
	}

	return nil
}
