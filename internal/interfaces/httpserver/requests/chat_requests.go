package requests

// ChatRequest is the text completion request body.
type ChatRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	ModelID string `json:"modelId" binding:"required"`
}

// VisionRequest is the multimodal completion request body. ImageContent is
// either an http(s) URL or base64-encoded image data; ImageMediaType defaults
// to image/png when omitted.
type VisionRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	ImageContent   string `json:"imageContent" binding:"required"`
	ModelID        string `json:"modelId" binding:"required"`
	ImageMediaType string `json:"imageMediaType"`
}
