package handler

import (
	"errors"

	"broadcaster/internal/domain"
)

// CSVRequest is an uploaded recipient file.
type CSVRequest struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

func (c *CSVRequest) upload() *domain.CSVUpload {
	if c == nil {
		return nil
	}
	name := c.FileName
	if name == "" {
		name = "recipients.csv"
	}
	return &domain.CSVUpload{FileName: name, Content: []byte(c.Content)}
}

// MediaRequest is direct-mode media. Content is base64 in JSON and takes
// the place of URL when present.
type MediaRequest struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
}

// BroadcastRequest is the body of POST /broadcast.
type BroadcastRequest struct {
	Name      string        `json:"name"`
	Mode      string        `json:"mode"`
	Numbers   string        `json:"numbers"`
	CSV       *CSVRequest   `json:"csv"`
	Message   string        `json:"message"`
	Media     *MediaRequest `json:"media"`
	Template  string        `json:"template"`
	Variables []string      `json:"variables"`
}

// Draft converts the request into a broadcast draft. An empty mode means
// direct.
func (r *BroadcastRequest) Draft() (*domain.BroadcastDraft, error) {
	mode := domain.ModeDirect
	if r.Mode != "" {
		m, ok := domain.ParseSendMode(r.Mode)
		if !ok {
			return nil, &domain.ValidationError{Field: "mode", Message: domain.MsgUnknownSendMode}
		}
		mode = m
	}

	draft := &domain.BroadcastDraft{
		Name:          r.Name,
		ManualNumbers: r.Numbers,
		CSV:           r.CSV.upload(),
	}

	switch mode {
	case domain.ModeDirect:
		direct := domain.DirectPayload{Message: r.Message}
		if r.Media != nil {
			direct.Media = &domain.Media{
				URL:      r.Media.URL,
				Type:     r.Media.Type,
				FileName: r.Media.FileName,
				Content:  r.Media.Content,
			}
		}
		draft.Payload = direct
	case domain.ModeTemplate:
		draft.Payload = domain.TemplatePayload{
			TemplateName: r.Template,
			Variables:    r.Variables,
		}
	}

	return draft, nil
}

// PreviewRequest is the body of POST /broadcast/preview.
type PreviewRequest struct {
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
}

// Validate checks if the preview request is valid.
func (r *PreviewRequest) Validate() error {
	if r.Template == "" {
		return errors.New("template is required")
	}
	return nil
}

// PreviewResponse is the rendered template.
type PreviewResponse struct {
	Template  string   `json:"template"`
	Body      string   `json:"body"`
	Variables []string `json:"variables"`
	Preview   string   `json:"preview"`
}

// ResolveRequest is the body of POST /recipients/resolve.
type ResolveRequest struct {
	Numbers string      `json:"numbers"`
	CSV     *CSVRequest `json:"csv"`
}

// ResolveResponse is the merged recipient list.
type ResolveResponse struct {
	Recipients []string `json:"recipients"`
	Count      int      `json:"count"`
}

// BroadcastResponse is the outcome of POST /broadcast.
type BroadcastResponse struct {
	Stats      domain.BroadcastStats `json:"stats"`
	Recipients int                   `json:"recipients"`
	Message    string                `json:"message"`
}
