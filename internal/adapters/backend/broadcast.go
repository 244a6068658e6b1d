package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"broadcaster/internal/domain"
	"broadcaster/internal/ports"
)

// Multipart field names of POST /api/whatsapp/broadcast.
const (
	FieldName         = "name"
	FieldSendMode     = "sendMode"
	FieldRecipients   = "recipients"
	FieldMessage      = "message"
	FieldMediaURL     = "mediaUrl"
	FieldMediaType    = "mediaType"
	FieldMedia        = "media"
	FieldTemplateName = "templateName"
	FieldVariables    = "variables"
	FieldFile         = "file"
)

// broadcastResponse is the body of a successful submission.
type broadcastResponse struct {
	Stats domain.BroadcastStats `json:"stats"`
}

// SubmitBroadcast sends a broadcast as one multipart request. There is
// no retry; a failed submission is resubmitted by the user.
func (c *Client) SubmitBroadcast(ctx context.Context, req ports.BroadcastRequest) (*domain.BroadcastStats, error) {
	body, contentType, err := encodeBroadcast(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, PathBroadcast, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)

	c.logger.Info("submitting broadcast",
		"name", req.Name,
		"mode", req.Payload.Mode(),
		"recipients", len(req.Recipients),
	)

	respBody, err := c.do(httpReq, "broadcast")
	if err != nil {
		return nil, err
	}

	var resp broadcastResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal broadcast response: %w", err)
	}

	return &resp.Stats, nil
}

// encodeBroadcast writes the multipart form for req.
func encodeBroadcast(req ports.BroadcastRequest) (*bytes.Buffer, string, error) {
	if req.Payload == nil {
		return nil, "", fmt.Errorf("broadcast %q has no payload", req.Name)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{FieldName, req.Name},
		{FieldSendMode, string(req.Payload.Mode())},
		{FieldRecipients, strings.Join(req.Recipients, ",")},
	}

	switch p := req.Payload.(type) {
	case domain.DirectPayload:
		fields = append(fields, [2]string{FieldMessage, p.Message})
		if p.Media != nil && p.Media.URL != "" {
			fields = append(fields, [2]string{FieldMediaURL, p.Media.URL})
		}
		if p.Media != nil && p.Media.Type != "" {
			fields = append(fields, [2]string{FieldMediaType, p.Media.Type})
		}
	case domain.TemplatePayload:
		vars := p.Variables
		if vars == nil {
			vars = []string{}
		}
		encoded, err := json.Marshal(vars)
		if err != nil {
			return nil, "", fmt.Errorf("marshal variables: %w", err)
		}
		fields = append(fields,
			[2]string{FieldTemplateName, p.TemplateName},
			[2]string{FieldVariables, string(encoded)},
		)
	default:
		return nil, "", fmt.Errorf("unsupported payload %T", req.Payload)
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if p, ok := req.Payload.(domain.DirectPayload); ok && p.Media.IsUpload() {
		if err := writeFile(w, FieldMedia, p.Media.FileName, p.Media.Content); err != nil {
			return nil, "", err
		}
	}

	if req.CSV != nil && len(req.CSV.Content) > 0 {
		name := req.CSV.FileName
		if name == "" {
			name = "recipients.csv"
		}
		if err := writeFile(w, FieldFile, name, req.CSV.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field, name string, content []byte) error {
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		return fmt.Errorf("create form file %s: %w", field, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write form file %s: %w", field, err)
	}
	return nil
}
