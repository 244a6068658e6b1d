package domain

import "time"

// SendMode selects how a broadcast is delivered.
type SendMode string

const (
	ModeDirect   SendMode = "direct"
	ModeTemplate SendMode = "template"
)

// ParseSendMode converts a user-supplied string into a SendMode.
func ParseSendMode(s string) (SendMode, bool) {
	switch SendMode(s) {
	case ModeDirect, ModeTemplate:
		return SendMode(s), true
	default:
		return "", false
	}
}

// Payload is the mode-specific part of a broadcast.
// Implemented by DirectPayload and TemplatePayload only.
type Payload interface {
	Mode() SendMode
	isPayload()
}

// Media is an attachment for a direct broadcast, either a URL or an
// uploaded file.
type Media struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"` // image, video, audio, document
	FileName string `json:"file_name,omitempty" yaml:"file,omitempty"`
	Content  []byte `json:"-" yaml:"-"`
}

// IsUpload reports whether the media carries file content.
func (m *Media) IsUpload() bool {
	return m != nil && len(m.Content) > 0
}

// DirectPayload is a free-text message sent immediately.
type DirectPayload struct {
	Message string
	Media   *Media
}

func (DirectPayload) Mode() SendMode { return ModeDirect }
func (DirectPayload) isPayload()     {}

// TemplatePayload renders a pre-approved template with positional variables.
type TemplatePayload struct {
	TemplateID   string
	TemplateName string
	Variables    []string
}

func (TemplatePayload) Mode() SendMode { return ModeTemplate }
func (TemplatePayload) isPayload()     {}

// CSVUpload is a recipient file as uploaded by the user.
type CSVUpload struct {
	FileName string
	Content  []byte
}

// BroadcastDraft is a fully composed broadcast waiting for submission.
type BroadcastDraft struct {
	Name          string
	ManualNumbers string // comma-separated, as typed
	CSV           *CSVUpload
	Payload       Payload
}

// BroadcastStats is the backend's per-recipient validity breakdown.
type BroadcastStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// BroadcastStatus is the lifecycle state of a sent broadcast.
type BroadcastStatus string

const (
	StatusQueued    BroadcastStatus = "QUEUED"
	StatusSending   BroadcastStatus = "SENDING"
	StatusCompleted BroadcastStatus = "COMPLETED"
	StatusFailed    BroadcastStatus = "FAILED"
)

// BroadcastHistoryEntry is a read-only projection of a past broadcast.
type BroadcastHistoryEntry struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	TemplateName         string          `json:"template_name,omitempty"`
	TotalRecipients      int             `json:"total_recipients"`
	SuccessfulRecipients int             `json:"successful_recipients"`
	FailedRecipients     int             `json:"failed_recipients"`
	Status               BroadcastStatus `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
}

// IsFinal reports whether the broadcast reached a terminal status.
func (e *BroadcastHistoryEntry) IsFinal() bool {
	return e.Status == StatusCompleted || e.Status == StatusFailed
}
