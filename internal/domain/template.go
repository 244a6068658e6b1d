package domain

// TemplateStatus is the Meta approval state of a message template.
type TemplateStatus string

const (
	TemplateApproved TemplateStatus = "APPROVED"
	TemplatePending  TemplateStatus = "PENDING"
	TemplateRejected TemplateStatus = "REJECTED"
)

// MessageTemplate is a WhatsApp Business template owned by the backend.
// The client only holds a read-only copy.
type MessageTemplate struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	Language   string         `json:"language"`
	HeaderText string         `json:"header_text,omitempty"`
	BodyText   string         `json:"body_text"`
	FooterText string         `json:"footer_text,omitempty"`
	Status     TemplateStatus `json:"status"`
}

// IsApproved reports whether Meta approved the template.
func (t *MessageTemplate) IsApproved() bool {
	return t.Status == TemplateApproved
}

// FindTemplate finds a template by name or ID, returns nil if not found.
func FindTemplate(templates []MessageTemplate, ref string) *MessageTemplate {
	for i := range templates {
		if templates[i].Name == ref || templates[i].ID == ref {
			return &templates[i]
		}
	}
	return nil
}
