package service

import (
	"fmt"

	"broadcaster/internal/domain"
	"broadcaster/internal/recipients"
	"broadcaster/internal/templates"
)

// Form is the compose state for one broadcast. Mode and the two mode
// payloads are independent: switching mode never touches the other
// mode's fields.
type Form struct {
	Name          string
	Mode          domain.SendMode
	ManualNumbers string
	CSV           *domain.CSVUpload
	Direct        domain.DirectPayload
	Template      domain.TemplatePayload

	templateBody string
}

// NewForm returns an empty form in direct mode.
func NewForm() *Form {
	return &Form{Mode: domain.ModeDirect}
}

// SetMode switches the send mode.
func (f *Form) SetMode(mode domain.SendMode) {
	f.Mode = mode
}

// SelectTemplate picks a template and initialises one empty variable slot
// per placeholder in its body.
func (f *Form) SelectTemplate(tpl *domain.MessageTemplate) {
	if tpl == nil {
		f.Template = domain.TemplatePayload{}
		f.templateBody = ""
		return
	}

	f.Template = domain.TemplatePayload{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Variables:    templates.NewSlots(tpl.BodyText),
	}
	f.templateBody = tpl.BodyText
}

// SetVariable fills variable slot i (zero-based).
func (f *Form) SetVariable(i int, value string) error {
	if i < 0 || i >= len(f.Template.Variables) {
		return fmt.Errorf("variable %d out of range (template has %d)", i+1, len(f.Template.Variables))
	}
	f.Template.Variables[i] = value
	return nil
}

// Preview renders the selected template body with the current variables.
func (f *Form) Preview() string {
	return templates.Preview(f.templateBody, f.Template.Variables)
}

// RecipientCount is the merged recipient count for display.
func (f *Form) RecipientCount() int {
	var csv []domain.Recipient
	if f.CSV != nil {
		csv = recipients.ParseCSV(string(f.CSV.Content))
	}
	return recipients.Count(f.ManualNumbers, csv)
}

// Draft assembles the form into a draft for the current mode.
func (f *Form) Draft() *domain.BroadcastDraft {
	draft := &domain.BroadcastDraft{
		Name:          f.Name,
		ManualNumbers: f.ManualNumbers,
		CSV:           f.CSV,
	}

	switch f.Mode {
	case domain.ModeDirect:
		draft.Payload = f.Direct
	case domain.ModeTemplate:
		tpl := f.Template
		tpl.Variables = append([]string(nil), f.Template.Variables...)
		draft.Payload = tpl
	}

	return draft
}

// ClearDirect empties the direct-mode message and media.
func (f *Form) ClearDirect() {
	f.Direct = domain.DirectPayload{}
}
