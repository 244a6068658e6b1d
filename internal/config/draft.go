package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"broadcaster/internal/domain"
)

// DraftFile is a broadcast described in YAML.
//
//	name: Black Friday
//	mode: template
//	numbers: ["5511999999999", "5511888888888"]
//	csv: contacts.csv
//	template: order_update
//	variables: ["Sam", "A-1001"]
type DraftFile struct {
	Name      string        `yaml:"name"`
	Mode      string        `yaml:"mode"`
	Numbers   []string      `yaml:"numbers,omitempty"`
	CSV       string        `yaml:"csv,omitempty"`
	Message   string        `yaml:"message,omitempty"`
	Media     *domain.Media `yaml:"media,omitempty"`
	Template  string        `yaml:"template,omitempty"`
	Variables []string      `yaml:"variables,omitempty"`
}

// LoadDraftFile reads a draft file. Relative csv and media paths resolve
// against the draft file's directory.
func LoadDraftFile(path string) (*domain.BroadcastDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft file: %w", err)
	}

	return ParseDraftFile(data, filepath.Dir(path))
}

// ParseDraftFile decodes YAML and builds a domain draft.
func ParseDraftFile(data []byte, baseDir string) (*domain.BroadcastDraft, error) {
	var f DraftFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse draft file: %w", err)
	}

	if f.Mode == "" {
		f.Mode = string(domain.ModeDirect)
	}

	if err := ValidateDraftFile(&f); err != nil {
		return nil, err
	}

	draft := &domain.BroadcastDraft{
		Name:          f.Name,
		ManualNumbers: strings.Join(f.Numbers, ","),
	}

	if f.CSV != "" {
		content, err := os.ReadFile(resolvePath(baseDir, f.CSV))
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", f.CSV, err)
		}
		draft.CSV = &domain.CSVUpload{
			FileName: filepath.Base(f.CSV),
			Content:  content,
		}
	}

	switch domain.SendMode(f.Mode) {
	case domain.ModeDirect:
		payload := domain.DirectPayload{Message: f.Message}
		if f.Media != nil {
			media := *f.Media
			if media.FileName != "" {
				content, err := os.ReadFile(resolvePath(baseDir, media.FileName))
				if err != nil {
					return nil, fmt.Errorf("read media %s: %w", media.FileName, err)
				}
				media.Content = content
				media.FileName = filepath.Base(media.FileName)
			}
			payload.Media = &media
		}
		draft.Payload = payload
	case domain.ModeTemplate:
		draft.Payload = domain.TemplatePayload{
			TemplateName: f.Template,
			Variables:    f.Variables,
		}
	}

	return draft, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
