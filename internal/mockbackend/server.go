// Package mockbackend is an in-memory stand-in for the dashboard API's
// WhatsApp endpoints, used for local development and client tests.
package mockbackend

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"broadcaster/internal/domain"
)

const maxUploadBytes = 16 << 20

// Submission is a broadcast request as received, kept for inspection.
type Submission struct {
	Fields map[string]string
	Files  map[string][]byte
}

// Server implements the templates, broadcast and history endpoints.
type Server struct {
	token  string // required bearer token; empty accepts any
	logger *slog.Logger

	mu          sync.Mutex
	templates   []domain.MessageTemplate
	history     []domain.BroadcastHistoryEntry
	submissions []Submission
}

// NewServer creates a server seeded with templates.
func NewServer(token string, templates []domain.MessageTemplate, logger *slog.Logger) *Server {
	return &Server{
		token:     token,
		templates: templates,
		logger:    logger,
	}
}

// DefaultTemplates is the seed used by the mock-backend binary.
func DefaultTemplates() []domain.MessageTemplate {
	return []domain.MessageTemplate{
		{
			ID:         "tpl-order-update",
			Name:       "order_update",
			Category:   "UTILITY",
			Language:   "en_US",
			HeaderText: "Order update",
			BodyText:   "Hello {{1}}, order {{2}} confirmed",
			FooterText: "Reply STOP to opt out",
			Status:     domain.TemplateApproved,
		},
		{
			ID:       "tpl-welcome",
			Name:     "welcome",
			Category: "MARKETING",
			Language: "en_US",
			BodyText: "Welcome {{1}}! Your code is {{2}}. See you soon, {{1}}.",
			Status:   domain.TemplateApproved,
		},
		{
			ID:       "tpl-flash-sale",
			Name:     "flash_sale",
			Category: "MARKETING",
			Language: "en_US",
			BodyText: "Flash sale: {{1}} off today only",
			Status:   domain.TemplatePending,
		},
	}
}

// Submissions returns every broadcast received so far.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	s.logger.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
	)

	if r.URL.Path == "/health" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	}

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		s.logger.Warn("rejected unauthenticated request", "path", r.URL.Path)
		return
	}

	switch {
	case r.URL.Path == "/api/whatsapp/templates" && r.Method == http.MethodGet:
		s.handleTemplates(w)
	case r.URL.Path == "/api/whatsapp/history" && r.Method == http.MethodGet:
		s.handleHistory(w)
	case r.URL.Path == "/api/whatsapp/broadcast" && r.Method == http.MethodPost:
		s.handleBroadcast(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}

	s.logger.Info("request completed",
		"method", r.Method,
		"path", r.URL.Path,
		"duration", time.Since(start),
	)
}

func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}
	return s.token == "" || token == s.token
}

func (s *Server) handleTemplates(w http.ResponseWriter) {
	s.mu.Lock()
	templates := append([]domain.MessageTemplate{}, s.templates...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleHistory(w http.ResponseWriter) {
	s.mu.Lock()
	entries := make([]domain.BroadcastHistoryEntry, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		entries = append(entries, s.history[i])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	sub := Submission{Fields: map[string]string{}, Files: map[string][]byte{}}
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			sub.Fields[k] = v[0]
		}
	}
	for k, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid file upload")
			return
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid file upload")
			return
		}
		sub.Files[k] = content
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	numbers := splitRecipients(sub.Fields["recipients"])
	if len(numbers) == 0 {
		writeError(w, http.StatusBadRequest, "No recipients provided")
		return
	}

	var templateName string
	switch domain.SendMode(sub.Fields["sendMode"]) {
	case domain.ModeDirect:
		if strings.TrimSpace(sub.Fields["message"]) == "" && sub.Fields["mediaUrl"] == "" && sub.Files["media"] == nil {
			writeError(w, http.StatusBadRequest, "Message or media is required")
			return
		}
	case domain.ModeTemplate:
		templateName = sub.Fields["templateName"]
		if msg := s.checkTemplate(templateName, sub.Fields["variables"]); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid send mode: %q", sub.Fields["sendMode"]))
		return
	}

	stats := domain.BroadcastStats{Total: len(numbers)}
	for _, n := range numbers {
		if validNumber(n) {
			stats.Valid++
		} else {
			stats.Invalid++
		}
	}

	status := domain.StatusCompleted
	if stats.Valid == 0 {
		status = domain.StatusFailed
	}

	entry := domain.BroadcastHistoryEntry{
		ID:                   uuid.New().String(),
		Name:                 sub.Fields["name"],
		TemplateName:         templateName,
		TotalRecipients:      stats.Total,
		SuccessfulRecipients: stats.Valid,
		FailedRecipients:     stats.Invalid,
		Status:               status,
		CreatedAt:            time.Now().UTC(),
	}

	s.mu.Lock()
	s.history = append(s.history, entry)
	s.mu.Unlock()

	s.logger.Info("broadcast accepted",
		"broadcast_id", entry.ID,
		"mode", sub.Fields["sendMode"],
		"total", stats.Total,
		"valid", stats.Valid,
		"invalid", stats.Invalid,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"broadcastId": entry.ID,
		"stats":       stats,
	})
}

// checkTemplate returns an error message for an unusable template.
func (s *Server) checkTemplate(name, variables string) string {
	s.mu.Lock()
	tpl := domain.FindTemplate(s.templates, name)
	s.mu.Unlock()

	if tpl == nil {
		return fmt.Sprintf("Template %q not found", name)
	}
	if !tpl.IsApproved() {
		return fmt.Sprintf("Template %q is not approved (status %s)", name, tpl.Status)
	}

	var vars []string
	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &vars); err != nil {
			return "Variables must be a JSON array of strings"
		}
	}
	return ""
}

func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if n := strings.TrimSpace(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// validNumber accepts an optional leading '+' followed by 7 to 15 digits.
func validNumber(n string) bool {
	n = strings.TrimPrefix(n, "+")
	if len(n) < domain.MinRecipientLength || len(n) > 15 {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
