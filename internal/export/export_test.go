// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/convstore/internal/store"
)

func fixture() (*store.Conversation, *store.Session) {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	sess := &store.Session{
		ID:        "sess_1",
		ProjectID: "proj_1",
		Name:      "Auth Service Kickoff",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		Active:    true,
	}

	conv := &store.Conversation{
		SessionID: "sess_1",
		ProjectID: "proj_1",
		Messages: []store.Message{
			{
				ID:        "msg_1",
				SessionID: "sess_1",
				Kind:      store.KindUser,
				Content:   "Design the login flow",
				CreatedAt: created.Add(time.Minute),
			},
			{
				ID:        "msg_2",
				SessionID: "sess_1",
				Kind:      store.KindAgent,
				Agent:     store.AgentProductManager,
				Content:   "Here is the proposed flow with MFA",
				Artifacts: []string{"art_1"},
				CreatedAt: created.Add(2 * time.Minute),
			},
		},
		ProjectContext: store.ProjectContext{
			Requirements: &store.ContextEntry{
				Data:      map[string]any{"auth": "oauth2"},
				UpdatedAt: created.Add(3 * time.Minute),
			},
			Artifacts: []store.Artifact{
				{
					ID:        "art_1",
					Kind:      store.ArtifactCode,
					Name:      "login.go",
					Content:   "package auth",
					Language:  "go",
					Path:      "internal/auth/login.go",
					Agent:     store.AgentSoftwareDeveloper,
					CreatedAt: created.Add(2 * time.Minute),
				},
			},
		},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		Version:   4,
	}

	return conv, sess
}

// TestNewExporter tests the format factory.
func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"markdown", ".md", false},
		{"md", ".md", false},
		{"json", ".json", false},
		{"text", ".txt", false},
		{"txt", ".txt", false},
		{"yaml", ".yaml", false},
		{"yml", ".yaml", false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := exporter.FileExtension(); got != tt.wantExt {
				t.Errorf("FileExtension() = %s, want %s", got, tt.wantExt)
			}
			if exporter.MimeType() == "" {
				t.Error("MimeType() should not be empty")
			}
		})
	}
}

// TestMarkdownExporter_Export tests the full Markdown rendering.
func TestMarkdownExporter_Export(t *testing.T) {
	conv, sess := fixture()
	output, err := NewMarkdownExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	for _, want := range []string{
		"title: Auth Service Kickoff",
		"session: sess_1",
		"generator: convstore",
		"# Auth Service Kickoff",
		"## Session Information",
		"## Conversation",
		"### [User]",
		"### [Agent product_manager]",
		"Design the login flow",
		"## Project Context",
		"### Requirements",
		"\"auth\": \"oauth2\"",
		"## Artifacts",
		"### login.go (code)",
		"```go",
		"package auth",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Markdown output missing %q", want)
		}
	}
}

// TestMarkdownExporter_Validation tests nil input rejection.
func TestMarkdownExporter_Validation(t *testing.T) {
	conv, sess := fixture()
	exporter := NewMarkdownExporter(nil)

	if _, err := exporter.Export(nil, sess); err == nil {
		t.Error("Export(nil, sess) should fail")
	}
	if _, err := exporter.Export(conv, nil); err == nil {
		t.Error("Export(conv, nil) should fail")
	}
}

// TestMarkdownExporter_Options tests option-driven section toggles.
func TestMarkdownExporter_Options(t *testing.T) {
	conv, sess := fixture()
	opts := &Options{
		OutputDir:         ".",
		IncludeMetadata:   false,
		IncludeContext:    false,
		IncludeArtifacts:  false,
		IncludeTimestamps: false,
	}

	output, err := NewMarkdownExporter(opts).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	for _, unwanted := range []string{
		"## Session Information",
		"## Project Context",
		"## Artifacts",
		"<sub>",
		"---\ntitle:",
	} {
		if strings.Contains(result, unwanted) {
			t.Errorf("Markdown output should not contain %q with sections disabled", unwanted)
		}
	}
	if !strings.Contains(result, "## Conversation") {
		t.Error("Conversation section should always be present")
	}
}

// TestMarkdownExporter_EmptyConversation tests that a fresh session exports.
func TestMarkdownExporter_EmptyConversation(t *testing.T) {
	_, sess := fixture()
	conv := &store.Conversation{
		SessionID: sess.ID,
		ProjectID: sess.ProjectID,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.CreatedAt,
		Version:   1,
	}

	output, err := NewMarkdownExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(output), "*No messages yet.*") {
		t.Error("empty conversation should render a placeholder")
	}
}

// TestYAMLNewlineInjection tests that newlines are escaped in frontmatter.
func TestYAMLNewlineInjection(t *testing.T) {
	conv, sess := fixture()
	sess.Name = "Test\nInjection: malicious"

	output, err := NewMarkdownExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	if strings.Contains(result, "title: Test\nInjection") {
		t.Error("Newline not escaped in YAML value")
	}
	for _, line := range strings.Split(result, "\n") {
		if strings.HasPrefix(line, "Injection:") {
			t.Error("YAML injection: newline not escaped in title")
		}
	}
}

// TestMarkdownExporter_FenceBreakout tests artifact language sanitizing.
func TestMarkdownExporter_FenceBreakout(t *testing.T) {
	conv, sess := fixture()
	conv.ProjectContext.Artifacts[0].Language = "go``` injected"

	output, err := NewMarkdownExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if strings.Contains(string(output), "```go``` injected") {
		t.Error("backticks in artifact language must not survive into the fence line")
	}
}

// TestJSONExporter_Export tests the JSON document shape.
func TestJSONExporter_Export(t *testing.T) {
	conv, sess := fixture()
	output, err := NewJSONExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
		Conversation struct {
			SessionID string          `json:"session_id"`
			Messages  []store.Message `json:"messages"`
		} `json:"conversation"`
		Generator string `json:"generator"`
	}
	if err := json.Unmarshal(output, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Session.ID != "sess_1" {
		t.Errorf("session.id = %s, want sess_1", doc.Session.ID)
	}
	if doc.Conversation.SessionID != "sess_1" {
		t.Errorf("conversation.session_id = %s, want sess_1", doc.Conversation.SessionID)
	}
	if len(doc.Conversation.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(doc.Conversation.Messages))
	}
	if doc.Generator != "convstore" {
		t.Errorf("generator = %s, want convstore", doc.Generator)
	}
}

// TestTextExporter_Export tests the plain text rendering.
func TestTextExporter_Export(t *testing.T) {
	conv, sess := fixture()
	output, err := NewTextExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	for _, want := range []string{
		" Auth Service Kickoff",
		"Session:  sess_1",
		"[User]",
		"[Agent product_manager]",
		"Design the login flow",
		" Artifacts",
		"login.go (code)",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

// TestYAMLExporter_Export tests that YAML output parses and keeps JSON keys.
func TestYAMLExporter_Export(t *testing.T) {
	conv, sess := fixture()
	output, err := NewYAMLExporter(nil).Export(conv, sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(output, &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}

	session, ok := doc["session"].(map[string]any)
	if !ok {
		t.Fatalf("session key missing or wrong type: %T", doc["session"])
	}
	if session["id"] != "sess_1" {
		t.Errorf("session.id = %v, want sess_1", session["id"])
	}

	conversation, ok := doc["conversation"].(map[string]any)
	if !ok {
		t.Fatalf("conversation key missing or wrong type: %T", doc["conversation"])
	}
	if conversation["session_id"] != "sess_1" {
		t.Errorf("conversation.session_id = %v, want sess_1", conversation["session_id"])
	}
}

// TestExportToFile tests the end-to-end file write.
func TestExportToFile(t *testing.T) {
	conv, sess := fixture()
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	path, err := ExportToFile(conv, sess, NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "conversation_Auth_Service_Kickoff_") {
		t.Errorf("unexpected filename: %s", base)
	}
	if !strings.HasSuffix(base, ".md") {
		t.Errorf("expected .md extension, got %s", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("exported file is empty")
	}
}

// TestSanitizeFilename tests filename sanitization.
func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"slashes", "a/b\\c", "a-b-c"},
		{"spaces", "hello world", "hello_world"},
		{"windows reserved", `a:b*c?d"e<f>g|h`, "a-b-c-d-e-f-g-h"},
		{"empty", "", "conversation"},
		{"control chars", "a\x01b", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	long := strings.Repeat("x", 80)
	if got := sanitizeFilename(long); len([]rune(got)) != 50 {
		t.Errorf("long name should truncate to 50 runes, got %d", len([]rune(got)))
	}
}
