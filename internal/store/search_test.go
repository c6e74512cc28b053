// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"testing"
)

// seedMessage creates a session holding one message and returns its id.
func seedMessage(t *testing.T, st *Store, projectID, content string) string {
	t.Helper()
	ctx := context.Background()
	sess, err := st.CreateSession(ctx, projectID, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := st.AddMessage(ctx, sess.ID, Message{Content: content}); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	return sess.ID
}

func TestScoreContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		query    string
		expected int
	}{
		{"exact token", "hello world", "hello", 10},
		{"exact repeated", "hello hello hello", "hello", 30},
		{"token contains query", "hellothere friend", "hello", 5},
		{"token within multi-word query", "hello world now", "hello world", 4},
		{"mixed exact and partial", "hello hellos", "hello", 15},
		{"no token relation", "hello world", "o w", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreContent(tt.content, tt.query)
			if got != tt.expected {
				t.Errorf("scoreContent(%q, %q) = %d, want %d", tt.content, tt.query, got, tt.expected)
			}
		})
	}
}

func TestSearchConversations_ExactTokenScoresTen(t *testing.T) {
	forEachBackend(t, func(t *testing.T, st *Store) {
		ctx := context.Background()
		seedMessage(t, st, "", "hello world")

		results, err := st.SearchConversations(ctx, "hello", "")
		if err != nil {
			t.Fatalf("SearchConversations failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Got %d results, want 1", len(results))
		}
		if results[0].Relevance != 10 {
			t.Errorf("Relevance = %d, want 10", results[0].Relevance)
		}
		if results[0].Message.Content != "hello world" {
			t.Errorf("Message.Content = %q", results[0].Message.Content)
		}
	})
}

func TestSearchConversations_CaseInsensitive(t *testing.T) {
	st := newTestStore(t, BackendSnapshot)
	ctx := context.Background()
	seedMessage(t, st, "", "HELLO World")

	results, err := st.SearchConversations(ctx, "hello", "")
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}
	if len(results) != 1 || results[0].Relevance != 10 {
		t.Fatalf("Results = %+v, want one exact match", results)
	}
}

func TestSearchConversations_SortedDescending(t *testing.T) {
	forEachBackend(t, func(t *testing.T, st *Store) {
		ctx := context.Background()
		seedMessage(t, st, "", "deployment notes")           // partial: 5
		seedMessage(t, st, "", "deploy the deployment")      // 10 + 5
		seedMessage(t, st, "", "deploy deploy deploy")       // 10 * 3
		seedMessage(t, st, "", "we should deploy on friday") // 10

		results, err := st.SearchConversations(ctx, "deploy", "")
		if err != nil {
			t.Fatalf("SearchConversations failed: %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("Got %d results, want 4", len(results))
		}
		want := []int{30, 15, 10, 5}
		for i, w := range want {
			if results[i].Relevance != w {
				t.Errorf("results[%d].Relevance = %d, want %d", i, results[i].Relevance, w)
			}
		}
	})
}

func TestSearchConversations_ZeroRelevanceSpanningMatch(t *testing.T) {
	st := newTestStore(t, BackendSnapshot)
	ctx := context.Background()
	seedMessage(t, st, "", "hello world")

	// The query appears in the content but crosses a token boundary, so no
	// token rule fires. The match is still reported.
	results, err := st.SearchConversations(ctx, "o w", "")
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Got %d results, want 1", len(results))
	}
	if results[0].Relevance != 0 {
		t.Errorf("Relevance = %d, want 0", results[0].Relevance)
	}
}

func TestSearchConversations_ProjectFilter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, st *Store) {
		ctx := context.Background()
		inProject := seedMessage(t, st, "proj_a", "review the deploy checklist")
		seedMessage(t, st, "proj_b", "deploy everything else")

		results, err := st.SearchConversations(ctx, "deploy", "proj_a")
		if err != nil {
			t.Fatalf("SearchConversations failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Got %d results, want 1", len(results))
		}
		if results[0].SessionID != inProject {
			t.Errorf("SessionID = %q, want %q", results[0].SessionID, inProject)
		}
		if results[0].ProjectID != "proj_a" {
			t.Errorf("ProjectID = %q, want proj_a", results[0].ProjectID)
		}
	})
}

func TestSearchConversations_EmptyQuery(t *testing.T) {
	st := newTestStore(t, BackendSnapshot)
	ctx := context.Background()
	seedMessage(t, st, "", "anything at all")

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := st.SearchConversations(ctx, q, "")
		if err != nil {
			t.Fatalf("SearchConversations(%q) failed: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("SearchConversations(%q) = %d results, want 0", q, len(results))
		}
	}
}

func TestSearchConversations_NoMatches(t *testing.T) {
	st := newTestStore(t, BackendSnapshot)
	ctx := context.Background()
	seedMessage(t, st, "", "nothing relevant here")

	results, err := st.SearchConversations(ctx, "kubernetes", "")
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Got %d results, want 0", len(results))
	}
}

func TestSearchConversations_MultipleMessagesPerConversation(t *testing.T) {
	st := newTestStore(t, BackendSQLite)
	ctx := context.Background()

	sess, err := st.CreateSession(ctx, "", "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	for _, c := range []string{"deploy now", "wait for review", "deploy later"} {
		if _, err := st.AddMessage(ctx, sess.ID, Message{Content: c}); err != nil {
			t.Fatalf("AddMessage failed: %v", err)
		}
	}

	results, err := st.SearchConversations(ctx, "deploy", "")
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}
	// Each matching message is its own result.
	if len(results) != 2 {
		t.Fatalf("Got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.SessionID != sess.ID {
			t.Errorf("SessionID = %q, want %q", r.SessionID, sess.ID)
		}
		if r.Relevance != 10 {
			t.Errorf("Relevance = %d, want 10", r.Relevance)
		}
	}
}
