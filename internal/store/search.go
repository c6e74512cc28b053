// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search.go - Linear-scan keyword search over conversation messages.

package store

import (
	"context"
	"sort"
	"strings"
)

// Relevance weights. The formula is part of the store's compatibility
// surface: callers depend on existing result ordering, so the weights and
// the per-token rules must not change.
const (
	scoreExact     = 10 // token equals the query
	scorePartial   = 5  // token contains the query
	scoreContained = 2  // token is itself a substring of the query
)

// SearchConversations performs a case-insensitive substring search of query
// across every message's content in every conversation, restricted to one
// project when projectID is non-empty. All candidate conversations are fully
// materialized and scanned linearly; no index is used even on the SQLite
// engine.
//
// Every message whose content contains the query becomes one result scored
// by scoreContent; a match that spans token boundaries can legitimately
// score zero. Results are ordered by descending relevance; ties keep
// encounter order (conversations newest-first, messages in sequence order).
//
// An empty or all-whitespace query returns no results.
func (s *Store) SearchConversations(ctx context.Context, query, projectID string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	q := strings.ToLower(query)

	var (
		convs []*Conversation
		err   error
	)
	if projectID != "" {
		convs, err = s.GetProjectConversations(ctx, projectID)
	} else {
		var recs []*Record
		recs, err = s.backend.GetAll(ctx, ColConversations)
		if err == nil {
			convs, err = decodeConversations(recs)
		}
	}
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, conv := range convs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, msg := range conv.Messages {
			content := strings.ToLower(msg.Content)
			if !strings.Contains(content, q) {
				continue
			}
			results = append(results, SearchResult{
				SessionID: conv.SessionID,
				ProjectID: conv.ProjectID,
				Message:   msg,
				Relevance: scoreContent(content, q),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}

// scoreContent sums the per-token relevance of lowercased message content
// against a lowercased query: an exact token match scores 10, a token
// containing the query scores 5, a token that is a substring of the query
// scores 2. First matching rule wins per token.
func scoreContent(content, query string) int {
	score := 0
	for _, token := range strings.Fields(content) {
		switch {
		case token == query:
			score += scoreExact
		case strings.Contains(token, query):
			score += scorePartial
		case strings.Contains(query, token):
			score += scoreContained
		}
	}
	return score
}
