// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stats.go - Store-wide aggregate counts.

package store

import "context"

// GetStats aggregates counts from the active backend: total conversations,
// total messages and artifacts summed across them, plus session and project
// record counts. Every count is drawn from stored records, never from
// process memory, so a reopened store reports the same numbers.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	convRecs, err := s.backend.GetAll(ctx, ColConversations)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalConversations: len(convRecs),
		Backend:            s.backend.Name(),
	}
	for _, rec := range convRecs {
		conv, err := decodeConversation(rec)
		if err != nil {
			return nil, err
		}
		stats.TotalMessages += conv.MessageCount()
		stats.TotalArtifacts += conv.ArtifactCount()
	}

	sessRecs, err := s.backend.GetAll(ctx, ColSessions)
	if err != nil {
		return nil, err
	}
	stats.Sessions = len(sessRecs)

	projRecs, err := s.backend.GetAll(ctx, ColProjects)
	if err != nil {
		return nil, err
	}
	stats.Projects = len(projRecs)

	return stats, nil
}
