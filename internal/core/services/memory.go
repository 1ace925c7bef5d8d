package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

// dummyVector is the fixed zero vector written alongside every
// conversation-memory point, since the store requires *some* vector
// but message payloads carry the truth (§4.F).
func dummyVector(dim int) []float32 {
	return make([]float32, dim)
}

// Memory implements the conversation memory component (§4.F) on top
// of a driven.VectorStore, collocated with documents for a single
// stateful dependency.
type Memory struct {
	store      driven.VectorStore
	collection string
	dimension  int
}

func NewMemory(store driven.VectorStore, collection string, dimension int) *Memory {
	return &Memory{store: store, collection: collection, dimension: dimension}
}

// Append assigns a new id and server timestamp to a message and writes
// it to the memory collection.
func (m *Memory) Append(ctx context.Context, sessionID string, role domain.Role, content string) (*domain.Message, error) {
	msg := &domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	payload := map[string]any{
		"session_id": msg.SessionID,
		"role":       string(msg.Role),
		"content":    msg.Content,
		"timestamp":  msg.Timestamp.Format(time.RFC3339Nano),
	}
	if err := m.store.EnsureCollection(ctx, m.collection, m.dimension, driven.DistanceCosine); err != nil {
		return nil, domain.NewError(domain.KindStore, "ensure memory collection", err)
	}
	err := m.store.Upsert(ctx, m.collection, []driven.Point{{
		ID:      msg.ID,
		Vector:  dummyVector(m.dimension),
		Payload: payload,
	}})
	if err != nil {
		return nil, domain.NewError(domain.KindStore, "append message", err)
	}
	return msg, nil
}

// History scrolls the filter session_id=s, sorts ascending by
// timestamp, and returns the most recent limit messages in
// chronological order (§4.F).
func (m *Memory) History(ctx context.Context, sessionID string, limit int) ([]domain.HistoryEntry, error) {
	results, err := m.store.Scroll(ctx, m.collection, driven.Filter{"session_id": sessionID}, 0, 0)
	if err != nil {
		if errors.Is(err, driven.ErrNoSuchCollection) {
			// The memory collection has not been created yet (no
			// session has ever appended a message): empty history.
			return nil, nil
		}
		return nil, domain.NewError(domain.KindStore, "load history", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, historyEntryFromPayload(r.Payload))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func historyEntryFromPayload(p map[string]any) domain.HistoryEntry {
	e := domain.HistoryEntry{}
	if v, ok := p["role"].(string); ok {
		e.Role = domain.Role(v)
	}
	if v, ok := p["content"].(string); ok {
		e.Content = v
	}
	if v, ok := p["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			e.Timestamp = t
		}
	}
	return e
}

// Clear deletes every message for a session, returning the count of
// points that matched (best-effort count via a preceding Count call).
func (m *Memory) Clear(ctx context.Context, sessionID string) (int, error) {
	filter := driven.Filter{"session_id": sessionID}
	n, err := m.store.Count(ctx, m.collection, filter)
	if err != nil {
		if errors.Is(err, driven.ErrNoSuchCollection) {
			return 0, nil
		}
		return 0, domain.NewError(domain.KindStore, "count session messages", err)
	}
	if err := m.store.Delete(ctx, m.collection, filter); err != nil {
		return 0, domain.NewError(domain.KindStore, "clear session", err)
	}
	return int(n), nil
}

// Sweep deletes messages older than maxAge, the TTL background job
// (§4.F, §5). driven.VectorStore only exposes equality-filtered
// delete, not a timestamp range, so sweep scrolls the whole collection
// and deletes each stale point individually by its exact
// (session_id, timestamp) pair - precise enough since a session's
// messages carry distinct nanosecond timestamps.
func (m *Memory) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	results, err := m.store.Scroll(ctx, m.collection, nil, 0, 0)
	if err != nil {
		if errors.Is(err, driven.ErrNoSuchCollection) {
			return 0, nil
		}
		return 0, domain.NewError(domain.KindStore, "scroll for sweep", err)
	}

	var deleted int
	for _, r := range results {
		entry := historyEntryFromPayload(r.Payload)
		if !entry.Timestamp.Before(cutoff) {
			continue
		}
		filter := driven.Filter{
			"session_id": r.Payload["session_id"],
			"timestamp":  r.Payload["timestamp"],
		}
		if err := m.store.Delete(ctx, m.collection, filter); err != nil {
			continue
		}
		deleted++
	}
	return deleted, nil
}
