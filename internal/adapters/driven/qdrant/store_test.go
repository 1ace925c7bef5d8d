package qdrant

import (
	"testing"

	qc "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

// These cover the pure request/response mapping this adapter does
// around the Qdrant client - the client itself needs a live server,
// so Store's gRPC-calling methods aren't exercised here.

func TestToQdrantFilter_Empty(t *testing.T) {
	assert.Nil(t, toQdrantFilter(nil))
	assert.Nil(t, toQdrantFilter(driven.Filter{}))
}

func TestToQdrantFilter_BuildsMustConditions(t *testing.T) {
	f := toQdrantFilter(driven.Filter{"source_id": "doc-1"})
	if assert.NotNil(t, f) {
		assert.Len(t, f.Must, 1)
	}
}

func TestFromValueMap_RoundTripsThroughNewValueMap(t *testing.T) {
	payload := qc.NewValueMap(map[string]any{
		"source_id": "doc-1",
		"chunk":     "hello",
	})
	out := fromValueMap(payload)
	assert.Equal(t, "doc-1", out["source_id"])
	assert.Equal(t, "hello", out["chunk"])
}

// Qdrant's protobuf IntegerValue round-trips as int64, not int -
// chunkFromPayload in internal/core/services/retrieval.go must accept
// that shape (see intFromPayload there), not just the plain int a
// fake store would hold in memory.
func TestFromValueMap_IntegerFieldRoundTripsAsInt64(t *testing.T) {
	payload := qc.NewValueMap(map[string]any{
		"chunk_index":  3,
		"total_chunks": 7,
	})
	out := fromValueMap(payload)
	assert.IsType(t, int64(0), out["chunk_index"])
	assert.Equal(t, int64(3), out["chunk_index"])
	assert.Equal(t, int64(7), out["total_chunks"])
}

func TestPointIDString_PrefersUUID(t *testing.T) {
	id := qc.NewIDUUID("abc-123")
	assert.Equal(t, "abc-123", pointIDString(id))
}

func TestPointIDString_Nil(t *testing.T) {
	assert.Equal(t, "", pointIDString(nil))
}
