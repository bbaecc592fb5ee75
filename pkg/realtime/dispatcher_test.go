package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Invalidate(key string) {
	c.invalidated = append(c.invalidated, key)
}

func TestDispatchInvalidatesMappedKeys(t *testing.T) {
	cache := &recordingCache{}
	dispatcher := NewDispatcher(cache, zap.NewNop())

	dispatcher.Dispatch([]byte(`{"type":"file_uploaded","data":{"id":1}}`))

	assert.ElementsMatch(t, []string{KeyFiles, KeyAdminFiles, KeyStats}, cache.invalidated)
}

func TestDispatchUnknownEventIgnored(t *testing.T) {
	cache := &recordingCache{}
	dispatcher := NewDispatcher(cache, zap.NewNop())

	dispatcher.Dispatch([]byte(`{"type":"some_future_event","data":null}`))

	assert.Empty(t, cache.invalidated)
}

func TestDispatchMalformedFrameDropped(t *testing.T) {
	cache := &recordingCache{}
	dispatcher := NewDispatcher(cache, zap.NewNop())

	require.NotPanics(t, func() {
		dispatcher.Dispatch([]byte(`{not json`))
	})
	assert.Empty(t, cache.invalidated)
}

func TestDispatchForwardEvent(t *testing.T) {
	cache := &recordingCache{}
	dispatcher := NewDispatcher(cache, zap.NewNop())

	var gotType string
	var gotData json.RawMessage
	dispatcher.OnEvent = func(eventType string, data json.RawMessage) {
		gotType = eventType
		gotData = data
	}

	dispatcher.Dispatch([]byte(`{"type":"tag_created","data":{"name":"firmware"}}`))

	assert.Equal(t, "tag_created", gotType)
	assert.JSONEq(t, `{"name":"firmware"}`, string(gotData))
}

func TestInvalidationKeysCoverEveryMutationEvent(t *testing.T) {
	// Every published event type must invalidate at least one key, so a
	// consumer never caches past a mutation it received.
	for eventType, keys := range invalidations {
		assert.NotEmpty(t, keys, "event %q has no invalidation keys", eventType)
	}
	assert.Equal(t, invalidations["direct_message"], InvalidationKeys("direct_message"))
	assert.Nil(t, InvalidationKeys("nonexistent"))
}
