package usecase_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/careshell/internal/application/usecase"
)

func TestSnapshotSchema(t *testing.T) {
	schema := usecase.SnapshotSchema()
	assert.Equal(t, "careshell tab snapshot", schema.Title)

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "tabs")
	assert.Contains(t, props, "activeId")
}
