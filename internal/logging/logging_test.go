package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/roadblock/internal/logging"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "WARNING", Format: "JSON", Output: &buf})

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "kept", logging.Int("skipped", 3), logging.Err(errors.New("boom")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, float64(3), rec["skipped"])
	assert.Equal(t, "boom", rec["error"])
}

func TestNew_UnknownLevelMeansInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "nonsense", Output: &buf})

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestWithQueryLogger_ReusesID(t *testing.T) {
	var buf bytes.Buffer
	base := logging.New(logging.Config{Format: "json", Output: &buf})

	ctx, log := logging.WithQueryLogger(context.Background(), base)
	id := logging.QueryID(ctx)
	require.NotEmpty(t, id)

	ctx2, _ := logging.WithQueryLogger(ctx, base)
	assert.Equal(t, id, logging.QueryID(ctx2))
	assert.Empty(t, logging.QueryID(context.Background()))

	log.Info(ctx, "routed")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, id, rec["query_id"])
}

func TestNoop(t *testing.T) {
	log := logging.Noop().With(logging.String("k", "v"))
	assert.NotPanics(t, func() { log.Error(context.Background(), "ignored") })
	assert.Equal(t, logging.Field{Key: "error", Value: ""}, logging.Err(nil))
}
