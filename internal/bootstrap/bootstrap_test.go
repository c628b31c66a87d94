package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brickco/brickco-api/internal/infrastructure/config"
	"github.com/brickco/brickco-api/internal/infrastructure/database/inmemory"
	"github.com/brickco/brickco-api/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStore_InMemory(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	assert.IsType(t, &inmemory.Store{}, store)
	assert.NoError(t, closeFn())
}

func TestOpenStore_DataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brickco.json")
	store, _, err := OpenStore(context.Background(), config.Config{DataFile: path}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &inmemory.Store{}, store)
}

func TestRecorder_DisabledIsNop(t *testing.T) {
	rec, err := Recorder(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, metrics.Nop{}, rec)
}
