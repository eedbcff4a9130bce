package invoice

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type memArtifacts struct {
	m    sync.Mutex
	data map[string][]byte
	err  error
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{data: map[string][]byte{}}
}

func (m *memArtifacts) Put(_ context.Context, key string, data []byte) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = data
	return nil
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:      uuid.New(),
		OwnerID: "u1",
		Lines: []domain.OrderLine{
			{ProductID: "p1", Title: "A Book", Price: decimal.NewFromFloat(12.99), Quantity: 2},
			{ProductID: "p2", Title: "A Pen", Price: decimal.NewFromFloat(1.50), Quantity: 1},
		},
		PlacedAt: time.Now(),
	}
}

func TestRenderFormat(t *testing.T) {
	o := testOrder()
	var buf bytes.Buffer
	require.NoError(t, Render(o, &buf))

	out := buf.String()
	assert.Contains(t, out, "Invoice #"+o.ID.String())
	assert.Contains(t, out, "A Book – 2 x 12.99")
	assert.Contains(t, out, "A Pen – 1 x 1.50")
	assert.True(t, strings.HasSuffix(out, "Total: 27.48\n"))
}

func TestRenderIsPure(t *testing.T) {
	o := testOrder()
	var a, b bytes.Buffer
	require.NoError(t, Render(o, &a))
	require.NoError(t, Render(o, &b))
	assert.Equal(t, a.String(), b.String())
}

func TestGenerateStreamsAndPersists(t *testing.T) {
	o := testOrder()
	artifacts := newMemArtifacts()
	g := NewGenerator(artifacts)

	var stream bytes.Buffer
	require.NoError(t, g.Generate(context.Background(), o, &stream))

	artifacts.m.Lock()
	stored := artifacts.data[ArtifactKey(o.ID)]
	artifacts.m.Unlock()
	assert.Equal(t, stream.Bytes(), stored)
	assert.Contains(t, stream.String(), "Total: 27.48")
}

func TestGenerateArtifactFailureDoesNotFailRequest(t *testing.T) {
	o := testOrder()
	artifacts := newMemArtifacts()
	artifacts.err = assert.AnError
	g := NewGenerator(artifacts)

	var stream bytes.Buffer
	require.NoError(t, g.Generate(context.Background(), o, &stream))
	assert.Contains(t, stream.String(), "Total: 27.48")
}

func TestGenerateCancelledCallerStillPersists(t *testing.T) {
	o := testOrder()
	artifacts := newMemArtifacts()
	g := NewGenerator(artifacts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stream bytes.Buffer
	err := g.Generate(ctx, o, &stream)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stream.Len())

	artifacts.m.Lock()
	defer artifacts.m.Unlock()
	assert.NotEmpty(t, artifacts.data[ArtifactKey(o.ID)])
}

func TestFSArtifactStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSArtifactStore(dir)
	require.NoError(t, err)

	key := ArtifactKey(uuid.New())
	require.NoError(t, store.Put(context.Background(), key, []byte("hello")))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
