package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot(moduleID string) domainART.Snapshot {
	return domainART.Snapshot{
		ModuleID:  moduleID,
		Dimension: 4,
		Vigilance: 0.75,
		Categories: []domainART.CategorySnapshot{
			{Weights: []float64{0.1, 0.2, 0.9, 0.8}, UsageCount: 3, Threshold: 0.05},
			{Weights: []float64{0.7, 0.6, 0.3, 0.4}, UsageCount: 1},
		},
		MapField: map[int]int{0: 1, 1: 0},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := newTestStore(t)

	original := sampleSnapshot("module-a")
	id, err := s.Save(original)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := s.Load(id)
	require.NoError(t, err)

	assert.Equal(t, original.ModuleID, loaded.ModuleID)
	assert.Equal(t, original.Dimension, loaded.Dimension)
	assert.Equal(t, original.Vigilance, loaded.Vigilance)
	assert.Equal(t, original.Categories, loaded.Categories)
	assert.Equal(t, original.MapField, loaded.MapField)
}

func TestLoadWithoutMapField(t *testing.T) {
	s := newTestStore(t)

	snap := sampleSnapshot("module-a")
	snap.MapField = nil
	id, err := s.Save(snap)
	require.NoError(t, err)

	loaded, err := s.Load(id)
	require.NoError(t, err)
	assert.Nil(t, loaded.MapField)
}

func TestLoadUnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("no-such-id")
	assert.ErrorIs(t, err, domainART.ErrInvalidArgument)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.Save(sampleSnapshot("module-a"))
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}
	otherID, err := s.Save(sampleSnapshot("module-b"))
	require.NoError(t, err)

	records, err := s.List("module-a")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ids[2], records[0].ID)
	assert.Equal(t, ids[0], records[2].ID)
	assert.Equal(t, 2, records[0].Categories)
	for _, r := range records {
		assert.NotEqual(t, otherID, r.ID)
	}

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPruneKeepsNewestPerModule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSnapshots = 1
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	var lastA string
	for i := 0; i < 3; i++ {
		lastA, err = s.Save(sampleSnapshot("module-a"))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	lastB, err := s.Save(sampleSnapshot("module-b"))
	require.NoError(t, err)

	deleted, err := s.Prune()
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	records, err := s.List("")
	require.NoError(t, err)
	require.Len(t, records, 2)
	kept := map[string]bool{records[0].ID: true, records[1].ID: true}
	assert.True(t, kept[lastA], "newest module-a snapshot pruned")
	assert.True(t, kept[lastB], "module-b snapshot pruned")
}

func TestClosedStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Save(sampleSnapshot("module-a"))
	assert.ErrorIs(t, err, domainART.ErrIllegalState)
	_, err = s.Load("any")
	assert.ErrorIs(t, err, domainART.ErrIllegalState)
	_, err = s.List("")
	assert.ErrorIs(t, err, domainART.ErrIllegalState)
	_, err = s.Prune()
	assert.ErrorIs(t, err, domainART.ErrIllegalState)

	// Close is idempotent.
	assert.NoError(t, s.Close())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{DBPath: "", MaxSnapshots: 4}.Validate(), domainART.ErrInvalidArgument)
	assert.ErrorIs(t, Config{DBPath: ":memory:", MaxSnapshots: 0}.Validate(), domainART.ErrInvalidArgument)
}
