package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapPrereqSource backs the graph walk with an in-memory adjacency map
type mapPrereqSource struct {
	edges map[uuid.UUID][]uuid.UUID
}

func (m *mapPrereqSource) Prerequisites(_ context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	return m.edges[taskID], nil
}

func TestWouldCreateCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	d := uuid.New()

	tests := []struct {
		name      string
		edges     map[uuid.UUID][]uuid.UUID
		taskID    uuid.UUID
		candidate uuid.UUID
		cyclic    bool
	}{
		{
			name:      "self edge is a cycle",
			edges:     map[uuid.UUID][]uuid.UUID{},
			taskID:    a,
			candidate: a,
			cyclic:    true,
		},
		{
			name:      "no existing edges",
			edges:     map[uuid.UUID][]uuid.UUID{},
			taskID:    a,
			candidate: b,
			cyclic:    false,
		},
		{
			name: "direct two-node cycle",
			edges: map[uuid.UUID][]uuid.UUID{
				b: {a},
			},
			taskID:    a,
			candidate: b,
			cyclic:    true,
		},
		{
			name: "transitive cycle through a chain",
			edges: map[uuid.UUID][]uuid.UUID{
				c: {b},
				b: {a},
			},
			taskID:    a,
			candidate: c,
			cyclic:    true,
		},
		{
			name: "diamond is not a cycle",
			edges: map[uuid.UUID][]uuid.UUID{
				b: {d},
				c: {d},
				a: {b},
			},
			taskID:    a,
			candidate: c,
			cyclic:    false,
		},
		{
			name: "unrelated component",
			edges: map[uuid.UUID][]uuid.UUID{
				c: {d},
			},
			taskID:    a,
			candidate: c,
			cyclic:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mapPrereqSource{edges: tt.edges}
			cyclic, err := wouldCreateCycle(context.Background(), src, tt.taskID, tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.cyclic, cyclic)
		})
	}
}

func TestWouldCreateCycleRevisitsNodesOnce(t *testing.T) {
	// A dense diamond lattice would blow up without the visited set.
	nodes := make([]uuid.UUID, 20)
	for i := range nodes {
		nodes[i] = uuid.New()
	}
	edges := map[uuid.UUID][]uuid.UUID{}
	for i := 0; i < len(nodes)-2; i++ {
		edges[nodes[i]] = []uuid.UUID{nodes[i+1], nodes[i+2]}
	}

	src := &mapPrereqSource{edges: edges}
	target := uuid.New()
	cyclic, err := wouldCreateCycle(context.Background(), src, target, nodes[0])
	require.NoError(t, err)
	assert.False(t, cyclic)
}
