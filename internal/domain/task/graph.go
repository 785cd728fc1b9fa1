package task

import (
	"context"

	"github.com/google/uuid"
)

// PrerequisiteSource provides the outgoing prerequisite edges of a task.
// The repository satisfies it against the adjacency table; tests use a
// map-backed fake.
type PrerequisiteSource interface {
	Prerequisites(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
}

// wouldCreateCycle reports whether adding the edge taskID -> candidateID
// would close a cycle, i.e. whether taskID is already reachable from
// candidateID through existing prerequisite edges. The walk is an
// iterative DFS with an explicit stack so deep prerequisite chains cannot
// exhaust the call stack. Revisiting a node through a different path
// (diamond dependencies) is not a cycle; only a path back to taskID is.
func wouldCreateCycle(ctx context.Context, src PrerequisiteSource, taskID, candidateID uuid.UUID) (bool, error) {
	if taskID == candidateID {
		return true, nil
	}

	visited := make(map[uuid.UUID]bool)
	stack := []uuid.UUID{candidateID}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node == taskID {
			return true, nil
		}
		if visited[node] {
			continue
		}
		visited[node] = true

		next, err := src.Prerequisites(ctx, node)
		if err != nil {
			return false, err
		}
		stack = append(stack, next...)
	}

	return false, nil
}
