package engine

import "fmt"

// InvalidTransitionError indicates a status change outside the workflow.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s from %s to %s", e.Entity, e.From, e.To)
}

// CircularDependencyError indicates the edge would close a dependency loop.
type CircularDependencyError struct {
	TaskID      string
	DependsOnID string
}

func (e CircularDependencyError) Error() string {
	return fmt.Sprintf("dependency %s -> %s would create a cycle", e.TaskID, e.DependsOnID)
}
