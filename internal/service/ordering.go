package service

import (
	"github.com/minhpbb/kanban/internal/model"
)

// OrderAssignment is a pending position write for one task.
type OrderAssignment struct {
	TaskID uint
	Order  int
}

// renumberForInsert assigns dense positions 0..N to a column's tasks while
// reserving one slot for a task being inserted. tasks must be the column's
// current occupants in position order, with the inserted task itself already
// excluded. Tasks at or after the reserved slot shift down by one; relative
// order never changes. Only changed positions are returned.
func renumberForInsert(tasks []model.Task, reserved int) []OrderAssignment {
	if reserved < 0 {
		reserved = 0
	}
	if reserved > len(tasks) {
		reserved = len(tasks)
	}
	var changes []OrderAssignment
	next := 0
	for _, t := range tasks {
		if next == reserved {
			next++
		}
		if t.Order != next {
			changes = append(changes, OrderAssignment{TaskID: t.ID, Order: next})
		}
		next++
	}
	return changes
}

// clampOrder bounds a requested insertion slot to the occupiable range for a
// column that currently holds n other tasks.
func clampOrder(order, n int) int {
	if order < 0 {
		return 0
	}
	if order > n {
		return n
	}
	return order
}
