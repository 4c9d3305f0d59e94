package tasks

import (
	"sort"

	"taskdeck/internal/domain"
	"taskdeck/internal/logging"
)

// ReorderByIDs recomputes the task sequence from the visual order produced
// by a drag interaction. Tasks are sorted by the position of their id in
// orderedIDs; ids missing from orderedIDs rank ahead of everything else and
// keep their original relative order. A missing id means the caller handed
// us a stale order, which is logged rather than treated as fatal.
func ReorderByIDs(tasks domain.TaskList, orderedIDs []int64) domain.TaskList {
	rank := make(map[int64]int, len(orderedIDs))
	for i, id := range orderedIDs {
		rank[id] = i
	}

	result := tasks.Clone()
	sort.SliceStable(result, func(i, j int) bool {
		return rankOf(rank, result[i].ID) < rankOf(rank, result[j].ID)
	})

	for _, t := range tasks {
		if _, ok := rank[t.ID]; !ok {
			logging.Debugf("reorder: task %d missing from supplied order\n", t.ID)
		}
	}

	return result
}

// rankOf returns the position of id in the supplied order, or -1 when absent.
func rankOf(rank map[int64]int, id int64) int {
	if r, ok := rank[id]; ok {
		return r
	}
	return -1
}

// sameIDSet reports whether ids is exactly a permutation of the ids in tasks.
func sameIDSet(tasks domain.TaskList, ids []int64) bool {
	if len(tasks) != len(ids) {
		return false
	}
	want := make(map[int64]int, len(tasks))
	for _, t := range tasks {
		want[t.ID]++
	}
	for _, id := range ids {
		if want[id] == 0 {
			return false
		}
		want[id]--
	}
	return true
}
