package task

import "sort"

// Eligible returns the pending tasks whose every dependency resolves to
// a completed task, preserving list order. A dependency id that does
// not appear in the list counts as unsatisfied, not as an error: the
// task simply stays blocked.
func Eligible(list []Task) []Task {
	byID := make(map[string]Status, len(list))
	for _, t := range list {
		byID[t.ID] = t.Status
	}

	var ready []Task
	for _, t := range list {
		if t.Status != StatusPending {
			continue
		}
		blocked := false
		for _, dep := range t.Dependencies {
			if st, ok := byID[dep]; !ok || st != StatusCompleted {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, t)
		}
	}
	return ready
}

// NextEligible selects the next task to execute: the eligible task with
// the lowest priority value, ties broken by original list order. The
// second return is false when nothing is eligible, which is distinct
// from the workflow being complete; callers check IsComplete to tell
// blocked-on-dependency apart from done.
func NextEligible(list []Task) (Task, bool) {
	ready := Eligible(list)
	if len(ready) == 0 {
		return Task{}, false
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority < ready[j].Priority
	})
	return ready[0], true
}
