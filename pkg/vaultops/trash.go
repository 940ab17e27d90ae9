package vaultops

import (
	"os"
	"path/filepath"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
	"github.com/atomicobject/promptvault/pkg/vaulterr"
)

const (
	trashVisitsFileName  = ".trash-visits.json"
	defaultTrashThreshold = 10
)

// TrashStatus is the result of trash_status.
type TrashStatus struct {
	Threshold int            `json:"threshold"`
	Counts    map[string]int `json:"counts"`
}

// DeletedItem records one item permanently removed by a trash_visit call.
type DeletedItem struct {
	Name   string `json:"name"`
	Visits int    `json:"visits"`
}

// TrashVisitResult is the result of trash_visit.
type TrashVisitResult struct {
	Threshold    int            `json:"threshold"`
	VisitedCount int            `json:"visitedCount"`
	Deleted      []DeletedItem  `json:"deleted"`
	Counts       map[string]int `json:"counts"`
}

func resolveThreshold(threshold *int) int {
	if threshold == nil || *threshold <= 0 {
		return defaultTrashThreshold
	}
	return *threshold
}

func (o *Ops) loadVisits() (map[string]int, error) {
	path := filepath.Join(trashDir(o.Root), trashVisitsFileName)
	var visits map[string]int
	if err := atomicstore.ReadJSON(path, &visits); err != nil {
		if os.IsNotExist(err) {
			return map[string]int{}, nil
		}
		return nil, err
	}
	if visits == nil {
		visits = map[string]int{}
	}
	return visits, nil
}

func (o *Ops) saveVisits(visits map[string]int) error {
	path := filepath.Join(trashDir(o.Root), trashVisitsFileName)
	return atomicstore.WriteJSON(path, visits)
}

// currentTrashItems lists the basenames presently under trash/, excluding
// the visits bookkeeping file itself.
func (o *Ops) currentTrashItems() (map[string]bool, error) {
	entries, err := os.ReadDir(trashDir(o.Root))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	items := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			items[entry.Name()] = true
		}
	}
	return items, nil
}

// pruneVisits drops counters for names no longer present under trash/,
// keeping the persisted map in sync with reality (e.g. after a manual
// deletion outside this process).
func pruneVisits(visits map[string]int, present map[string]bool) map[string]int {
	pruned := make(map[string]int, len(visits))
	for name, count := range visits {
		if present[name] {
			pruned[name] = count
		}
	}
	return pruned
}

// TrashStatus reports current visit counters, after pruning stale entries.
func (o *Ops) TrashStatus(threshold *int) (TrashStatus, error) {
	present, err := o.currentTrashItems()
	if err != nil {
		return TrashStatus{}, vaulterr.Wrap(vaulterr.Io, "trash_status", "failed to list trash", err)
	}
	visits, err := o.loadVisits()
	if err != nil {
		return TrashStatus{}, vaulterr.Wrap(vaulterr.Io, "trash_status", "failed to load visit counters", err)
	}
	visits = pruneVisits(visits, present)
	return TrashStatus{Threshold: resolveThreshold(threshold), Counts: visits}, nil
}

// TrashVisit increments every current trash item's visit counter by one;
// any item whose counter reaches threshold is permanently deleted and
// purged from the counters. VisitedCount is the number of items processed
// by this call, not a cumulative total.
func (o *Ops) TrashVisit(threshold *int) (TrashVisitResult, error) {
	th := resolveThreshold(threshold)

	present, err := o.currentTrashItems()
	if err != nil {
		return TrashVisitResult{}, vaulterr.Wrap(vaulterr.Io, "trash_visit", "failed to list trash", err)
	}
	visits, err := o.loadVisits()
	if err != nil {
		return TrashVisitResult{}, vaulterr.Wrap(vaulterr.Io, "trash_visit", "failed to load visit counters", err)
	}
	visits = pruneVisits(visits, present)

	var deleted []DeletedItem
	visited := 0
	for name := range present {
		visited++
		next := visits[name] + 1
		if next >= th {
			if err := os.RemoveAll(filepath.Join(trashDir(o.Root), name)); err != nil {
				return TrashVisitResult{}, vaulterr.Wrap(vaulterr.Io, "trash_visit", "failed to delete expired trash item", err)
			}
			deleted = append(deleted, DeletedItem{Name: name, Visits: next})
			delete(visits, name)
			continue
		}
		visits[name] = next
	}

	if err := o.saveVisits(visits); err != nil {
		return TrashVisitResult{}, vaulterr.Wrap(vaulterr.Io, "trash_visit", "failed to persist visit counters", err)
	}

	return TrashVisitResult{
		Threshold:    th,
		VisitedCount: visited,
		Deleted:      deleted,
		Counts:       visits,
	}, nil
}
