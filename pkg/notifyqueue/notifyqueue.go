// Package notifyqueue implements the scheduler's deduplicated
// pending-acknowledgement set.
package notifyqueue

import (
	"path/filepath"
	"sync"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/scanner"
	"github.com/atomicobject/promptvault/pkg/vaulterr"
)

// Queue is a concurrent set of pending TaskRecords keyed by task id.
type Queue struct {
	mu      sync.Mutex
	pending map[string]scanner.TaskRecord
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{pending: make(map[string]scanner.TaskRecord)}
}

// Add inserts record if its id is not already pending. It returns true iff
// the record was newly inserted — the caller's dedup signal for whether to
// emit a task_due event.
func (q *Queue) Add(record scanner.TaskRecord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.pending[record.ID]; exists {
		return false
	}
	q.pending[record.ID] = record
	return true
}

// Clear empties the queue, used on scheduler startup baseline reset.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = make(map[string]scanner.TaskRecord)
}

// List re-reads each pending record's document directory and returns the
// full payloads, so the host sees current content rather than a stale
// snapshot. Records whose directory can no longer be read are silently
// dropped rather than failing the whole call.
func (q *Queue) List() []document.Document {
	q.mu.Lock()
	records := make([]scanner.TaskRecord, 0, len(q.pending))
	for _, r := range q.pending {
		records = append(records, r)
	}
	q.mu.Unlock()

	docs := make([]document.Document, 0, len(records))
	for _, r := range records {
		doc, err := document.Read(r.DirPath, filepath.Dir(r.DirPath))
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// Acknowledge removes id from the queue and persists a fresh last_notified
// baseline on its metadata file. It fails with vaulterr.MissingTask if id
// was not pending.
func (q *Queue) Acknowledge(id string, nowUnix int64) error {
	q.mu.Lock()
	record, ok := q.pending[id]
	if ok {
		delete(q.pending, id)
	}
	q.mu.Unlock()

	if !ok {
		return vaulterr.New(vaulterr.MissingTask, "acknowledge_task", "no pending task with that id")
	}

	metaPath := filepath.Join(record.DirPath, document.MetaFileName)
	if err := atomicstore.UpdateLastNotified(metaPath, nowUnix); err != nil {
		return vaulterr.Wrap(vaulterr.Io, "acknowledge_task", "failed to persist acknowledgement", err)
	}
	return nil
}
