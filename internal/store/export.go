package store

import (
	"fmt"
	"time"

	"github.com/learnmate/learnmate/internal/model"
)

// ExportAll builds a full dump of every thread's state and conversation log.
func (s *Store) ExportAll() (*model.Export, error) {
	ids, err := s.ListThreadIDs()
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	export := &model.Export{
		ExportedAt: time.Now(),
		NumThreads: len(ids),
	}
	for _, id := range ids {
		state, err := s.LoadSession(id)
		if err != nil {
			return nil, fmt.Errorf("load thread %s: %w", id, err)
		}
		if state == nil {
			continue
		}
		msgs, err := s.GetLog(id)
		if err != nil {
			return nil, fmt.Errorf("load log %s: %w", id, err)
		}
		export.Threads = append(export.Threads, model.ThreadExport{
			State:    *state,
			Messages: msgs,
		})
	}
	return export, nil
}
