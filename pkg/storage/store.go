package storage

import (
	"github.com/tracklet/tracklet/pkg/config"
	"github.com/tracklet/tracklet/pkg/types"
)

// Store is the durable key-value persistence surface. Each document is
// stored independently; there is no cross-document transaction, so a
// crash between two writes can leave documents from different moments.
// Callers must tolerate that (the session restore path does).
//
// Load methods return (nil, nil) when the document has never been
// written.
type Store interface {
	SaveSession(s *types.SessionSnapshot) error
	LoadSession() (*types.SessionSnapshot, error)
	ClearSession() error

	SaveTimerSnapshot(t *types.TimerSnapshot) error
	LoadTimerSnapshot() (*types.TimerSnapshot, error)

	SaveHistory(h *types.History) error
	LoadHistory() (*types.History, error)

	SaveSettings(s *config.Settings) error
	LoadSettings() (*config.Settings, error)

	Close() error
}
