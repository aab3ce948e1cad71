package screen

import (
	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/dispatch"
	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/tutor"
)

// Env carries the services screens share. Tutor may be nil.
type Env struct {
	Catalog *catalog.Catalog
	Tracker *progress.Tracker
	Queue   *dispatch.Queue
	Tutor   *tutor.Service
	UserID  string
	Logger  *logging.Logger
}
