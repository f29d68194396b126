package recorder

import (
	"time"

	"github.com/seenimoa/finvizlite/pkg/models"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordFundamentals(_ string, _ time.Time, _ models.Fundamentals) error {
	return nil
}
func (n *NoopRecorder) RecordNews(_ string, _ []models.NewsItem) error { return nil }
func (n *NoopRecorder) RecordRatings(_ string, _ []models.Rating) error { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }
