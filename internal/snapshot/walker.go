package snapshot

import (
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
)

// Walker turns listing nodes into provisional job records.
type Walker struct {
	logger *zap.Logger
	// URLBase prefixes the placeholder URL of every record.
	URLBase string
	Now     func() time.Time
}

func NewWalker(logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Walker{
		logger:  logger,
		URLBase: jobs.DefaultURLBase,
		Now:     time.Now,
	}
}

// Walk emits one record per listing node in traversal order. Nested listings
// are emitted independently. Records carry temporary ids unique within the walk.
func (w *Walker) Walk(roots []*Node) []*jobs.Record {
	records := make([]*jobs.Record, 0)
	seen := make(map[string]bool)

	visit(roots, func(n *Node) {
		if !n.IsListing() {
			return
		}

		now := w.Now().UTC()
		fields := jobs.ParseLabel(n.Name)

		id := jobs.NewTemporaryID(now)
		for seen[id] {
			id = jobs.NewTemporaryID(now)
		}
		seen[id] = true

		records = append(records, &jobs.Record{
			JobID:        id,
			DiscoveredAt: now,
			Title:        fields.Title,
			Company:      fields.Company,
			URL:          jobs.PlaceholderURL(w.URLBase, id),
			Location:     fields.Location,
			SalaryRange:  fields.SalaryRange,
			Ref:          n.Ref,
		})
	})

	w.logger.Debug("walked snapshot", zap.Int("listings", len(records)))

	return records
}
