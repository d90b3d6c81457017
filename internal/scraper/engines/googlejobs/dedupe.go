package googlejobs

import "jobspy-service/pkg/models"

// Collector accumulates unique job records across pagination rounds,
// keyed by lowercased (title, company). Insertion order is preserved.
type Collector struct {
	records []models.JobRecord
	seen    map[string]struct{}
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Merge adds records not already present and returns how many were new.
// Merging the same batch twice adds nothing the second time.
func (c *Collector) Merge(records []models.JobRecord) int {
	added := 0
	for _, r := range records {
		key := r.DedupKey()
		if _, ok := c.seen[key]; ok {
			continue
		}
		c.seen[key] = struct{}{}
		c.records = append(c.records, r)
		added++
	}
	return added
}

// Len returns the number of unique records collected so far.
func (c *Collector) Len() int {
	return len(c.records)
}

// Records returns the collected records in discovery order, truncated to
// max when max is positive.
func (c *Collector) Records(max int) []models.JobRecord {
	if max > 0 && len(c.records) > max {
		return c.records[:max]
	}
	return c.records
}
