package googlejobs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobspy-service/pkg/models"
)

func TestCollectorMergeIdempotent(t *testing.T) {
	batch := []models.JobRecord{
		record("Engineer", "Acme"),
		record("Analyst", "Globex"),
	}

	c := NewCollector()
	assert.Equal(t, 2, c.Merge(batch))
	assert.Equal(t, 0, c.Merge(batch))
	assert.Equal(t, 2, c.Len())
}

func TestCollectorKeyIsCaseInsensitive(t *testing.T) {
	c := NewCollector()
	c.Merge([]models.JobRecord{record("Engineer", "Acme")})
	added := c.Merge([]models.JobRecord{record("ENGINEER", "acme")})

	assert.Equal(t, 0, added)
	assert.Equal(t, 1, c.Len())
}

func TestCollectorPreservesDiscoveryOrder(t *testing.T) {
	c := NewCollector()
	c.Merge([]models.JobRecord{record("B", "1"), record("A", "2")})
	c.Merge([]models.JobRecord{record("C", "3"), record("A", "2")})

	records := c.Records(0)
	titles := []string{records[0].Title, records[1].Title, records[2].Title}
	assert.Equal(t, []string{"B", "A", "C"}, titles)
}

func TestCollectorTruncation(t *testing.T) {
	c := NewCollector()
	c.Merge([]models.JobRecord{record("A", "1"), record("B", "2"), record("C", "3")})

	assert.Len(t, c.Records(2), 2)
	assert.Len(t, c.Records(0), 3)
	assert.Len(t, c.Records(10), 3)
}
