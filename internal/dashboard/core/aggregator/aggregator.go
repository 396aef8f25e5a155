// Package aggregator merges the normalised orders of every user into one
// tagged collection.
package aggregator

import (
	"time"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/normalizer"
)

// Collection is the merged view of all orders. It carries no ordering
// guarantee; callers sort explicitly.
type Collection struct {
	records []entity.OrderRecord
	index   map[recordKey]int
	custom  int
	store   int
	skipped int
}

type recordKey struct {
	userID   string
	orderKey string
}

// Merge normalises and concatenates the orders of users. Malformed users
// are counted in Skipped and otherwise ignored.
func Merge(users []entity.UserDocument) *Collection {
	c := &Collection{index: make(map[recordKey]int)}
	for _, u := range users {
		records, ok := normalizer.Orders(u)
		if !ok {
			c.skipped++
			continue
		}
		for _, r := range records {
			k := recordKey{r.UserID, r.OrderKey}
			if _, dup := c.index[k]; !dup {
				c.index[k] = len(c.records)
			}
			c.records = append(c.records, r)
			switch r.Kind {
			case entity.KindCustom:
				c.custom++
			case entity.KindStore:
				c.store++
			}
		}
	}
	return c
}

// Records returns a copy of the merged records.
func (c *Collection) Records() []entity.OrderRecord {
	if c == nil {
		return nil
	}
	return append([]entity.OrderRecord(nil), c.records...)
}

// Len is the number of merged records.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// MergeTotal is the count of custom orders plus the count of store orders.
func (c *Collection) MergeTotal() int {
	if c == nil {
		return 0
	}
	return c.custom + c.store
}

// Skipped is the number of malformed users left out of the merge.
func (c *Collection) Skipped() int {
	if c == nil {
		return 0
	}
	return c.skipped
}

// Find looks up one order by owner and key. When a user has a custom and a
// store order under the same key, the custom order wins, matching the
// lookup order of the backend.
func (c *Collection) Find(userID, orderKey string) (entity.OrderRecord, bool) {
	if c == nil {
		return entity.OrderRecord{}, false
	}
	i, ok := c.index[recordKey{userID, orderKey}]
	if !ok {
		return entity.OrderRecord{}, false
	}
	return c.records[i], true
}

// Patch replaces status and updatedAt of one record in place. It reports
// false when the record is not part of the collection.
func (c *Collection) Patch(userID, orderKey string, status entity.Status, updatedAt time.Time) bool {
	if c == nil {
		return false
	}
	i, ok := c.index[recordKey{userID, orderKey}]
	if !ok {
		return false
	}
	c.records[i].Status = status
	c.records[i].UpdatedAt = updatedAt
	return true
}
