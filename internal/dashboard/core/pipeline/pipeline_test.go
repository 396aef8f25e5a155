package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

func day(d int, hour, minute, sec int) time.Time {
	return time.Date(2026, 3, d, hour, minute, sec, 0, time.UTC)
}

func customOrder(key string, status entity.Status, ts time.Time, files ...string) entity.OrderRecord {
	items := make([]entity.FileLineItem, len(files))
	for i, f := range files {
		items[i] = entity.FileLineItem{FileName: f, Quantity: 1}
	}
	return entity.OrderRecord{
		Kind:           entity.KindCustom,
		OrderKey:       key,
		OrderID:        key,
		UserID:         "u1",
		UserName:       "Ana Lima",
		UserPhone:      "555-0100",
		Status:         status,
		OrderTimestamp: ts,
		Custom:         &entity.CustomDetails{Files: items},
	}
}

func storeOrder(key string, status entity.Status, ts time.Time, items ...string) entity.OrderRecord {
	lines := make([]entity.ProductLineItem, len(items))
	for i, n := range items {
		lines[i] = entity.ProductLineItem{Name: n, Quantity: 1}
	}
	return entity.OrderRecord{
		Kind:           entity.KindStore,
		OrderKey:       key,
		OrderID:        key,
		UserID:         "u2",
		UserName:       "Bo Chen",
		UserPhone:      "555-0200",
		Status:         status,
		OrderTimestamp: ts,
		Store:          &entity.StoreDetails{Items: lines},
	}
}

func fixture() []entity.OrderRecord {
	return []entity.OrderRecord{
		customOrder("C-1", entity.StatusPending, day(1, 9, 0, 0), "bracket_v2.stl", "case.stl"),
		customOrder("C-2", entity.StatusPrinting, day(3, 9, 0, 0), "gear.stl"),
		customOrder("C-3", entity.StatusRefunded, time.Time{}),
		storeOrder("S-1", entity.StatusDelivered, day(2, 23, 59, 59), "Desk Lamp"),
		storeOrder("S-2", entity.StatusPaid, day(5, 0, 0, 0), "Vase"),
		storeOrder("S-3", entity.StatusCompleted, day(4, 12, 0, 0), "Bracket Set"),
	}
}

func keys(records []entity.OrderRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.OrderKey
	}
	return out
}

func TestByCategory(t *testing.T) {
	tests := []struct {
		category entity.Category
		want     []string
	}{
		{entity.CategoryPending, []string{"C-1", "S-2"}},
		{entity.CategoryInProgress, []string{"C-2"}},
		{entity.CategoryCompleted, []string{"S-1", "S-3"}},
		{entity.CategoryCancelledRefunded, []string{"C-3"}},
		{"", []string{"C-1", "C-2", "C-3", "S-1", "S-2", "S-3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := ByCategory(tt.category)(fixture())
			assert.Equal(t, tt.want, keys(got))
			for _, r := range got {
				if tt.category != "" {
					assert.Equal(t, tt.category, r.Category())
				}
			}
		})
	}
}

func TestFilter_StricterFiltersNeverGrow(t *testing.T) {
	records := fixture()
	steps := []Params{
		{},
		{Category: entity.CategoryCompleted},
		{Category: entity.CategoryCompleted, Status: entity.StatusDelivered},
		{Category: entity.CategoryCompleted, Status: entity.StatusDelivered, Term: "lamp"},
		{Category: entity.CategoryCompleted, Status: entity.StatusDelivered, Term: "lamp", DateFrom: day(3, 0, 0, 0)},
	}
	prev := len(records) + 1
	for i, p := range steps {
		n := len(Filter(records, p))
		assert.LessOrEqual(t, n, prev, "step %d", i)
		prev = n
	}
	assert.Zero(t, prev)
}

func TestByStatus_IndependentOfCategory(t *testing.T) {
	got := Filter(fixture(), Params{Category: entity.CategoryPending, Status: entity.StatusDelivered})
	assert.Empty(t, got)
}

func TestByKind(t *testing.T) {
	assert.Equal(t, []string{"C-1", "C-2", "C-3"}, keys(ByKind(entity.KindCustom)(fixture())))
	assert.Len(t, ByKind("")(fixture()), 6)
}

func TestBySearch(t *testing.T) {
	tests := []struct {
		name  string
		field SearchField
		term  string
		want  []string
	}{
		{"file name match", SearchFileName, "bracket", []string{"C-1", "S-3"}},
		{"file name miss", SearchFileName, "widget", []string{}},
		{"case insensitive", SearchFileName, "BRACKET_V2", []string{"C-1"}},
		{"order id", SearchOrderID, "s-", []string{"S-1", "S-2", "S-3"}},
		{"user name", SearchUserName, "chen", []string{"S-1", "S-2", "S-3"}},
		{"user phone", SearchUserPhone, "0100", []string{"C-1", "C-2", "C-3"}},
		{"all fields", SearchAll, "gear", []string{"C-2"}},
		{"all fields by phone", "", "0200", []string{"S-1", "S-2", "S-3"}},
		{"blank term", SearchOrderID, "   ", []string{"C-1", "C-2", "C-3", "S-1", "S-2", "S-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(BySearch(tt.field, tt.term)(fixture())))
		})
	}
}

func TestBySearch_ScenarioB(t *testing.T) {
	rec := []entity.OrderRecord{customOrder("K", entity.StatusPending, day(1, 0, 0, 0), "bracket_v2.stl", "case.stl")}
	assert.Len(t, BySearch(SearchFileName, "bracket")(rec), 1)
	assert.Empty(t, BySearch(SearchFileName, "widget")(rec))
}

func TestByDateRange(t *testing.T) {
	records := fixture()

	got := ByDateRange(day(2, 15, 0, 0), day(2, 1, 0, 0))(records)
	assert.Equal(t, []string{"S-1"}, keys(got), "bounds cover the whole calendar day")

	got = ByDateRange(day(4, 0, 0, 0), time.Time{})(records)
	assert.Equal(t, []string{"S-2", "S-3"}, keys(got))

	got = ByDateRange(time.Time{}, day(1, 0, 0, 0))(records)
	assert.Equal(t, []string{"C-1"}, keys(got), "records without timestamp are dropped")

	assert.Len(t, ByDateRange(time.Time{}, time.Time{})(records), 6)
}

func TestByDateRange_SubSecondEndOfDay(t *testing.T) {
	rec := []entity.OrderRecord{
		customOrder("late", entity.StatusPending, day(2, 23, 59, 59).Add(500*time.Millisecond)),
		customOrder("midnight", entity.StatusPending, day(3, 0, 0, 0)),
	}
	got := ByDateRange(day(2, 0, 0, 0), day(2, 0, 0, 0))(rec)
	assert.Equal(t, []string{"late"}, keys(got))
}

func TestByDateRange_UsesBoundLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2026-03-01T20:00Z is 2026-03-02 01:00 in UTC+5.
	rec := []entity.OrderRecord{customOrder("K", entity.StatusPending, day(1, 20, 0, 0))}
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	assert.Len(t, ByDateRange(from, from)(rec), 1)
}

func TestSort(t *testing.T) {
	newest := Sort(SortNewest)(fixture())
	assert.Equal(t, []string{"S-2", "S-3", "C-2", "S-1", "C-1", "C-3"}, keys(newest))
	for i := 1; i < len(newest); i++ {
		assert.False(t, sortKey(&newest[i-1]).Before(sortKey(&newest[i])))
	}

	oldest := Sort(SortOldest)(fixture())
	assert.Equal(t, []string{"C-3", "C-1", "S-1", "C-2", "S-3", "S-2"}, keys(oldest))

	assert.Equal(t, keys(newest), keys(Sort("")(fixture())), "newest is the default")
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Sort(SortNewest)(in)
	assert.Equal(t, "C-1", in[0].OrderKey)
}

func manyOrders(n int) []entity.OrderRecord {
	out := make([]entity.OrderRecord, n)
	for i := range out {
		out[i] = customOrder(fmt.Sprintf("K-%02d", i), entity.StatusPending, day(1, 0, 0, 0).Add(time.Duration(i)*time.Minute))
	}
	return out
}

func TestRun_Pagination(t *testing.T) {
	records := manyOrders(45)
	for page, want := range map[int]int{0: 20, 1: 20, 2: 40, 3: 45, 9: 45} {
		res := Run(records, Params{}, page)
		assert.Len(t, res.Visible, want, "page %d", page)
		assert.Equal(t, 45, res.FilteredCount)
		assert.Equal(t, 45, res.TotalCount)
		assert.Equal(t, want < 45, res.HasMore)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	res := Run(nil, Params{Term: "x"}, 1)
	assert.Empty(t, res.Visible)
	assert.Zero(t, res.FilteredCount)
	assert.Zero(t, res.TotalCount)
	assert.False(t, res.HasMore)
}

func TestView_ResetsPageOnChange(t *testing.T) {
	records := manyOrders(45)
	v := NewView()
	v.LoadMore()
	v.LoadMore()
	require.Equal(t, 3, v.Page())
	assert.Len(t, v.Run(records).Visible, 45)

	assert.False(t, v.Apply(Params{Sort: SortNewest, SearchBy: SearchAll}), "defaults are equal to zero values")
	assert.Equal(t, 3, v.Page())

	assert.True(t, v.Apply(Params{Category: entity.CategoryPending}))
	assert.Equal(t, 1, v.Page())
	assert.Len(t, v.Run(records).Visible, 20)

	v.LoadMore()
	assert.True(t, v.Apply(Params{Category: entity.CategoryPending, Sort: SortOldest}))
	assert.Equal(t, 1, v.Page())
}
