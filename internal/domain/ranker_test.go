package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestRanker() *OrderPriorityRanker {
	return NewOrderPriorityRanker(DefaultScoringConfig().Ranker)
}

func order(id string, p Priority, minutes int) Order {
	return Order{
		OrderID:     id,
		OrderNumber: "ORD-" + id,
		Status:      StatusProcessing,
		Priority:    p,
		CreatedAt:   baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.OrderID)
	}
	return out
}

func TestRank_RushBeforeNormalFIFO(t *testing.T) {
	orders := []Order{
		order("n1", PriorityNormal, 1),
		order("r2", PriorityRush, 2),
		order("n3", PriorityNormal, 3),
	}

	ranked := newTestRanker().Rank(orders, QueueFilters{})

	assert.Equal(t, []string{"r2", "n1", "n3"}, ids(ranked))
	assert.Equal(t, []string{"n1", "r2", "n3"}, ids(orders), "input must not be reordered")
}

func TestRank_PriorityTable(t *testing.T) {
	ranker := newTestRanker()
	expected := map[Priority]int{
		PriorityRush:         5,
		PriorityUrgent:       4,
		PriorityWeddingParty: 4,
		PriorityVIPCustomer:  3,
		PriorityHigh:         2,
		PriorityNormal:       1,
		PriorityLow:          0,
		Priority("mystery"):  0,
	}
	for p, rank := range expected {
		assert.Equal(t, rank, ranker.PriorityRank(p), "priority %s", p)
	}
}

func TestRank_Filters(t *testing.T) {
	orders := []Order{
		{OrderID: "1", OrderNumber: "ORD-1001", CustomerName: "Ada Lovelace", CustomerEmail: "ada@example.com", Status: StatusProcessing, Priority: PriorityNormal, ProductSource: "in_house", CreatedAt: baseTime},
		{OrderID: "2", OrderNumber: "ORD-1002", CustomerName: "Grace Hopper", CustomerEmail: "grace@navy.mil", Status: StatusPaymentConfirmed, Priority: PriorityNormal, IsRush: true, ProductSource: "supplier", CreatedAt: baseTime.Add(time.Minute)},
		{OrderID: "3", OrderNumber: "ORD-1003", CustomerName: "Alan Turing", CustomerEmail: "alan@example.com", Status: StatusProcessing, Priority: PriorityRush, IsGroupOrder: true, ProductSource: "in_house", CreatedAt: baseTime.Add(2 * time.Minute)},
		{OrderID: "4", OrderNumber: "ORD-1004", CustomerName: "Élodie Durand", CustomerEmail: "ELODIE@Example.com", Status: StatusOnHold, Priority: PriorityWeddingParty, IsGroupOrder: true, CreatedAt: baseTime.Add(3 * time.Minute)},
	}

	tests := []struct {
		name     string
		filters  QueueFilters
		expected []string
	}{
		{name: "No filters", filters: QueueFilters{}, expected: []string{"3", "4", "1", "2"}},
		{name: "All status is unset", filters: QueueFilters{Status: "all", Priority: "all", ProductSource: "all"}, expected: []string{"3", "4", "1", "2"}},
		{name: "Status", filters: QueueFilters{Status: StatusProcessing}, expected: []string{"3", "1"}},
		{name: "Priority", filters: QueueFilters{Priority: PriorityNormal}, expected: []string{"1", "2"}},
		{name: "Product source", filters: QueueFilters{ProductSource: "in_house"}, expected: []string{"3", "1"}},
		{name: "Rush only honours flag and tier", filters: QueueFilters{RushOnly: true}, expected: []string{"3", "2"}},
		{name: "Group only", filters: QueueFilters{GroupOnly: true}, expected: []string{"3", "4"}},
		{name: "Search order number", filters: QueueFilters{Search: "1002"}, expected: []string{"2"}},
		{name: "Search name case-insensitive", filters: QueueFilters{Search: "  ALAN "}, expected: []string{"3"}},
		{name: "Search email", filters: QueueFilters{Search: "example.com"}, expected: []string{"3", "4", "1"}},
		{name: "Search non-ascii", filters: QueueFilters{Search: "élodie"}, expected: []string{"4"}},
		{name: "Filters combine", filters: QueueFilters{Status: StatusProcessing, GroupOnly: true}, expected: []string{"3"}},
		{name: "No match", filters: QueueFilters{Search: "nobody"}, expected: []string{}},
	}

	ranker := newTestRanker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(ranker.Rank(orders, tt.filters)))
		})
	}
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := newTestRanker().Rank(nil, QueueFilters{})
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRank_PermutationAndOrdering(t *testing.T) {
	ranker := newTestRanker()
	priorities := append(AllPriorities(), Priority("unknown"))
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		orders := make([]Order, 0, 30)
		for i := 0; i < 30; i++ {
			o := order(fmt.Sprintf("%d-%d", round, i), priorities[rng.Intn(len(priorities))], rng.Intn(20))
			o.IsRush = rng.Intn(4) == 0
			orders = append(orders, o)
		}
		filters := QueueFilters{RushOnly: round%3 == 0}

		ranked := ranker.Rank(orders, filters)

		var want []string
		for _, o := range orders {
			if !filters.RushOnly || o.Flags().IsRush {
				want = append(want, o.OrderID)
			}
		}
		got := ids(ranked)
		sort.Strings(want)
		sort.Strings(got)
		if want == nil {
			want = []string{}
		}
		require.Equal(t, want, got)

		for i := 1; i < len(ranked); i++ {
			a, b := ranked[i-1], ranked[i]
			ra, rb := ranker.PriorityRank(a.Priority), ranker.PriorityRank(b.Priority)
			require.GreaterOrEqual(t, ra, rb)
			if ra == rb {
				require.False(t, b.CreatedAt.Before(a.CreatedAt))
			}
		}
	}
}

func TestQueueFilters_IsEmpty(t *testing.T) {
	assert.True(t, QueueFilters{}.IsEmpty())
	assert.True(t, QueueFilters{Status: "all", Search: "  "}.IsEmpty())
	assert.False(t, QueueFilters{RushOnly: true}.IsEmpty())
	assert.False(t, QueueFilters{Priority: PriorityLow}.IsEmpty())
}
