package domain

import (
	"sort"
	"strings"
)

// filterAll is the dashboard value meaning "no filter"
const filterAll = "all"

// QueueFilters narrows the processing queue. Zero values are no-ops.
type QueueFilters struct {
	Status        OrderStatus `form:"status" json:"status,omitempty"`
	Priority      Priority    `form:"priority" json:"priority,omitempty"`
	ProductSource string      `form:"productSource" json:"productSource,omitempty"`
	RushOnly      bool        `form:"rushOnly" json:"rushOnly,omitempty"`
	GroupOnly     bool        `form:"groupOnly" json:"groupOnly,omitempty"`
	Search        string      `form:"search" json:"search,omitempty"`
}

// IsEmpty reports whether no filter is set
func (f QueueFilters) IsEmpty() bool {
	return !isSet(string(f.Status)) && !isSet(string(f.Priority)) && !isSet(f.ProductSource) &&
		!f.RushOnly && !f.GroupOnly && strings.TrimSpace(f.Search) == ""
}

// HasStatus reports whether a specific status is requested
func (f QueueFilters) HasStatus() bool {
	return isSet(string(f.Status))
}

func isSet(v string) bool {
	return v != "" && v != filterAll
}

// OrderPriorityRanker filters and orders the processing queue
type OrderPriorityRanker struct {
	ranks map[Priority]int
}

// NewOrderPriorityRanker creates a ranker over the given rank table
func NewOrderPriorityRanker(config RankerConfig) *OrderPriorityRanker {
	ranks := make(map[Priority]int, len(config.PriorityRanks))
	for p, r := range config.PriorityRanks {
		ranks[p] = r
	}
	return &OrderPriorityRanker{ranks: ranks}
}

// PriorityRank returns the comparison rank of a tier. Unknown tiers rank 0.
func (r *OrderPriorityRanker) PriorityRank(p Priority) int {
	return r.ranks[p]
}

// Ranks returns a copy of the rank table
func (r *OrderPriorityRanker) Ranks() map[Priority]int {
	ranks := make(map[Priority]int, len(r.ranks))
	for p, rank := range r.ranks {
		ranks[p] = rank
	}
	return ranks
}

// Rank returns the orders matching filters, highest priority first and oldest first
// within a tier. The input slice is not modified.
func (r *OrderPriorityRanker) Rank(orders []Order, filters QueueFilters) []Order {
	search := fold(strings.TrimSpace(filters.Search))

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if r.matches(&o, filters, search) {
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := r.ranks[out[i].Priority], r.ranks[out[j].Priority]
		if ri != rj {
			return ri > rj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *OrderPriorityRanker) matches(o *Order, f QueueFilters, search string) bool {
	if isSet(string(f.Status)) && o.Status != f.Status {
		return false
	}
	if isSet(string(f.Priority)) && o.Priority != f.Priority {
		return false
	}
	if isSet(f.ProductSource) && o.ProductSource != f.ProductSource {
		return false
	}
	if f.RushOnly && !o.Flags().IsRush {
		return false
	}
	if f.GroupOnly && !o.IsGroupOrder {
		return false
	}
	if search != "" {
		return strings.Contains(fold(o.OrderNumber), search) ||
			strings.Contains(fold(o.CustomerName), search) ||
			strings.Contains(fold(o.CustomerEmail), search)
	}
	return true
}
