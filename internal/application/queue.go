package application

import (
	"github.com/wms-platform/fulfillment-service/internal/domain"
)

// terminalStatuses never appear in the queue unless a status filter names one
var terminalStatuses = []domain.OrderStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusRefunded}

// SnapshotFilterFor translates queue filters into the store pre-filter
func SnapshotFilterFor(f domain.QueueFilters) domain.SnapshotFilter {
	snapshot := domain.SnapshotFilter{
		RushOnly:  f.RushOnly,
		GroupOnly: f.GroupOnly,
	}
	if f.HasStatus() {
		snapshot.Status = f.Status
	} else {
		snapshot.ExcludeStatus = terminalStatuses
	}
	if f.Priority != "" && f.Priority != "all" {
		snapshot.Priority = f.Priority
	}
	if f.ProductSource != "" && f.ProductSource != "all" {
		snapshot.ProductSource = f.ProductSource
	}
	return snapshot
}

// BuildQueue ranks orders into the queue view shared by the API and fulfillctl.
// Terminal orders are dropped unless f names a status. limit 0 returns every order.
func BuildQueue(ranker *domain.OrderPriorityRanker, orders []domain.Order, f domain.QueueFilters, limit int) *QueueDTO {
	if !f.HasStatus() {
		open := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if !o.Status.IsTerminal() {
				open = append(open, o)
			}
		}
		orders = open
	}

	ranked := ranker.Rank(orders, f)
	total := len(ranked)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := &QueueDTO{
		Orders:   make([]QueueOrderDTO, 0, len(ranked)),
		Total:    total,
		Returned: len(ranked),
	}
	for i := range ranked {
		result.Orders = append(result.Orders, ToQueueOrderDTO(&ranked[i]))
	}
	return result
}
