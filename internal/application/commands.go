package application

import (
	"github.com/wms-platform/fulfillment-service/internal/domain"
)

// GetQueueQuery requests the ranked processing queue
type GetQueueQuery struct {
	Filters domain.QueueFilters
	Limit   int
}

// RecommendPackagingQuery requests a packaging recommendation for a stored order
type RecommendPackagingQuery struct {
	OrderID     string
	TotalWeight *float64
}

// PreviewPackagingCommand requests a packaging recommendation for an ad-hoc item list
type PreviewPackagingCommand struct {
	Items       []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	TotalWeight *float64         `json:"totalWeight,omitempty" binding:"omitempty,gte=0"`
}

// OrderItemInput represents an order item in a command
type OrderItemInput struct {
	ProductName string `json:"productName" binding:"required"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity" binding:"omitempty,gte=0"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	Material    string `json:"material,omitempty"`
	IsBundle    bool   `json:"isBundle,omitempty"`
	BundleID    string `json:"bundleId,omitempty"`
}

// ToDomainOrderItems converts the command items
func (c PreviewPackagingCommand) ToDomainOrderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(c.Items))
	for _, in := range c.Items {
		items = append(items, domain.OrderItem{
			ProductName: in.ProductName,
			Description: in.Description,
			Quantity:    in.Quantity,
			Size:        in.Size,
			Color:       in.Color,
			Material:    in.Material,
			IsBundle:    in.IsBundle,
			BundleID:    in.BundleID,
		})
	}
	return items
}

// DispatchActionCommand asks for a workflow action to be fired for an order
type DispatchActionCommand struct {
	OrderID string `json:"-"`
	Action  string `json:"action" binding:"required,workflow_action"`
}
