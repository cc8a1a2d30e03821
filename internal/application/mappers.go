package application

import (
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/errors"
)

// ToQueueOrderDTO converts a domain Order to QueueOrderDTO
func ToQueueOrderDTO(order *domain.Order) QueueOrderDTO {
	flags := order.Flags()
	return QueueOrderDTO{
		OrderID:        order.OrderID,
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		Status:         string(order.Status),
		Priority:       string(order.Priority),
		ProductSource:  order.ProductSource,
		TotalAmount:    order.TotalAmount,
		IsRush:         flags.IsRush,
		IsGroupOrder:   flags.IsGroupOrder,
		HasBundleItems: flags.HasBundleItems,
		TotalItems:     order.TotalQuantity(),
		CreatedAt:      order.CreatedAt,
	}
}

// ToPackagingRecommendationDTO converts a packaging result
func ToPackagingRecommendationDTO(orderID string, result *domain.PackagingResult) *PackagingRecommendationDTO {
	recs := make([]TemplateScoreDTO, 0, len(result.Recommendations))
	for _, s := range result.Recommendations {
		recs = append(recs, TemplateScoreDTO{
			Code: s.Template.Code,
			Name: s.Template.Name,
			Dimensions: DimensionsDTO{
				Length: s.Template.Dimensions.Length,
				Width:  s.Template.Dimensions.Width,
				Height: s.Template.Dimensions.Height,
			},
			MaxWeight:           s.Template.MaxWeight,
			Score:               s.Score,
			Reasons:             s.Reasons,
			FitsWeight:          s.FitsWeight,
			Volume:              s.Volume,
			Efficiency:          s.Efficiency,
			RecommendationLevel: string(s.RecommendationLevel),
		})
	}

	dto := &PackagingRecommendationDTO{
		OrderID:              orderID,
		ProductTypes:         result.Tags.Sorted(),
		EstimatedWeight:      result.Weight,
		LineCount:            result.LineCount,
		UnitCount:            result.UnitCount,
		Recommendations:      recs,
		NoTemplatesAvailable: result.NoTemplatesAvailable(),
	}
	if dto.NoTemplatesAvailable {
		dto.Warning = &WarningDTO{
			Code:    errors.CodeNoTemplatesAvailable,
			Message: domain.ErrNoTemplatesAvailable.Error(),
		}
	}
	return dto
}

// ToActionRuleDTO converts an action rule
func ToActionRuleDTO(rule domain.ActionRule) ActionRuleDTO {
	statuses := make([]string, 0, len(rule.AllowedStatuses))
	for _, s := range rule.AllowedStatuses {
		statuses = append(statuses, string(s))
	}
	return ActionRuleDTO{
		Action:          string(rule.Action),
		AllowedStatuses: statuses,
		RequiresBundle:  rule.RequiresBundle,
		RequiresGroup:   rule.RequiresGroup,
		RequiresRush:    rule.RequiresRush,
		WorkflowName:    rule.WorkflowName,
	}
}
