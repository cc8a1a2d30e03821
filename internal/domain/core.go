package domain

// Core bundles the fulfillment components built from one scoring configuration.
// All components are immutable and safe for concurrent use.
type Core struct {
	Classifier *ProductTypeClassifier
	Estimator  *WeightEstimator
	Selector   *ShippingTemplateSelector
	Ranker     *OrderPriorityRanker
	Dispatcher *WorkflowActionDispatcher
}

// NewCore builds the components from scoring and the action rules
func NewCore(scoring *ScoringConfig, rules []ActionRule) *Core {
	return &Core{
		Classifier: NewProductTypeClassifier(scoring.Classifier),
		Estimator:  NewWeightEstimator(scoring.Weight),
		Selector:   NewShippingTemplateSelector(scoring.Selector),
		Ranker:     NewOrderPriorityRanker(scoring.Ranker),
		Dispatcher: NewWorkflowActionDispatcher(rules),
	}
}

// PackagingResult is a recommendation for one set of items
type PackagingResult struct {
	Tags   TagSet
	Weight float64
	// LineCount drives the order-size tags; UnitCount drives box scoring.
	LineCount       int
	UnitCount       int
	Recommendations []ScoredTemplate
}

// NoTemplatesAvailable reports whether no template could be recommended
func (r *PackagingResult) NoTemplatesAvailable() bool {
	return len(r.Recommendations) == 0
}

// RecommendPackaging classifies items, estimates their weight and scores the catalog.
// Tags count line items while template scoring counts units, so one line of
// twelve shirts earns the bulk box bonus without the bulk_orders tag.
func (c *Core) RecommendPackaging(items []OrderItem, explicitWeight *float64, templates []ShippingTemplate) *PackagingResult {
	tags := c.Classifier.Classify(items)
	weight := c.Estimator.EstimateWeight(items, explicitWeight)
	units := TotalQuantity(items)

	return &PackagingResult{
		Tags:            tags,
		Weight:          weight,
		LineCount:       len(items),
		UnitCount:       units,
		Recommendations: c.Selector.Recommend(templates, tags, weight, units),
	}
}
