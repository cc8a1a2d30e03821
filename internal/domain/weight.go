package domain

// WeightEstimator estimates the shipping weight of an order in lbs
type WeightEstimator struct {
	config WeightConfig
}

// NewWeightEstimator creates an estimator over the given weight table
func NewWeightEstimator(config WeightConfig) *WeightEstimator {
	return &WeightEstimator{config: config}
}

// EstimateWeight returns a positive explicit weight as given, otherwise the sum of
// per-unit table weights times quantity. The result is never below the floor.
func (e *WeightEstimator) EstimateWeight(items []OrderItem, explicitWeight *float64) float64 {
	if explicitWeight != nil && *explicitWeight > 0 {
		return e.floor(*explicitWeight)
	}

	total := 0.0
	for _, item := range items {
		total += e.unitWeight(item) * float64(item.EffectiveQuantity())
	}
	return e.floor(total)
}

func (e *WeightEstimator) unitWeight(item OrderItem) float64 {
	text := itemText(item)
	for _, rule := range e.config.Rules {
		if containsAny(text, rule.Keywords) {
			return rule.Weight
		}
	}
	return e.config.DefaultWeight
}

func (e *WeightEstimator) floor(w float64) float64 {
	if w < e.config.Floor {
		return e.config.Floor
	}
	return w
}
