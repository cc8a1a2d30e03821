package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoTemplatesAvailable signals an empty or fully inactive template catalog
var ErrNoTemplatesAvailable = errors.New("no templates available")

// ShippingTemplateSelector scores packaging templates against an order's contents
type ShippingTemplateSelector struct {
	config    SelectorConfig
	smallCode map[string]struct{}
}

// NewShippingTemplateSelector creates a selector over the given scoring rules
func NewShippingTemplateSelector(config SelectorConfig) *ShippingTemplateSelector {
	small := make(map[string]struct{}, len(config.SmallItemTemplateCodes))
	for _, code := range config.SmallItemTemplateCodes {
		small[code] = struct{}{}
	}
	return &ShippingTemplateSelector{config: config, smallCode: small}
}

// Recommend scores every active template, sorts by score descending keeping catalog
// order on ties, and returns the best ones. Over-capacity templates are penalized
// but still ranked. An empty result means no templates are available.
func (s *ShippingTemplateSelector) Recommend(templates []ShippingTemplate, tags TagSet, weight float64, unitCount int) []ScoredTemplate {
	scored := make([]ScoredTemplate, 0, len(templates))
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		scored = append(scored, s.Score(t, tags, weight, unitCount))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > s.config.MaxRecommendations {
		scored = scored[:s.config.MaxRecommendations]
	}
	return scored
}

// Score computes the score of a single template
func (s *ShippingTemplateSelector) Score(t ShippingTemplate, tags TagSet, weight float64, unitCount int) ScoredTemplate {
	result := ScoredTemplate{
		Template: t,
		Reasons:  []string{},
		Volume:   t.Dimensions.Volume(),
	}

	if weight <= t.MaxWeight {
		result.FitsWeight = true
		result.Score += s.config.FitsWeightBonus
		result.Reasons = append(result.Reasons, fmt.Sprintf("Fits weight (%.1f lbs of %.1f lbs capacity)", weight, t.MaxWeight))
	} else {
		result.Score += s.config.OverweightPenalty
		result.Reasons = append(result.Reasons, "Exceeds weight capacity")
	}

	seen := make(map[string]struct{}, len(t.RecommendedFor))
	for _, tag := range t.RecommendedFor {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if tags.Has(tag) {
			result.Score += s.config.TagMatchBonus
			result.Reasons = append(result.Reasons, "Recommended for "+tag)
		}
	}

	if unitCount > s.config.BulkItemsAbove && s.config.BulkTemplateCode != "" && t.Code == s.config.BulkTemplateCode {
		result.Score += s.config.BulkTemplateBonus
		result.Reasons = append(result.Reasons, "Bulk order container")
	}

	if _, ok := s.smallCode[t.Code]; ok && unitCount == 1 {
		result.Score += s.config.SmallItemBonus
		result.Reasons = append(result.Reasons, "Ideal for single items")
	}

	if result.Volume > s.config.OversizedVolumeAbove && unitCount < s.config.OversizedItemsBelow {
		result.Score += s.config.OversizedPenalty
		result.Reasons = append(result.Reasons, "Oversized for this order")
	}
	if result.Volume < s.config.UndersizedVolumeBelow && unitCount > s.config.UndersizedItemsAbove {
		result.Score += s.config.UndersizedPenalty
		result.Reasons = append(result.Reasons, "Too small for this order")
	}

	result.Efficiency = float64(result.Score) / math.Max(result.Volume/s.config.EfficiencyVolumeDivisor, 1)
	result.RecommendationLevel = s.level(result.Score)
	return result
}

func (s *ShippingTemplateSelector) level(score int) RecommendationLevel {
	switch {
	case score > s.config.HighlyRecommendedAbove:
		return LevelHighlyRecommended
	case score > s.config.RecommendedAbove:
		return LevelRecommended
	default:
		return LevelPossible
	}
}
