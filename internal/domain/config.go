package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidScoringConfig is returned when a ScoringConfig fails validation
var ErrInvalidScoringConfig = errors.New("invalid scoring config")

// KeywordRule tags an item whose text contains any of Keywords.
// SetTag, when set, replaces Tag for multi-unit lines or text containing SetKeyword.
type KeywordRule struct {
	Keywords   []string `yaml:"keywords" json:"keywords"`
	Tag        string   `yaml:"tag" json:"tag"`
	SetTag     string   `yaml:"setTag,omitempty" json:"setTag,omitempty"`
	SetKeyword string   `yaml:"setKeyword,omitempty" json:"setKeyword,omitempty"`
}

// WeightRule assigns a per-unit weight in lbs to items whose text contains any of Keywords
type WeightRule struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Weight   float64  `yaml:"weight" json:"weight"`
}

// ClassifierConfig drives ProductTypeClassifier
type ClassifierConfig struct {
	Rules []KeywordRule `yaml:"rules" json:"rules"`

	BulkOrderTag       string `yaml:"bulkOrderTag" json:"bulkOrderTag"`
	BulkOrderAbove     int    `yaml:"bulkOrderAbove" json:"bulkOrderAbove"`
	MultipleItemsTag   string `yaml:"multipleItemsTag" json:"multipleItemsTag"`
	MultipleItemsAbove int    `yaml:"multipleItemsAbove" json:"multipleItemsAbove"`
}

// WeightConfig drives WeightEstimator
type WeightConfig struct {
	Rules         []WeightRule `yaml:"rules" json:"rules"`
	DefaultWeight float64      `yaml:"defaultWeight" json:"defaultWeight"`
	Floor         float64      `yaml:"floor" json:"floor"`
}

// SelectorConfig drives ShippingTemplateSelector
type SelectorConfig struct {
	FitsWeightBonus   int `yaml:"fitsWeightBonus" json:"fitsWeightBonus"`
	OverweightPenalty int `yaml:"overweightPenalty" json:"overweightPenalty"`
	TagMatchBonus     int `yaml:"tagMatchBonus" json:"tagMatchBonus"`

	BulkTemplateCode  string `yaml:"bulkTemplateCode" json:"bulkTemplateCode"`
	BulkItemsAbove    int    `yaml:"bulkItemsAbove" json:"bulkItemsAbove"`
	BulkTemplateBonus int    `yaml:"bulkTemplateBonus" json:"bulkTemplateBonus"`

	SmallItemTemplateCodes []string `yaml:"smallItemTemplateCodes" json:"smallItemTemplateCodes"`
	SmallItemBonus         int      `yaml:"smallItemBonus" json:"smallItemBonus"`

	OversizedVolumeAbove    float64 `yaml:"oversizedVolumeAbove" json:"oversizedVolumeAbove"`
	OversizedItemsBelow     int     `yaml:"oversizedItemsBelow" json:"oversizedItemsBelow"`
	OversizedPenalty        int     `yaml:"oversizedPenalty" json:"oversizedPenalty"`
	UndersizedVolumeBelow   float64 `yaml:"undersizedVolumeBelow" json:"undersizedVolumeBelow"`
	UndersizedItemsAbove    int     `yaml:"undersizedItemsAbove" json:"undersizedItemsAbove"`
	UndersizedPenalty       int     `yaml:"undersizedPenalty" json:"undersizedPenalty"`
	EfficiencyVolumeDivisor float64 `yaml:"efficiencyVolumeDivisor" json:"efficiencyVolumeDivisor"`

	MaxRecommendations     int `yaml:"maxRecommendations" json:"maxRecommendations"`
	HighlyRecommendedAbove int `yaml:"highlyRecommendedAbove" json:"highlyRecommendedAbove"`
	RecommendedAbove       int `yaml:"recommendedAbove" json:"recommendedAbove"`
}

// RankerConfig drives OrderPriorityRanker
type RankerConfig struct {
	PriorityRanks map[Priority]int `yaml:"priorityRanks" json:"priorityRanks"`
}

// ScoringConfig holds every table and threshold used by the fulfillment core
type ScoringConfig struct {
	Classifier ClassifierConfig `yaml:"classifier" json:"classifier"`
	Weight     WeightConfig     `yaml:"weight" json:"weight"`
	Selector   SelectorConfig   `yaml:"selector" json:"selector"`
	Ranker     RankerConfig     `yaml:"ranker" json:"ranker"`
}

// Category tags
const (
	TagSuits         = "suits"
	TagSuitSets      = "suit_sets"
	TagVests         = "vests"
	TagJackets       = "jackets"
	TagBowTies       = "bow_ties"
	TagTies          = "ties"
	TagShoes         = "shoes"
	TagSuspenders    = "suspenders"
	TagAccessories   = "accessories"
	TagShirts        = "shirts"
	TagBulkOrders    = "bulk_orders"
	TagMultipleItems = "multiple_items"
)

// DefaultScoringConfig returns the production tables.
// Vest rules precede the coat rule so "waistcoat" is not read as outerwear,
// and "bow tie" precedes "tie".
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Classifier: ClassifierConfig{
			Rules: []KeywordRule{
				{Keywords: []string{"suit"}, Tag: TagSuits, SetTag: TagSuitSets, SetKeyword: "set"},
				{Keywords: []string{"vest", "waistcoat"}, Tag: TagVests},
				{Keywords: []string{"blazer", "jacket", "coat"}, Tag: TagJackets},
				{Keywords: []string{"bow tie"}, Tag: TagBowTies},
				{Keywords: []string{"tie"}, Tag: TagTies},
				{Keywords: []string{"shoe", "boot"}, Tag: TagShoes},
				{Keywords: []string{"suspender"}, Tag: TagSuspenders},
				{Keywords: []string{"belt", "accessory"}, Tag: TagAccessories},
				{Keywords: []string{"shirt"}, Tag: TagShirts},
			},
			BulkOrderTag:       TagBulkOrders,
			BulkOrderAbove:     5,
			MultipleItemsTag:   TagMultipleItems,
			MultipleItemsAbove: 1,
		},
		Weight: WeightConfig{
			Rules: []WeightRule{
				{Keywords: []string{"suit"}, Weight: 2.5},
				{Keywords: []string{"vest", "waistcoat"}, Weight: 0.3},
				{Keywords: []string{"blazer", "jacket", "coat"}, Weight: 1.5},
				{Keywords: []string{"shoe", "boot"}, Weight: 1.0},
				{Keywords: []string{"shirt"}, Weight: 0.5},
				{Keywords: []string{"bow tie", "tie"}, Weight: 0.1},
				{Keywords: []string{"suspender"}, Weight: 0.2},
			},
			DefaultWeight: 0.5,
			Floor:         0.1,
		},
		Selector: SelectorConfig{
			FitsWeightBonus:         10,
			OverweightPenalty:       -50,
			TagMatchBonus:           20,
			BulkTemplateCode:        "BULK_BOX",
			BulkItemsAbove:          10,
			BulkTemplateBonus:       15,
			SmallItemTemplateCodes:  []string{"SMALL_BOX", "ACCESSORY_BOX"},
			SmallItemBonus:          10,
			OversizedVolumeAbove:    100,
			OversizedItemsBelow:     3,
			OversizedPenalty:        -5,
			UndersizedVolumeBelow:   50,
			UndersizedItemsAbove:    5,
			UndersizedPenalty:       -10,
			EfficiencyVolumeDivisor: 100,
			MaxRecommendations:      5,
			HighlyRecommendedAbove:  20,
			RecommendedAbove:        0,
		},
		Ranker: RankerConfig{
			PriorityRanks: map[Priority]int{
				PriorityRush:         5,
				PriorityUrgent:       4,
				PriorityWeddingParty: 4,
				PriorityVIPCustomer:  3,
				PriorityHigh:         2,
				PriorityNormal:       1,
				PriorityLow:          0,
			},
		},
	}
}

// Validate checks the invariants the components rely on
func (c *ScoringConfig) Validate() error {
	for i, r := range c.Classifier.Rules {
		if r.Tag == "" || len(r.Keywords) == 0 {
			return fmt.Errorf("%w: classifier rule %d needs a tag and keywords", ErrInvalidScoringConfig, i)
		}
	}
	for i, r := range c.Weight.Rules {
		if len(r.Keywords) == 0 || r.Weight < 0 {
			return fmt.Errorf("%w: weight rule %d needs keywords and a non-negative weight", ErrInvalidScoringConfig, i)
		}
	}
	if c.Weight.Floor <= 0 {
		return fmt.Errorf("%w: weight floor must be positive", ErrInvalidScoringConfig)
	}
	if c.Weight.DefaultWeight < 0 {
		return fmt.Errorf("%w: default weight must not be negative", ErrInvalidScoringConfig)
	}
	if c.Selector.MaxRecommendations < 1 {
		return fmt.Errorf("%w: maxRecommendations must be at least 1", ErrInvalidScoringConfig)
	}
	if c.Selector.EfficiencyVolumeDivisor <= 0 {
		return fmt.Errorf("%w: efficiencyVolumeDivisor must be positive", ErrInvalidScoringConfig)
	}
	if c.Selector.HighlyRecommendedAbove < c.Selector.RecommendedAbove {
		return fmt.Errorf("%w: highlyRecommendedAbove must not be below recommendedAbove", ErrInvalidScoringConfig)
	}
	for _, p := range AllPriorities() {
		if _, ok := c.Ranker.PriorityRanks[p]; !ok {
			return fmt.Errorf("%w: priority %q has no rank", ErrInvalidScoringConfig, p)
		}
	}
	return nil
}
