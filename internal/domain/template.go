package domain

// Dimensions are outer box dimensions in inches
type Dimensions struct {
	Length float64 `bson:"length" json:"length" yaml:"length"`
	Width  float64 `bson:"width" json:"width" yaml:"width"`
	Height float64 `bson:"height" json:"height" yaml:"height"`
}

// Volume returns cubic inches
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// ShippingTemplate is a packaging option from the template catalog
type ShippingTemplate struct {
	Code           string     `bson:"code" json:"code" yaml:"code"`
	Name           string     `bson:"name" json:"name" yaml:"name"`
	Dimensions     Dimensions `bson:"dimensions" json:"dimensions" yaml:"dimensions"`
	MaxWeight      float64    `bson:"maxWeight" json:"maxWeight" yaml:"maxWeight"` // lbs
	RecommendedFor []string   `bson:"recommendedFor" json:"recommendedFor" yaml:"recommendedFor"`
	IsActive       bool       `bson:"isActive" json:"isActive" yaml:"isActive"`
	SortOrder      int        `bson:"sortOrder" json:"sortOrder" yaml:"sortOrder"`
}

// RecommendationLevel is the coarse label attached to a scored template
type RecommendationLevel string

const (
	LevelHighlyRecommended RecommendationLevel = "highly_recommended"
	LevelRecommended       RecommendationLevel = "recommended"
	LevelPossible          RecommendationLevel = "possible"
)

// ScoredTemplate is a template with its score for one order
type ScoredTemplate struct {
	Template            ShippingTemplate
	Score               int
	Reasons             []string
	FitsWeight          bool
	Volume              float64
	Efficiency          float64
	RecommendationLevel RecommendationLevel
}
