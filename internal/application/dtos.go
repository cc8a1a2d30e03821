package application

import "time"

// QueueDTO is the ranked processing queue. Truncated is set when the snapshot hit its
// cap; the head of the queue is still exact but Total only counts the loaded orders.
type QueueDTO struct {
	Orders    []QueueOrderDTO `json:"orders"`
	Total     int             `json:"total"`
	Returned  int             `json:"returned"`
	Truncated bool            `json:"truncated"`
}

// QueueOrderDTO is an order as shown in the processing queue
type QueueOrderDTO struct {
	OrderID        string    `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	ProductSource  string    `json:"productSource,omitempty"`
	TotalAmount    float64   `json:"totalAmount"`
	IsRush         bool      `json:"isRush"`
	IsGroupOrder   bool      `json:"isGroupOrder"`
	HasBundleItems bool      `json:"hasBundleItems"`
	TotalItems     int       `json:"totalItems"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PackagingRecommendationDTO is the packaging recommendation for an order or item list
type PackagingRecommendationDTO struct {
	OrderID              string             `json:"orderId,omitempty"`
	ProductTypes         []string           `json:"productTypes"`
	EstimatedWeight      float64            `json:"estimatedWeight"`
	LineCount            int                `json:"lineCount"`
	UnitCount            int                `json:"unitCount"`
	Recommendations      []TemplateScoreDTO `json:"recommendations"`
	NoTemplatesAvailable bool               `json:"noTemplatesAvailable"`
	Warning              *WarningDTO        `json:"warning,omitempty"`
}

// WarningDTO is a recoverable condition shown alongside a successful result
type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TemplateScoreDTO is one scored template
type TemplateScoreDTO struct {
	Code                string        `json:"code"`
	Name                string        `json:"name"`
	Dimensions          DimensionsDTO `json:"dimensions"`
	MaxWeight           float64       `json:"maxWeight"`
	Score               int           `json:"score"`
	Reasons             []string      `json:"reasons"`
	FitsWeight          bool          `json:"fitsWeight"`
	Volume              float64       `json:"volume"`
	Efficiency          float64       `json:"efficiency"`
	RecommendationLevel string        `json:"recommendationLevel"`
}

// DimensionsDTO represents box dimensions in inches
type DimensionsDTO struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ActionDispatchDTO is the result of an accepted workflow action
type ActionDispatchDTO struct {
	OrderID      string    `json:"orderId"`
	Action       string    `json:"action"`
	Status       string    `json:"status"`
	WorkflowName string    `json:"workflowName"`
	WorkflowID   string    `json:"workflowId"`
	RunID        string    `json:"runId"`
	AcceptedAt   time.Time `json:"acceptedAt"`
}

// ActionRuleDTO describes when a workflow action may be fired
type ActionRuleDTO struct {
	Action          string   `json:"action"`
	AllowedStatuses []string `json:"allowedStatuses"`
	RequiresBundle  bool     `json:"requiresBundle"`
	RequiresGroup   bool     `json:"requiresGroup"`
	RequiresRush    bool     `json:"requiresRush"`
	WorkflowName    string   `json:"workflowName"`
}
