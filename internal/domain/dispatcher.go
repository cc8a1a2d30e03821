package domain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidStateTransition is returned when an action's precondition is not met
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrUnknownWorkflowAction is returned for actions with no rule
	ErrUnknownWorkflowAction = errors.New("unknown workflow action")
)

// WorkflowAction names a trigger that an operator or automation can fire
type WorkflowAction string

const (
	ActionIntelligentOrderRouting WorkflowAction = "intelligent_order_routing"
	ActionBundleProcessing        WorkflowAction = "bundle_processing"
	ActionGroupCoordination       WorkflowAction = "group_coordination"
	ActionRushEscalation          WorkflowAction = "rush_escalation"
	ActionProductionScheduling    WorkflowAction = "production_scheduling"
	ActionQualityInspection       WorkflowAction = "quality_inspection"
	ActionPackagingRecommendation WorkflowAction = "packaging_recommendation"
	ActionShippingLabelGeneration WorkflowAction = "shipping_label_generation"
	ActionDeliveryConfirmation    WorkflowAction = "delivery_confirmation"
	ActionExceptionResolution     WorkflowAction = "exception_resolution"
)

// ActionRule is the precondition of a workflow action.
// An empty AllowedStatuses means any non-terminal status.
type ActionRule struct {
	Action          WorkflowAction `json:"action"`
	AllowedStatuses []OrderStatus  `json:"allowedStatuses,omitempty"`
	RequiresBundle  bool           `json:"requiresBundle,omitempty"`
	RequiresGroup   bool           `json:"requiresGroup,omitempty"`
	RequiresRush    bool           `json:"requiresRush,omitempty"`
	WorkflowName    string         `json:"workflowName"`
}

// DefaultActionRules returns the production action table
func DefaultActionRules() []ActionRule {
	return []ActionRule{
		{Action: ActionIntelligentOrderRouting, AllowedStatuses: []OrderStatus{StatusPaymentConfirmed}, WorkflowName: "IntelligentOrderRoutingWorkflow"},
		{Action: ActionBundleProcessing, AllowedStatuses: []OrderStatus{StatusProcessing}, RequiresBundle: true, WorkflowName: "BundleProcessingWorkflow"},
		{Action: ActionGroupCoordination, RequiresGroup: true, WorkflowName: "GroupCoordinationWorkflow"},
		{Action: ActionRushEscalation, RequiresRush: true, WorkflowName: "RushEscalationWorkflow"},
		{Action: ActionProductionScheduling, AllowedStatuses: []OrderStatus{StatusProcessing}, WorkflowName: "ProductionSchedulingWorkflow"},
		{Action: ActionQualityInspection, AllowedStatuses: []OrderStatus{StatusInProduction}, WorkflowName: "QualityInspectionWorkflow"},
		{Action: ActionPackagingRecommendation, AllowedStatuses: []OrderStatus{StatusQualityCheck, StatusPackaging}, WorkflowName: "PackagingRecommendationWorkflow"},
		{Action: ActionShippingLabelGeneration, AllowedStatuses: []OrderStatus{StatusPackaging}, WorkflowName: "ShippingLabelWorkflow"},
		{Action: ActionDeliveryConfirmation, AllowedStatuses: []OrderStatus{StatusOutForDelivery, StatusDelivered}, WorkflowName: "DeliveryConfirmationWorkflow"},
		{Action: ActionExceptionResolution, AllowedStatuses: []OrderStatus{StatusOnHold, StatusException}, WorkflowName: "ExceptionResolutionWorkflow"},
	}
}

// ActionAcceptance tells the workflow-execution system which workflow to start
type ActionAcceptance struct {
	Action        WorkflowAction `json:"action" yaml:"action"`
	WorkflowName  string         `json:"workflowName" yaml:"workflowName"`
	CurrentStatus OrderStatus    `json:"currentStatus" yaml:"currentStatus"`
}

// WorkflowActionDispatcher validates workflow actions against order state.
// It never changes an order's status.
type WorkflowActionDispatcher struct {
	rules map[WorkflowAction]ActionRule
	order []WorkflowAction
}

// NewWorkflowActionDispatcher creates a dispatcher over rules. A later rule for the
// same action replaces an earlier one.
func NewWorkflowActionDispatcher(rules []ActionRule) *WorkflowActionDispatcher {
	d := &WorkflowActionDispatcher{rules: make(map[WorkflowAction]ActionRule, len(rules))}
	for _, r := range rules {
		if _, exists := d.rules[r.Action]; !exists {
			d.order = append(d.order, r.Action)
		}
		d.rules[r.Action] = r
	}
	return d
}

// Rules returns the action catalog in declaration order
func (d *WorkflowActionDispatcher) Rules() []ActionRule {
	out := make([]ActionRule, 0, len(d.order))
	for _, a := range d.order {
		out = append(out, d.rules[a])
	}
	return out
}

// Actions returns the known action names sorted
func (d *WorkflowActionDispatcher) Actions() []string {
	out := make([]string, 0, len(d.order))
	for _, a := range d.order {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}

// Rule looks up the rule of an action
func (d *WorkflowActionDispatcher) Rule(action WorkflowAction) (ActionRule, bool) {
	r, ok := d.rules[action]
	return r, ok
}

// ValidateTransition accepts the action when the current status and flags satisfy its rule
func (d *WorkflowActionDispatcher) ValidateTransition(action WorkflowAction, current OrderStatus, flags OrderFlags) (*ActionAcceptance, error) {
	rule, ok := d.rules[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflowAction, action)
	}

	if !current.IsValid() {
		return nil, fmt.Errorf("%w: %s is not allowed from unknown status %q", ErrInvalidStateTransition, action, current)
	}
	if current.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is not allowed from terminal status %s", ErrInvalidStateTransition, action, current)
	}
	if len(rule.AllowedStatuses) > 0 && !containsStatus(rule.AllowedStatuses, current) {
		return nil, fmt.Errorf("%w: %s is not allowed from status %s", ErrInvalidStateTransition, action, current)
	}

	if rule.RequiresBundle && !flags.HasBundleItems {
		return nil, fmt.Errorf("%w: %s requires bundle items", ErrInvalidStateTransition, action)
	}
	if rule.RequiresGroup && !flags.IsGroupOrder {
		return nil, fmt.Errorf("%w: %s requires a group order", ErrInvalidStateTransition, action)
	}
	if rule.RequiresRush && !flags.IsRush {
		return nil, fmt.Errorf("%w: %s requires a rush order", ErrInvalidStateTransition, action)
	}

	return &ActionAcceptance{
		Action:        action,
		WorkflowName:  rule.WorkflowName,
		CurrentStatus: current,
	}, nil
}

func containsStatus(statuses []OrderStatus, s OrderStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
