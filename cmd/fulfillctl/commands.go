package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/config"
	"github.com/wms-platform/fulfillment-service/internal/domain"
)

func newQueueCmd(opts *rootOptions) *cobra.Command {
	var (
		filters domain.QueueFilters
		status  string
		prio    string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "queue <orders-file>",
		Short: "Rank an order snapshot into the processing queue",
		Long: "Rank an order snapshot into the processing queue. Completed, cancelled and refunded\n" +
			"orders are left out unless --status names one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}

			var orders []domain.Order
			if err := readFile(args[0], &orders); err != nil {
				return err
			}

			filters.Status = domain.OrderStatus(status)
			filters.Priority = domain.Priority(prio)
			return opts.write(cmd.OutOrStdout(), application.BuildQueue(core.Ranker, orders, filters, limit))
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only orders in this status")
	cmd.Flags().StringVar(&prio, "priority", "", "only orders of this priority")
	cmd.Flags().StringVar(&filters.ProductSource, "source", "", "only orders from this product source")
	cmd.Flags().BoolVar(&filters.RushOnly, "rush", false, "only rush orders")
	cmd.Flags().BoolVar(&filters.GroupOnly, "group", false, "only group orders")
	cmd.Flags().StringVar(&filters.Search, "search", "", "match order number, customer name or email")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum orders to print; 0 prints all")
	return cmd
}

// itemsDocument accepts either an order document or a bare item list
type itemsDocument struct {
	OrderID     string             `json:"orderId" yaml:"orderId"`
	TotalWeight *float64           `json:"totalWeight" yaml:"totalWeight"`
	Items       []domain.OrderItem `json:"items" yaml:"items"`
}

func readItems(path string) (*itemsDocument, error) {
	var doc itemsDocument
	if err := readFile(path, &doc); err == nil && len(doc.Items) > 0 {
		return &doc, nil
	}
	var items []domain.OrderItem
	if err := readFile(path, &items); err != nil {
		return nil, err
	}
	return &itemsDocument{Items: items}, nil
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		templatesPath string
		weight        float64
	)

	cmd := &cobra.Command{
		Use:   "recommend <order-or-items-file>",
		Short: "Recommend shipping templates for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}

			doc, err := readItems(args[0])
			if err != nil {
				return err
			}
			if len(doc.Items) == 0 {
				return fmt.Errorf("%s has no items", args[0])
			}

			var templates []domain.ShippingTemplate
			if err := readFile(templatesPath, &templates); err != nil {
				return err
			}

			explicit := doc.TotalWeight
			if cmd.Flags().Changed("weight") {
				explicit = &weight
			}

			result := core.RecommendPackaging(doc.Items, explicit, templates)
			return opts.write(cmd.OutOrStdout(), application.ToPackagingRecommendationDTO(doc.OrderID, result))
		},
	}

	cmd.Flags().StringVarP(&templatesPath, "templates", "t", "", "shipping template catalog file")
	cmd.Flags().Float64Var(&weight, "weight", 0, "known total weight in lbs")
	_ = cmd.MarkFlagRequired("templates")
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scoring-file]",
		Short: "Validate a scoring config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.scoringPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no scoring config given")
			}
			if _, err := config.LoadScoring(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return err
		},
	}
}

func newActionsCmd(opts *rootOptions) *cobra.Command {
	var (
		orderPath string
		action    string
	)

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List workflow actions, or check one against an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher := domain.NewWorkflowActionDispatcher(domain.DefaultActionRules())

			if action == "" {
				rules := dispatcher.Rules()
				out := make([]application.ActionRuleDTO, 0, len(rules))
				for _, r := range rules {
					out = append(out, application.ToActionRuleDTO(r))
				}
				return opts.write(cmd.OutOrStdout(), out)
			}

			if orderPath == "" {
				return fmt.Errorf("--order is required with --action")
			}
			var order domain.Order
			if err := readFile(orderPath, &order); err != nil {
				return err
			}

			acceptance, err := dispatcher.ValidateTransition(domain.WorkflowAction(action), order.Status, order.Flags())
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), acceptance)
		},
	}

	cmd.Flags().StringVar(&orderPath, "order", "", "order file to check the action against")
	cmd.Flags().StringVar(&action, "action", "", "workflow action to check")
	return cmd
}
