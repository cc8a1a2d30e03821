package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wms-platform/fulfillment-service/internal/config"
	"github.com/wms-platform/fulfillment-service/internal/domain"
)

type rootOptions struct {
	scoringPath string
	output      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fulfillctl",
		Short:         "Offline tooling for the apparel fulfillment core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			}
			return fmt.Errorf("unsupported output format %q (json, yaml)", opts.output)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.scoringPath, "scoring", os.Getenv("SCORING_CONFIG_PATH"), "scoring config YAML; defaults are used when empty")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	cmd.AddCommand(
		newQueueCmd(opts),
		newRecommendCmd(opts),
		newValidateCmd(opts),
		newActionsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) core() (*domain.Core, error) {
	scoring, err := config.LoadScoring(o.scoringPath)
	if err != nil {
		return nil, err
	}
	return domain.NewCore(scoring, domain.DefaultActionRules()), nil
}

func (o *rootOptions) write(w io.Writer, v any) error {
	if o.output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readFile decodes a .json file with encoding/json and anything else as YAML
func readFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
