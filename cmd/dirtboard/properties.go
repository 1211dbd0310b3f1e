package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

func (c *cli) listCmd() *cobra.Command {
	var (
		statuses []string
		counties []string
		search   string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Long: `List properties, newest first, narrowed by the pipeline filters.
Disqualified properties are hidden unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := models.PropertyFilters{
				County:           counties,
				Search:           search,
				ShowDisqualified: all,
			}
			for _, s := range statuses {
				filters.Status = append(filters.Status, models.PropertyStatus(s))
			}

			props, err := c.app.Properties.List(cmd.Context(), filters, true)
			if err != nil {
				return err
			}
			return printJSON(cmd, props)
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only these statuses (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&counties, "county", nil, "Only these counties (repeatable or comma separated)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search")
	cmd.Flags().BoolVar(&all, "all", false, "Include disqualified properties")
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Properties.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) findParcelCmd() *cobra.Command {
	var county string

	cmd := &cobra.Command{
		Use:   "find-parcel <parcel_id>",
		Short: "Find properties by parcel id",
		Long:  `Find properties by parcel id. Prints null when the parcel is not tracked.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := c.app.Properties.FindByParcel(cmd.Context(), args[0], county)
			if err != nil {
				return err
			}
			switch len(props) {
			case 0:
				return printJSON(cmd, nil)
			case 1:
				return printJSON(cmd, props[0])
			default:
				return printJSON(cmd, props)
			}
		},
	}

	cmd.Flags().StringVar(&county, "county", "", "Only search this county")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <json>",
		Short: "Add a property",
		Long: `Add a property from a JSON object. parcel_id, county and owner_name are
required; status defaults to new, pipeline_stage to 1 and property_type to raw_land.

Example:
  dirtboard add '{"parcel_id":"02-10-26-0000-0010","county":"Putnam","owner_name":"LAIESKI JOHN EST"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.PropertyInsert
			if err := json.Unmarshal([]byte(args[0]), &in); err != nil {
				return fmt.Errorf("invalid property JSON: %w", err)
			}

			p, err := c.app.Properties.Create(cmd.Context(), &in)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <json>",
		Short: "Update fields of a property",
		Long: `Update the fields present in a JSON object.

Example:
  dirtboard update <id> '{"tax_status":"current","asking_price":12000}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u models.PropertyUpdate
			if err := json.Unmarshal([]byte(args[1]), &u); err != nil {
				return fmt.Errorf("invalid update JSON: %w", err)
			}

			p, err := c.app.Properties.Update(cmd.Context(), args[0], &u)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) disqualifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disqualify <id> <reason> [notes...]",
		Short: "Disqualify a property",
		Long: fmt.Sprintf(`Disqualify a property and reset it to pipeline stage 0.

Reasons: %s`, strings.Join(reasonNames(), ", ")),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var notes *string
			if len(args) > 2 {
				joined := strings.Join(args[2:], " ")
				notes = &joined
			}

			p, err := c.app.Properties.Disqualify(cmd.Context(), args[0], models.DisqualificationReason(args[1]), notes)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) qualifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qualify <id>",
		Short: "Mark a property as qualified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Properties.Qualify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) needsValidationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "needs-validation",
		Short: "List qualified properties that still need due diligence",
		Long:  `List qualified properties with no tax status on record.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := c.app.Properties.NeedsValidation(cmd.Context())
			if err != nil {
				return err
			}
			c.log.Info("Properties needing validation", logger.Fields{"count": len(props)})
			return printJSON(cmd, props)
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pipeline counts and dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.app.Properties.Stats(cmd.Context(), true)
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}
}

func reasonNames() []string {
	names := make([]string, 0, len(models.DisqualificationReasons))
	for _, r := range models.DisqualificationReasons {
		names = append(names, string(r))
	}
	return names
}
