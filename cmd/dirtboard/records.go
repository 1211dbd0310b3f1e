package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

const (
	defaultContactLabel  = "primary"
	defaultContactSource = "skip_trace"
)

func (c *cli) addContactCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "add-contact <property_id> <type> <value> [label]",
		Short: "Add an owner contact to a property",
		Long: `Add an owner contact. type is phone, email or mailing_address; label
defaults to primary.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := defaultContactLabel
			if len(args) == 4 {
				label = args[3]
			}

			contact, err := c.app.Contacts.Create(cmd.Context(), &models.ContactInsert{
				PropertyID:  args[0],
				ContactType: models.ContactType(args[1]),
				Value:       args[2],
				Label:       &label,
				Source:      &source,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, contact)
		},
	}

	cmd.Flags().StringVar(&source, "source", defaultContactSource, "Where the contact came from")
	return cmd
}

func (c *cli) logCmd() *cobra.Command {
	var (
		activityType string
		by           string
	)

	cmd := &cobra.Command{
		Use:   "log <property_id> <notes...>",
		Short: "Record an activity against a property",
		Long: `Record an activity. The notes are the remaining arguments joined by spaces.

Example:
  dirtboard log <id> checked appraiser site, no structures`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := strings.Join(args[1:], " ")
			activity, err := c.app.Activities.Log(cmd.Context(), &models.ActivityInsert{
				PropertyID:   args[0],
				ActivityType: models.ActivityType(activityType),
				Notes:        &notes,
				CreatedBy:    by,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, activity)
		},
	}

	cmd.Flags().StringVar(&activityType, "type", string(models.ActivityResearch), "Activity type")
	cmd.Flags().StringVar(&by, "by", "", "Who did it (defaults to ACTIVITY_ACTOR)")
	return cmd
}
