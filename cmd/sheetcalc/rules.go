package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the attributes, trackers, body plans, and conditions in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer func() { _ = e.logger.Sync() }()
		return printRules(cmd.OutOrStdout(), e.rules)
	},
}

func printRules(out io.Writer, r *ruleset.Rules) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ATTRIBUTE\tNAME\tKIND\tBASE\tCOST")
	for _, d := range r.Attributes {
		if d.Kind == attribute.KindSeparator {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\n", d.ID, d.Name, d.Kind, d.Base, d.CostPerPoint)
	}
	for _, d := range r.Trackers {
		fmt.Fprintf(w, "%s\t%s\ttracker\t%s\t\n", d.ID, d.Name, d.Base)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "BODY PLAN\tNAME\tROLL\tLOCATIONS")
	ids := make([]string, 0, len(r.BodyPlans))
	for id := range r.BodyPlans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := r.BodyPlans[id]
		marker := ""
		if id == r.DefaultBodyPlan {
			marker = " (default)"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%d\n", id, marker, t.Name, t.Roll, len(t.Locations))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CONDITION\tNAME\tMAX STACKS\tFEATURES")
	for _, c := range r.Conditions.All() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", c.ID, c.Name, c.MaxStacks, len(c.Features))
	}
	return w.Flush()
}
