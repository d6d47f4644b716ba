package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-extjs/pkg/proxy"
)

func newRoutesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List every action URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERB\tKIND\tURL\tFUNCTION")
			urls := app.URLs()
			for _, desc := range app.Tree().List() {
				for _, action := range desc.Actions {
					verb := string(action.Verb)
					if verb == "" {
						verb = "ANY"
					}
					kind, fn := "view", "-"
					if action.Ajax {
						kind, fn = "ajax", proxy.CamelCase(action.FunctionName())
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", verb, kind, urls.BuildURL(desc.Area, desc.Name, action.Name), fn)
				}
			}
			return w.Flush()
		},
	}
}
