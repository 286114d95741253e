package main

import (
	"fmt"
	"net/http"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	admin "nss-bloodbank/backend/internal/admin/handler"
	donordomain "nss-bloodbank/backend/internal/donor/domain"
)

type donorList struct {
	Donors []*donordomain.Donor `json:"donors"`
	Total  int                  `json:"total"`
}

func newDonorsCmd(c *cli) *cobra.Command {
	var f donordomain.Filter
	cmd := &cobra.Command{
		Use:   "donors",
		Short: "List registered donors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.session(ctx)
			if err != nil {
				return err
			}
			q := url.Values{}
			for k, v := range map[string]string{
				"search":      f.Search,
				"blood_group": f.BloodGroup,
				"state":       f.State,
				"city":        f.City,
			} {
				if v != "" {
					q.Set(k, v)
				}
			}
			var res donorList
			if err := c.client(ctx, sess).do(ctx, http.MethodGet, "/api/donors", q, nil, &res); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGROUP\tPHONE\tCITY\tSTATE\tDONATIONS")
			for _, d := range res.Donors {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", d.Name, d.BloodGroup, d.Phone, d.City, d.State, d.TotalDonations)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d donor(s)\n", res.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "Match name, email or phone")
	cmd.Flags().StringVar(&f.BloodGroup, "blood-group", "", "Blood group, e.g. O+")
	cmd.Flags().StringVar(&f.State, "state", "", "State")
	cmd.Flags().StringVar(&f.City, "city", "", "City")
	return cmd
}

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show admin statistics (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.session(ctx)
			if err != nil {
				return err
			}
			var d admin.Dashboard
			err = c.client(ctx, sess).do(ctx, http.MethodGet, "/api/admin/dashboard", nil, nil, &d)
			switch {
			case isStatus(err, http.StatusUnauthorized):
				return fmt.Errorf("not signed in; run bloodctl login")
			case isStatus(err, http.StatusForbidden):
				return fmt.Errorf("admin access required")
			case err != nil:
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Total donors\t%d\n", d.TotalDonors)
			if d.RegisteredUsers != nil {
				fmt.Fprintf(tw, "Registered users\t%d\n", *d.RegisteredUsers)
			}
			fmt.Fprintf(tw, "Active requests\t%d\n", d.ActiveRequests)
			fmt.Fprintf(tw, "Upcoming events\t%d\n", d.UpcomingEvents)
			fmt.Fprintf(tw, "Donations this month\t%d\n", d.DonationsThisMonth)
			fmt.Fprintf(tw, "Units collected\t%d\n", d.DonationStats.TotalUnits)
			return tw.Flush()
		},
	}
}
