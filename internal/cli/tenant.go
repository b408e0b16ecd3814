package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

const dateLayout = "2006-01-02"

// parseDate reads YYYY-MM-DD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func newTenantsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant"},
		Short:   "Add and remove tenants",
	}
	cmd.AddCommand(newTenantsAddCmd(rt), newTenantsRemoveCmd(rt))
	return cmd
}

func newTenantsAddCmd(rt *runtime) *cobra.Command {
	var (
		head    model.Person
		rent    float64
		reading float64
		start   string
	)

	cmd := &cobra.Command{
		Use:   "add ROOM_ID",
		Short: "Add a tenant to a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}
			if head.Name == "" {
				return fmt.Errorf("--name is required")
			}
			head.IsHead = true

			req := model.AddTenantRequest{
				StartDate:      startDate.Format(dateLayout),
				Rent:           strconv.FormatFloat(rent, 'f', -1, 64),
				InitialReading: strconv.FormatFloat(reading, 'f', -1, 64),
				Persons:        []model.Person{head},
			}
			tenant, err := rt.app.Services.Tenants.Add(cmd.Context(), args[0], req)
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(tenant, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added tenant %s (%s)\n", head.Name, tenant.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&head.Name, "name", "", "head person's name")
	cmd.Flags().StringVar(&head.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&head.Email, "email", "", "email")
	cmd.Flags().StringVar(&head.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&head.DOB, "dob", "", "date of birth")
	cmd.Flags().Float64Var(&rent, "rent", 0, "monthly rent")
	cmd.Flags().Float64Var(&reading, "reading", 0, "initial meter reading")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (default today)")
	return cmd
}

func newTenantsRemoveCmd(rt *runtime) *cobra.Command {
	var end string

	cmd := &cobra.Command{
		Use:   "remove ROOM_ID TENANT_ID",
		Short: "Mark a tenant as having left",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			endDate, err := parseDate(end)
			if err != nil {
				return err
			}
			if err := rt.app.Services.Tenants.Remove(cmd.Context(), args[0], args[1], endDate); err != nil {
				return rt.explain(err)
			}
			_, err = fmt.Fprintf(rt.opts.Out, "Tenant %s left on %s\n", args[1], endDate.Format(dateLayout))
			return err
		},
	}
	cmd.Flags().StringVar(&end, "end-date", "", "end date YYYY-MM-DD (default today)")
	return cmd
}

func newPaymentsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "List and record rent payments",
	}
	cmd.AddCommand(newPaymentsListCmd(rt), newPaymentsAddCmd(rt))
	return cmd
}

func newPaymentsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list TENANT_ID",
		Short: "List a tenant's payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			txns, err := rt.app.Services.Tenants.Transactions(cmd.Context(), args[0])
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(txns, func(w io.Writer) error {
				if len(txns) == 0 {
					_, err := fmt.Fprintln(w, "No payments")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
				fmt.Fprintln(tw, "DATE\tMODE\tRENT\tUNITS\tBILL\tTOTAL\tSTATUS")
				for _, t := range txns {
					fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%s\n",
						t.DOP, t.MOP, t.RoomRent, t.BuildReading, t.Bill, t.TotalAmount, t.Status)
				}
				return tw.Flush()
			})
		},
	}
}

func newPaymentsAddCmd(rt *runtime) *cobra.Command {
	var (
		rent, previous, current float64
		mode, date              string
	)

	cmd := &cobra.Command{
		Use:   "add ROOM_ID TENANT_ID",
		Short: "Record a payment; the electricity bill is computed from the readings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			dop, err := parseDate(date)
			if err != nil {
				return err
			}
			req, err := model.NewPaymentRequest(args[0], args[1], mode, dop, rent, previous, current)
			if err != nil {
				return err
			}
			rt.app.Nav.Navigate(model.ScreenTransactionDetails, model.Params{
				model.KeyTenantID: args[1],
				model.KeyRoomID:   args[0],
				"previousReading": previous,
			})

			txn, err := rt.app.Services.Payments.Add(cmd.Context(), req)
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(txn, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Recorded payment %s: rent %.0f + bill %.0f (%.0f units)\n",
					txn.ID, req.RoomRent, req.Bill, req.BuildReading)
				return err
			})
		},
	}
	cmd.Flags().Float64Var(&rent, "rent", 0, "room rent")
	cmd.Flags().Float64Var(&previous, "previous", 0, "previous meter reading")
	cmd.Flags().Float64Var(&current, "current", 0, "current meter reading")
	cmd.Flags().StringVar(&mode, "mode", "Cash", "mode of payment")
	cmd.Flags().StringVar(&date, "date", "", "date of payment YYYY-MM-DD (default today)")
	return cmd
}
