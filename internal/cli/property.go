package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

func newPropertiesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property"},
		Short:   "List, add and inspect properties",
	}
	cmd.AddCommand(newPropertiesListCmd(rt), newPropertiesAddCmd(rt), newPropertiesShowCmd(rt))
	return cmd
}

func newPropertiesListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the owner's properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			properties, err := rt.app.Services.Properties.List(cmd.Context())
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(properties, func(w io.Writer) error {
				if len(properties) == 0 {
					_, err := fmt.Fprintln(w, "No properties yet")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCITY\tROOMS")
				for _, p := range properties {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Address.City, len(p.RoomIDs))
				}
				return tw.Flush()
			})
		},
	}
}

func newPropertiesAddCmd(rt *runtime) *cobra.Command {
	var address model.Address

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			p, err := rt.app.Services.Properties.Add(cmd.Context(), args[0], address)
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added property %s (%s)\n", p.Name, p.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&address.Address, "address", "", "street address")
	cmd.Flags().StringVar(&address.Locality, "locality", "", "locality")
	cmd.Flags().StringVar(&address.City, "city", "", "city")
	cmd.Flags().StringVar(&address.State, "state", "", "state")
	cmd.Flags().StringVar(&address.Pincode, "pincode", "", "pincode")
	cmd.Flags().StringVar(&address.Landmark, "landmark", "", "landmark")
	return cmd
}

func newPropertiesShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROPERTY_ID",
		Short: "Show a property and its rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			p, err := rt.app.Services.Properties.Get(cmd.Context(), args[0])
			if err != nil {
				return rt.explain(err)
			}
			rt.app.Nav.Navigate(model.ScreenPropertyDetail, model.Params{model.KeyPropertyID: p.ID})

			return rt.print(p, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
				fmt.Fprintf(w, "%s, %s, %s %s\n", p.Address.Address, p.Address.City, p.Address.State, p.Address.Pincode)
				tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
				fmt.Fprintln(tw, "ROOM ID\tNAME\tTENANTS")
				for _, r := range p.Rooms {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", r.ID, r.Name, len(r.Tenants))
				}
				return tw.Flush()
			})
		},
	}
}

func newRoomsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rooms",
		Aliases: []string{"room"},
		Short:   "Add rooms and inspect their tenants",
	}
	cmd.AddCommand(newRoomsAddCmd(rt), newRoomsTenantsCmd(rt))
	return cmd
}

func newRoomsAddCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add PROPERTY_ID ROOM_NAME",
		Short: "Add a room to a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			room, err := rt.app.Services.Properties.AddRoom(cmd.Context(), args[0], args[1])
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(room, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added room %s (%s)\n", room.Name, room.ID)
				return err
			})
		},
	}
}

func newRoomsTenantsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tenants ROOM_ID",
		Short: "List the tenants of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			tenants, err := rt.app.Services.Properties.RoomTenants(cmd.Context(), args[0])
			if err != nil {
				return rt.explain(err)
			}
			rt.app.Nav.Navigate(model.ScreenRoomDetail, model.Params{model.KeyRoomID: args[0]})
			return rt.print(tenants, func(w io.Writer) error {
				return writeTenants(w, tenants)
			})
		},
	}
}

func writeTenants(w io.Writer, tenants []model.Tenant) error {
	if len(tenants) == 0 {
		_, err := fmt.Fprintln(w, "No tenants")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tHEAD\tRENT\tSTART\tPENDING\tACTIVE")
	for _, t := range tenants {
		head := "-"
		if t.HeadPerson != nil {
			head = t.HeadPerson.Name
		} else if len(t.Persons) > 0 {
			head = t.Persons[0].Name
		}
		active := "yes"
		if !t.Active() {
			active = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%s\t%.0f\t%s\n", t.ID, head, t.Rent, t.StartDate, t.PendingMoney, active)
	}
	return tw.Flush()
}
