package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/notify"
)

// navigationGrace is how long open waits past the ready delay
const navigationGrace = 500 * time.Millisecond

func newNotifyCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Receive, open and publish push notifications",
	}
	cmd.AddCommand(newNotifyListenCmd(rt), newNotifyOpenCmd(rt), newNotifyPublishCmd(rt))
	return cmd
}

func newNotifyListenCmd(rt *runtime) *cobra.Command {
	var background bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run the push receiver and stream workers until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt.app
			a.SetForeground(!background)

			a.Dispatcher.OnNavigate = func(ev model.Event, target model.Target) {
				fmt.Fprintf(rt.opts.Out, "-> %s %v (from %s)\n", target.Screen, target.Params, ev.Source)
			}
			if err := a.Subscribe(func(s model.Session) {
				if !s.Authenticated() && s.Status != model.StatusLoading {
					fmt.Fprintln(rt.opts.Out, "Session ended")
				}
			}); err != nil {
				return err
			}

			if err := a.Dispatcher.HandleInitial(cmd.Context(), a.Displayer); err != nil {
				return err
			}
			fmt.Fprintf(rt.opts.Out, "Listening for pushes on %s\n", a.Config.PushListenAddr)
			return a.RunPush(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&background, "background", false, "treat the app as backgrounded")
	return cmd
}

func newNotifyOpenCmd(rt *runtime) *cobra.Command {
	var (
		data      map[string]string
		coldStart bool
	)

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Simulate a tap on a notification carrying --data",
		Example: `  rentowner notify open --data screen=RoomDetail,roomId=r1
  rentowner notify open --cold-start --data screen=TenantDocuments,tenantId=t1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt.app
			n := notify.Render(model.Message{Data: data})

			navigated := make(chan model.Target, 1)
			a.Dispatcher.OnNavigate = func(_ model.Event, target model.Target) {
				navigated <- target
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- a.Dispatcher.Run(ctx) }()

			var err error
			if coldStart {
				a.Displayer.SetLaunch(n)
				err = a.Dispatcher.HandleInitial(ctx, a.Displayer)
			} else {
				err = a.Dispatcher.Opened(ctx, notify.EventFrom(n, model.SourceForeground))
			}
			if err != nil {
				return err
			}

			wait := time.NewTimer(a.Config.NavReadyDelay + navigationGrace)
			defer wait.Stop()

			var result struct {
				Navigated bool        `json:"navigated"`
				Route     model.Route `json:"route"`
			}
			select {
			case target := <-navigated:
				result.Navigated = true
				result.Route = model.Route{Name: target.Screen, Params: target.Params}
			case <-wait.C:
				if stack := a.Stack(); stack != nil {
					result.Route = stack.Current()
				}
			case <-ctx.Done():
				return ctx.Err()
			}

			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return rt.print(result, func(w io.Writer) error {
				if !result.Navigated {
					_, err := fmt.Fprintf(w, "No navigation, still on %s\n", result.Route.Name)
					return err
				}
				_, err := fmt.Fprintf(w, "Navigated to %s %v\n", result.Route.Name, result.Route.Params)
				return err
			})
		},
	}
	cmd.Flags().StringToStringVar(&data, "data", nil, "notification data as key=value pairs")
	cmd.Flags().BoolVar(&coldStart, "cold-start", false, "treat the tap as the app launch")
	return cmd
}

func newNotifyPublishCmd(rt *runtime) *cobra.Command {
	var (
		data   map[string]string
		opened bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a push to the redis stream, as the relay does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub := rt.app.Publisher
			if pub == nil {
				return fmt.Errorf("REDIS_URL is not configured")
			}
			if len(data) == 0 {
				return fmt.Errorf("--data is required")
			}

			var (
				id  string
				err error
			)
			if opened {
				id, err = pub.PublishOpened(cmd.Context(), notify.Render(model.Message{Data: data}))
			} else {
				id, err = pub.PublishMessage(cmd.Context(), data)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(rt.opts.Out, "Published %s\n", id)
			return err
		},
	}
	cmd.Flags().StringToStringVar(&data, "data", nil, "push data as key=value pairs")
	cmd.Flags().BoolVar(&opened, "opened", false, "publish a tap instead of a message")
	return cmd
}
