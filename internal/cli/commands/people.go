package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swiftstay/admin/internal/api"
)

func userTable(items []api.User) *table {
	t := &table{header: []string{"ID", "NAME", "EMAIL", "VERIFIED", "ACTIVE", "JOINED"}}
	for _, u := range items {
		t.add(u.ID, u.FullName, u.Email, yesNo(u.IsEmailVerified), yesNo(u.IsActive), u.CreatedAt)
	}
	return t
}

func pageFooter(env *Env, p api.Pagination) {
	if env.Output == OutputTable && p.PageCount() > 1 {
		fmt.Fprintf(env.Out, "\nPage %d of %d (%d total)\n", p.Page, p.PageCount(), p.Total)
	}
}

// NewUsersCmd creates the users command group
func NewUsersCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage app users",
	}

	var filter api.UserFilter
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListUsers(cmd.Context(), filter))
			if err != nil {
				return err
			}
			if err := env.emit(list, userTable(list.Users)); err != nil {
				return err
			}
			pageFooter(env, list.Pagination)
			return nil
		},
	}
	listCmd.Flags().IntVar(&filter.Page, "page", 1, "Page number")
	listCmd.Flags().IntVar(&filter.Limit, "limit", 20, "Users per page")
	listCmd.Flags().StringVar(&filter.Search, "search", "", "Match name or email")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := unwrap(env.Client.GetUser(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(u, userTable([]api.User{*u}))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show user counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := unwrap(env.Client.UserStats(cmd.Context()))
			if err != nil {
				return err
			}
			t := &table{header: []string{"TOTAL", "ACTIVE", "NEW THIS WEEK", "NEW THIS MONTH"}}
			t.add(count(s.TotalUsers), count(s.ActiveUsers), count(s.NewUsersThisWeek), count(s.NewUsersThisMonth))
			return env.emit(s, t)
		},
	})

	for _, active := range []bool{true, false} {
		use, short := "activate <id>", "Activate a user"
		if !active {
			use, short = "deactivate <id>", "Deactivate a user"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := env.Client.UpdateUserStatus(cmd.Context(), args[0], active)
				u, err := unwrap(res, err)
				if err != nil {
					return err
				}
				if env.Output == OutputTable {
					fmt.Fprintf(env.Out, "✓ %s\n", res.Message)
				}
				return env.emit(u, userTable([]api.User{*u}))
			},
		})
	}

	cmd.AddCommand(deleteCmd(env, "user", func(ctx context.Context, id string) (*api.RawEnvelope, error) {
		return env.Client.DeleteUser(ctx, id)
	}))

	return cmd
}

func notificationTable(items []api.Notification) *table {
	t := &table{header: []string{"ID", "TYPE", "TITLE", "READ", "CREATED"}}
	for _, n := range items {
		t.add(n.ID, n.Type, n.Title, yesNo(n.IsRead), n.CreatedAt)
	}
	return t
}

// NewNotificationsCmd creates the notifications command group
func NewNotificationsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification"},
		Short:   "Manage push notifications",
	}

	var filter api.NotificationFilter
	var unread bool
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if unread {
				isRead := false
				filter.IsRead = &isRead
			}
			list, err := unwrap(env.Client.ListNotifications(cmd.Context(), filter))
			if err != nil {
				return err
			}
			if err := env.emit(list, notificationTable(list.Notifications)); err != nil {
				return err
			}
			pageFooter(env, list.Pagination)
			return nil
		},
	}
	listCmd.Flags().IntVar(&filter.Page, "page", 1, "Page number")
	listCmd.Flags().IntVar(&filter.Limit, "limit", 20, "Notifications per page")
	listCmd.Flags().StringVar(&filter.Type, "type", "", "Only this type")
	listCmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show notification counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := unwrap(env.Client.NotificationStats(cmd.Context()))
			if err != nil {
				return err
			}
			t := &table{header: []string{"TYPE", "COUNT"}}
			for _, tc := range s.NotificationsByType {
				t.add(tc.Type, count(tc.Count))
			}
			t.add("total", count(s.TotalNotifications))
			t.add("unread", count(s.UnreadNotifications))
			t.add("last 24h", count(s.RecentNotifications))
			return env.emit(s, t)
		},
	})

	var file string
	var in api.NotificationInput
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Broadcast a notification to users",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := api.NotificationInput{TargetUsers: "all"}
			if file != "" {
				if err := readPayload(file, &payload); err != nil {
					return err
				}
			}
			set := cmd.Flags().Changed
			if set("title") {
				payload.Title = in.Title
			}
			if set("message") {
				payload.Message = in.Message
			}
			if set("type") {
				payload.Type = in.Type
			}
			if set("target") {
				payload.TargetUsers = in.TargetUsers
			}

			res, err := env.Client.CreateNotification(cmd.Context(), payload)
			n, err := unwrap(res, err)
			if err != nil {
				return err
			}
			if env.Output == OutputTable {
				fmt.Fprintf(env.Out, "✓ %s\n", res.Message)
			}
			return env.emit(n, notificationTable([]api.Notification{*n}))
		},
	}
	sendCmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with the notification")
	sendCmd.Flags().StringVar(&in.Title, "title", "", "Title")
	sendCmd.Flags().StringVar(&in.Message, "message", "", "Message body")
	sendCmd.Flags().StringVar(&in.Type, "type", "", "new_property, property_update, system or promotion")
	sendCmd.Flags().StringVar(&in.TargetUsers, "target", "all", "all or verified")
	cmd.AddCommand(sendCmd)

	cmd.AddCommand(deleteCmd(env, "notification", func(ctx context.Context, id string) (*api.RawEnvelope, error) {
		return env.Client.DeleteNotification(ctx, id)
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := succeeded(env.Client.MarkNotificationRead(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.done(res, "Notification marked as read")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "test-push",
		Short: "Send a test push notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := succeeded(env.Client.TestPushNotification(cmd.Context()))
			if err != nil {
				return err
			}
			return env.done(res, "Test notification sent")
		},
	})

	return cmd
}

func applicationTable(items []api.OwnerApplication) *table {
	t := &table{header: []string{"ID", "APPLICANT", "PROPERTY", "CITY", "UNITS", "STATUS"}}
	for _, a := range items {
		units := "-"
		if a.UnitsAvailable != nil {
			units = strconv.Itoa(*a.UnitsAvailable)
		}
		t.add(a.ID, fmt.Sprintf("%s <%s>", a.FullName, a.Email), a.PropertyName, a.City, units, a.Status)
	}
	return t
}

// NewApplicationsCmd creates the applications command group for owner applications
func NewApplicationsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"application", "owner-applications"},
		Short:   "Review property owner applications",
	}

	var filter api.OwnerApplicationFilter
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List owner applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListOwnerApplications(cmd.Context(), filter))
			if err != nil {
				return err
			}
			return env.emit(list, applicationTable(list.Items))
		},
	}
	listCmd.Flags().IntVar(&filter.Page, "page", 1, "Page number")
	listCmd.Flags().IntVar(&filter.Limit, "limit", 20, "Applications per page")
	listCmd.Flags().StringVar(&filter.Status, "status", "", "pending, reviewing, approved or rejected")
	cmd.AddCommand(listCmd)

	verbs := []struct{ use, status, short string }{
		{"approve", api.ApplicationApproved, "Approve an application"},
		{"reject", api.ApplicationRejected, "Reject an application"},
		{"review", api.ApplicationReviewing, "Mark an application as under review"},
	}
	for _, v := range verbs {
		cmd.AddCommand(&cobra.Command{
			Use:   v.use + " <id>",
			Short: v.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := env.Client.UpdateOwnerApplicationStatus(cmd.Context(), args[0], v.status)
				a, err := unwrap(res, err)
				if err != nil {
					return err
				}
				if env.Output == OutputTable {
					fmt.Fprintf(env.Out, "✓ %s\n", res.Message)
				}
				return env.emit(a, applicationTable([]api.OwnerApplication{*a}))
			},
		})
	}

	return cmd
}
