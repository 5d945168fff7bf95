package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftstay/admin/internal/api"
	"github.com/swiftstay/admin/internal/theme"
)

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show the admin dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := unwrap(env.Client.DashboardStats(cmd.Context()))
			if err != nil {
				return err
			}
			if env.Output != OutputTable {
				return env.emit(stats, nil)
			}

			s := stats.Summary
			t := &table{header: []string{"METRIC", "VALUE"}}
			t.add("Users", fmt.Sprintf("%d (%d active)", s.TotalUsers, s.ActiveUsers))
			t.add("Admins", count(s.TotalAdmins))
			t.add("Properties", fmt.Sprintf("%d (%d active, %d featured)", s.TotalProperties, s.ActiveProperties, s.FeaturedProperties))
			t.add("Categories", count(s.TotalCategories))
			t.add("Likes", count(s.TotalLikes))
			t.add("Notifications", fmt.Sprintf("%d (%d unread)", s.TotalNotifications, s.UnreadNotifications))
			t.add("New users (7d)", count(stats.RecentActivity.NewUsers))
			t.add("New properties (7d)", count(stats.RecentActivity.NewProperties))
			t.add("System", stats.System.Status)
			if err := env.emit(stats, t); err != nil {
				return err
			}

			if len(stats.Charts.PropertiesByCategory) > 0 {
				fmt.Fprintln(env.Out)
				cats := &table{header: []string{"CATEGORY", "PROPERTIES"}}
				for _, c := range stats.Charts.PropertiesByCategory {
					cats.add(c.CategoryName, count(c.Count))
				}
				if err := env.emit(stats, cats); err != nil {
					return err
				}
			}

			if len(stats.Charts.TopPropertiesByLikes) > 0 {
				fmt.Fprintln(env.Out)
				top := &table{header: []string{"MOST LIKED", "LIKES"}}
				for _, p := range stats.Charts.TopPropertiesByLikes {
					top.add(p.PropertyName, count(p.LikeCount))
				}
				return env.emit(stats, top)
			}
			return nil
		},
	}
}

// NewHealthCmd creates the health command
func NewHealthCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := unwrap(env.Client.HealthCheck(cmd.Context()))
			if err != nil {
				return err
			}
			t := &table{header: []string{"STATUS", "UPTIME", "TIMESTAMP"}}
			t.add(h.Status, time.Duration(float64(h.Uptime) * float64(time.Second)).Round(time.Second).String(), h.Timestamp)
			return env.emit(h, t)
		},
	}
}

// NewReportsCmd creates the reports command group
func NewReportsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Financial reports",
	}

	var period string
	earnings := &cobra.Command{
		Use:   "earnings",
		Short: "Show earnings per property",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := unwrap(env.Client.PropertyEarningsReport(cmd.Context(), period))
			if err != nil {
				return err
			}

			t := &table{header: []string{"PROPERTY", "CITY", "BOOKINGS", "REVENUE", "COMMISSION", "EARNINGS"}}
			for _, p := range r.Properties {
				t.add(p.PropertyName, p.PropertyCity, count(p.TotalBookings), money(p.TotalRevenue, ""),
					money(p.TotalCommission, ""), money(p.TotalEarnings, ""))
			}
			tt := r.Totals
			t.add("TOTAL", "", count(tt.TotalBookings), money(tt.TotalRevenue, ""),
				money(tt.TotalCommission, ""), money(tt.TotalEarnings, ""))

			if env.Output == OutputTable {
				fmt.Fprintf(env.Out, "Earnings (%s) %s to %s\n\n", r.Period, r.StartDate, r.EndDate)
			}
			return env.emit(r, t)
		},
	}
	earnings.Flags().StringVar(&period, "period", api.PeriodMonthly, "daily, weekly, monthly or yearly")
	cmd.AddCommand(earnings)

	return cmd
}

// NewCommissionCmd creates the commission command group
func NewCommissionCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commission",
		Short: "Platform commission settings",
	}

	show := func(s *api.CommissionSettings) error {
		t := &table{header: []string{"COMMISSION"}}
		t.add(strconv.FormatFloat(s.CommissionPercentage, 'f', -1, 64) + "%")
		return env.emit(s, t)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the commission percentage",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := unwrap(env.Client.CommissionSettings(cmd.Context()))
			if err != nil {
				return err
			}
			return show(s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <percentage>",
		Short: "Change the commission percentage (0 to 100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid percentage '%s'", args[0])
			}
			s, err := unwrap(env.Client.UpdateCommissionSettings(cmd.Context(), api.CommissionSettings{CommissionPercentage: pct}))
			if err != nil {
				return err
			}
			return show(s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "calc <price>",
		Short: "Show what a guest pays for a room price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid price '%s'", args[0])
			}
			s, err := unwrap(env.Client.CommissionSettings(cmd.Context()))
			if err != nil {
				return err
			}

			commission, total := s.Apply(price)
			result := struct {
				Price                float64 `json:"price"`
				CommissionPercentage float64 `json:"commission_percentage"`
				Commission           float64 `json:"commission"`
				Total                float64 `json:"total"`
			}{price, s.CommissionPercentage, commission, total}

			t := &table{header: []string{"PRICE", "COMMISSION", "TOTAL"}}
			t.add(money(api.Amount(price), ""), money(api.Amount(commission), ""), money(api.Amount(total), ""))
			return env.emit(result, t)
		},
	})

	return cmd
}

func profileTable(p *api.AdminProfile) *table {
	t := &table{header: []string{"ID", "NAME", "EMAIL", "ROLE", "LAST LOGIN"}}
	t.add(p.ID, p.FullName, p.Email, p.Role, p.LastLoginAt)
	return t
}

// NewProfileCmd creates the profile command group
func NewProfileCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Your admin account",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := unwrap(env.Client.AdminProfile(cmd.Context()))
			if err != nil {
				return err
			}
			return env.emit(p, profileTable(p))
		},
	})

	var in api.ProfileInput
	var changePassword bool
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name, email or password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if changePassword {
				var err error
				if in.CurrentPassword, err = env.ReadPassword("Current password: "); err != nil {
					return err
				}
				if in.NewPassword, err = env.ReadPassword("New password: "); err != nil {
					return err
				}
			}
			p, err := unwrap(env.Client.UpdateAdminProfile(cmd.Context(), in))
			if err != nil {
				return err
			}
			return env.emit(p, profileTable(p))
		},
	}
	update.Flags().StringVar(&in.FullName, "name", "", "Full name")
	update.Flags().StringVar(&in.Email, "email", "", "Email address")
	update.Flags().BoolVar(&changePassword, "password", false, "Prompt for a new password")
	cmd.AddCommand(update)

	return cmd
}

func settingsTable(s *api.AppSettings) *table {
	t := &table{header: []string{"SETTING", "VALUE"}}
	t.add("App", fmt.Sprintf("%s %s (%s)", s.AppName, s.AppVersion, s.Environment))
	t.add("Maintenance mode", yesNo(s.MaintenanceMode))
	t.add("Allow registrations", yesNo(s.AllowRegistrations))
	t.add("Require email verification", yesNo(s.RequireEmailVerification))
	t.add("Require phone verification", yesNo(s.RequirePhoneVerification))
	return t
}

// NewSettingsCmd creates the settings command group
func NewSettingsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Global app settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show app settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := unwrap(env.Client.AppSettings(cmd.Context()))
			if err != nil {
				return err
			}
			return env.emit(s, settingsTable(s))
		},
	})

	var maintenance, registrations, emailVerification, phoneVerification bool
	update := &cobra.Command{
		Use:   "update",
		Short: "Change app settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.AppSettingsInput
			set := cmd.Flags().Changed
			if set("maintenance") {
				in.MaintenanceMode = &maintenance
			}
			if set("allow-registrations") {
				in.AllowRegistrations = &registrations
			}
			if set("require-email-verification") {
				in.RequireEmailVerification = &emailVerification
			}
			if set("require-phone-verification") {
				in.RequirePhoneVerification = &phoneVerification
			}

			s, err := unwrap(env.Client.UpdateAppSettings(cmd.Context(), in))
			if err != nil {
				return err
			}
			return env.emit(s, settingsTable(s))
		},
	}
	update.Flags().BoolVar(&maintenance, "maintenance", false, "Maintenance mode")
	update.Flags().BoolVar(&registrations, "allow-registrations", true, "Allow new registrations")
	update.Flags().BoolVar(&emailVerification, "require-email-verification", false, "Require email verification")
	update.Flags().BoolVar(&phoneVerification, "require-phone-verification", false, "Require phone verification")
	cmd.AddCommand(update)

	return cmd
}

// themeStatus is what the theme commands print
type themeStatus struct {
	theme.Result
	NextSwitch string `json:"nextSwitch"`
}

// NewThemeCmd creates the theme command group
func NewThemeCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Day/night color scheme",
	}

	ttl := func() time.Duration {
		if env.Config != nil && env.Config.Theme.OverrideTTL > 0 {
			return env.Config.Theme.OverrideTTL
		}
		return theme.DefaultOverrideTTL
	}

	show := func(r theme.Result, now time.Time) error {
		status := themeStatus{Result: r, NextSwitch: theme.NextSwitch(now).Format(time.RFC3339)}
		t := &table{header: []string{"THEME", "DAYTIME", "OVERRIDE", "NEXT SWITCH"}}
		t.add(string(r.Theme), yesNo(r.IsDayTime), yesNo(r.OverrideActive), status.NextSwitch)
		return env.emit(status, t)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the theme in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := env.Now()
			override, err := theme.LoadOverride(cmd.Context(), env.Store, now, ttl())
			if err != nil {
				return err
			}
			return show(theme.Resolve(now, override, ttl()), now)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch theme for the override window",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := env.Now()
			override, err := theme.LoadOverride(cmd.Context(), env.Store, now, ttl())
			if err != nil {
				return err
			}

			next := theme.Toggle(theme.Resolve(now, override, ttl()).Theme, now)
			if err := theme.SaveOverride(cmd.Context(), env.Store, next); err != nil {
				return err
			}
			return show(theme.Resolve(now, &next, ttl()), now)
		},
	})

	return cmd
}
