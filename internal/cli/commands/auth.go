package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftstay/admin/internal/api"
	"github.com/swiftstay/admin/internal/auth"
	"github.com/swiftstay/admin/internal/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Swift Stay admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, sessionOf(cmd, env), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set SWIFTSTAY_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set SWIFTSTAY_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, sess *session.Session, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("SWIFTSTAY_EMAIL")
	}
	if password == "" {
		password = os.Getenv("SWIFTSTAY_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or SWIFTSTAY_EMAIL env var)")
	}

	if password == "" {
		var err error
		if password, err = env.ReadPassword("Password: "); err != nil {
			return err
		}
	}

	fmt.Fprintf(env.Err, "Logging in to %s...\n", env.Client.BaseURL())

	admin, err := env.Client.SignIn(ctx, sess, email, password)
	if err != nil {
		// The login endpoint answers bad credentials with 401
		if errors.Is(err, api.ErrSessionExpired) {
			return fmt.Errorf("login failed: invalid credentials")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if env.Output != OutputTable {
		return env.emit(admin, nil)
	}
	fmt.Fprintln(env.Out, "✓ Login successful!")
	fmt.Fprintf(env.Out, "  Admin: %s (%s)\n", admin.FullName, admin.Email)
	if admin.Role != "" {
		fmt.Fprintf(env.Out, "  Role: %s\n", admin.Role)
	}
	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessionOf(cmd, env).Logout(cmd.Context()); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}
			fmt.Fprintln(env.Out, "✓ Logged out")
			return nil
		},
	}
}

// identity is what whoami prints
type identity struct {
	Admin         *session.Admin `json:"admin"`
	TokenExpires  string         `json:"tokenExpires,omitempty"`
	TokenValidFor string         `json:"tokenValidFor,omitempty"`
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := sessionOf(cmd, env)
			admin, err := sess.RequireAdmin()
			if err != nil {
				return fmt.Errorf("%w. Run 'swiftstay-admin login'", err)
			}

			id := identity{Admin: admin}
			if claims, err := auth.Inspect(sess.AccessToken()); err == nil && claims.ExpiresAt != nil {
				id.TokenExpires = claims.ExpiresAt.Time.Format(time.RFC3339)
				id.TokenValidFor = claims.ExpiresIn(env.Now()).Round(time.Second).String()
			} else if err != nil {
				env.Logger.Debug().Err(err).Msg("Stored access token is not a readable JWT")
			}

			if env.Output != OutputTable {
				return env.emit(id, nil)
			}
			fmt.Fprintf(env.Out, "%s (%s)\n", admin.FullName, admin.Email)
			if admin.Role != "" {
				fmt.Fprintf(env.Out, "  Role: %s\n", admin.Role)
			}
			if id.TokenExpires != "" {
				fmt.Fprintf(env.Out, "  Token expires: %s (in %s)\n", id.TokenExpires, id.TokenValidFor)
			}
			return nil
		},
	}
}

// NewWatchCmd creates the watch command
func NewWatchCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow session changes made by other processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, env, sessionOf(cmd, env))
		},
	}
}

func runWatch(ctx context.Context, env *Env, sess *session.Session) error {
	if admin := sess.Admin(); admin != nil {
		fmt.Fprintf(env.Out, "Logged in as %s. Watching for changes...\n", admin.Email)
	} else {
		fmt.Fprintln(env.Out, "Not logged in. Watching for changes...")
	}

	sess.Subscribe(func(change session.Change) {
		if change.State.IsAuthenticated() {
			fmt.Fprintf(env.Out, "Logged in as %s (%s)\n", change.State.Admin.Email, change.Reason)
			return
		}
		fmt.Fprintf(env.Out, "Logged out (%s)\n", change.Reason)
	})

	return sess.Watch(ctx)
}

// sessionOf returns the session attached to the command context, falling back to env's
func sessionOf(cmd *cobra.Command, env *Env) *session.Session {
	if s, ok := session.FromContext(cmd.Context()); ok {
		return s
	}
	return env.Session
}
