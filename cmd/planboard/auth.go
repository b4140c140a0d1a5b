package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/logger"
	"github.com/harunnryd/planboard/internal/render"
	"github.com/harunnryd/planboard/internal/session"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

const loginFailedMessage = "Login failed, check your credentials."

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the scheduling service",
	Long:  `Exchange an email and password for a session. The password may also come from PLANBOARD_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("PLANBOARD_PASSWORD")
		}
		if strings.TrimSpace(email) == "" || password == "" {
			return fmt.Errorf("both --email and --password (or PLANBOARD_PASSWORD) are required")
		}

		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			return runLogin(c, cmd, email, password)
		})
	},
}

func runLogin(c *runtime.Components, cmd *cobra.Command, email, password string) error {
	out := cmd.OutOrStdout()
	ctx := logger.WithTraceID(c.Ctx, ulid.Make().String())

	sess, err := c.Client.Authenticate(ctx, email, password)
	if err != nil {
		fmt.Fprintln(out, render.Failure(loginFailedMessage))
		return fmt.Errorf("login: %w", err)
	}

	if err := c.Session.Login(sess); err != nil {
		logger.From(ctx).Warn("Session not persisted", "error", err)
		fmt.Fprintln(out, render.Muted("Signed in for this run only: the session could not be saved."))
	}
	fmt.Fprintln(out, render.Success(fmt.Sprintf("Signed in as %s (%s)", displayName(sess), sess.Role)))
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			if err := c.Session.Logout(); err != nil {
				return fmt.Errorf("failed to clear stored session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			return runWhoami(c, cmd)
		})
	},
}

func runWhoami(c *runtime.Components, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	snap := c.Session.Snapshot()
	if !snap.LoggedIn() {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(out, "Name: %s\n", displayName(snap.Session))
	fmt.Fprintf(out, "Role: %s\n", snap.Role)

	// Display only.
	claims, err := session.InspectCredential(snap.Credential)
	if err != nil {
		logger.From(c.Ctx).Debug("Credential is not a readable token", "error", err)
		return nil
	}
	if claims.Subject != "" {
		fmt.Fprintf(out, "Subject: %s\n", claims.Subject)
	}
	if !claims.ExpiresAt.IsZero() {
		line := fmt.Sprintf("Expires: %s", claims.ExpiresAt.Local().Format(time.RFC1123))
		if claims.Expired(time.Now()) {
			line = render.Failure(line + " (expired, run 'planboard login')")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func displayName(s session.Session) string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return "unnamed user"
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
