package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/identity/domain"
)

type loginResponse struct {
	User        *domain.Identity `json:"user"`
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user"`
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = c.v.GetString("password")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or BLOODCTL_PASSWORD) are required")
			}
			ctx := cmd.Context()
			sess, err := c.session(ctx)
			if err != nil {
				return err
			}
			var res loginResponse
			api := newAPIClient(c.server(), "", c.http)
			body := map[string]string{"email": email, "password": password}
			if err := api.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &res); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if res.User == nil || res.AccessToken == "" {
				return errors.New("login: server issued no access token")
			}
			if err := sess.Save(ctx, res.User, res.AccessToken); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", describe(res.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.session(ctx)
			if err != nil {
				return err
			}
			if sess.AccessToken(ctx) != "" {
				if err := c.client(ctx, sess).do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil); err != nil {
					c.logger.Debug("server logout failed", zap.Error(err))
				}
			}
			if err := sess.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user as the server sees it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.session(ctx)
			if err != nil {
				return err
			}
			if sess.AccessToken(ctx) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			var res sessionResponse
			if err := c.client(ctx, sess).do(ctx, http.MethodGet, "/api/auth/session", nil, nil, &res); err != nil {
				return err
			}
			if !res.Authenticated || res.User == nil {
				// Token expired or the signing key changed.
				if err := sess.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session expired; run bloodctl login")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), describe(res.User))
			return nil
		},
	}
}

func describe(id *domain.Identity) string {
	s := id.Email
	if id.Name != "" {
		s = fmt.Sprintf("%s <%s>", id.Name, id.Email)
	}
	if id.IsAdmin {
		s += " (admin)"
	}
	return s
}
