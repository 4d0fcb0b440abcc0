package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/router-for-me/ModelMarket/internal/app"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long:  `Sign in with email and password. The password is read from stdin when --password is omitted.`,
		RunE:  runLogin,
	}
	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE:  runSignup,
	}
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("mobile", "", "Mobile number")
	cmd.Flags().String("password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(s *app.Services) error {
				if err := s.Client.Logout(cmd.Context()); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"redirect": "/login"})
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(s *app.Services) error {
				ctx := cmd.Context()
				active := s.Session.IsActive(ctx)
				out := map[string]any{"active": active, "user": nil, "claims": nil}
				if active {
					out["user"] = s.Session.CurrentUser(ctx)
					if claims, err := s.Session.Claims(ctx); err == nil {
						out["claims"] = claims
					} else if !errors.Is(err, session.ErrNoToken) {
						out["claims_error"] = err.Error()
					}
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

// readPassword returns the --password flag or the first stdin line.
func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	return withServices(cmd, func(s *app.Services) error {
		env, errLogin := s.Client.Login(cmd.Context(), market.LoginRequest{Email: strings.TrimSpace(email), Password: password})
		if errLogin != nil {
			return errLogin
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"message": env.Message,
			"user":    env.Data.User,
		})
	})
}

func runSignup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	req := market.SignupRequest{}
	req.FirstName, _ = flags.GetString("first-name")
	req.LastName, _ = flags.GetString("last-name")
	req.Email, _ = flags.GetString("email")
	req.MobileNumber, _ = flags.GetString("mobile")
	req.Email = strings.TrimSpace(req.Email)

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	req.Password = password

	return withServices(cmd, func(s *app.Services) error {
		env, errSignup := s.Client.Signup(cmd.Context(), req)
		if errSignup != nil {
			return errSignup
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"message":   env.Message,
			"user":      env.Data.User,
			"signed_in": env.Data.Token != "",
		})
	})
}
