package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/countledger/countledger/client"
)

// cliLogger logs shipper activity to stderr so stdout stays parseable.
func cliLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	return log
}

// readPassword prompts on stderr and reads one line from stdin, so
// stdout stays parseable when piping output.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRegisterCmd() *cobra.Command {
	var req client.RegistrationRequest

	cmd := &cobra.Command{
		Use:   "register",
		Args:  cobra.NoArgs,
		Short: "Register a new tenant and admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := readPassword("Password: ")
				if err != nil {
					return err
				}
				confirm, err := readPassword("Confirm password: ")
				if err != nil {
					return err
				}
				req.Password, req.PasswordConfirm = pw, confirm
			} else if req.PasswordConfirm == "" {
				req.PasswordConfirm = req.Password
			}

			flow := client.NewRegisterFlow(apiClient, client.NewShipper(apiClient, cliLogger()))
			profile, err := flow.Register(context.Background(), &req)
			if err != nil {
				return err
			}
			output(profile, profile.TenantID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CompanyName, "company", "", "Company name")
	cmd.Flags().StringVar(&req.ContactName, "name", "", "Contact name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&req.Plan, "plan", "", "Subscription plan (default: trial)")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := readPassword("Password: ")
				if err != nil {
					return err
				}
				password = pw
			}

			user, err := client.NewLoginFlow(apiClient).Login(context.Background(), args[0], password)
			if err != nil {
				return err
			}
			output(user, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Args:  cobra.NoArgs,
		Short: "Revoke the session and clear local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Best effort server-side; the local session is cleared
			// regardless so a dead server cannot pin a stale login.
			if err := apiClient.Auth.SignOut(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: server sign-out failed: %v\n", err)
			}
			if err := apiClient.Sessions().Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Args:  cobra.NoArgs,
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := apiClient.Sessions().Load()
			if err != nil {
				return err
			}
			if sess == nil || sess.User == nil {
				return fmt.Errorf("not logged in")
			}
			output(sess.User, sess.User.Email)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Args:  cobra.NoArgs,
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			output(resp, resp.Status)
		},
	}
}
