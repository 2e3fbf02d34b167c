package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/credentials"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/db"
)

var errInvalidLogin = errors.New("invalid username or password")

type userFlags struct {
	username string
	password string
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage login accounts",
	}

	cmd.AddCommand(newUsersAddCmd(a))
	cmd.AddCommand(newUsersCheckCmd(a))

	return cmd
}

func newUsersAddCmd(a *app) *cobra.Command {
	var f userFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withUsers(cmd, func(users *credentials.Store) error {
				ok, err := users.AddUser(cmd.Context(), f.username, f.password)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("username %q already exists", f.username)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", f.username)
				return nil
			})
		},
	}
	userFlagSet(cmd, &f)

	return cmd
}

func newUsersCheckCmd(a *app) *cobra.Command {
	var f userFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify a username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withUsers(cmd, func(users *credentials.Store) error {
				user, err := users.LoginUser(cmd.Context(), f.username, f.password)
				if err != nil {
					return err
				}
				if user == nil {
					return errInvalidLogin
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Credentials valid for %s (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	userFlagSet(cmd, &f)

	return cmd
}

func userFlagSet(cmd *cobra.Command, f *userFlags) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
}

// withUsers opens the configured credential table for the duration of fn.
func (a *app) withUsers(cmd *cobra.Command, fn func(*credentials.Store) error) error {
	hasher, err := credentials.NewHasher(a.cfg.Auth.PasswordHash)
	if err != nil {
		return err
	}

	database, err := db.NewDB(cmd.Context(), a.cfg.Database, a.lggr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(database); cerr != nil {
			a.lggr.Errorw("Error closing database", "err", cerr)
		}
	}()

	return fn(credentials.NewStore(database, hasher, a.lggr))
}
