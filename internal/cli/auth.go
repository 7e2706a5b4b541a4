package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	identity "tasquest/internal/identity/models"
)

func signUpCmd(a *app) *cobra.Command {
	var email, pw string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := password(cmd, pw)
			if err != nil {
				return err
			}
			if err := a.session.CreateAccount(cmd.Context(), email, secret); err != nil {
				return err
			}
			printGreeting(cmd.OutOrStdout(), a.session.Identity(), a.session.AppData().Username)
			return a.session.Save(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&pw, "password", "", "account password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func signInCmd(a *app) *cobra.Command {
	var email, pw string
	var create bool
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := password(cmd, pw)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if create {
				err = a.session.SignInOrCreate(ctx, email, secret)
			} else {
				err = a.session.SignIn(ctx, email, secret)
			}
			if err != nil {
				return err
			}
			data := a.session.AppData()
			printGreeting(cmd.OutOrStdout(), a.session.Identity(), data.Username)
			if data.Version == 0 {
				return a.session.Save(ctx)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&pw, "password", "", "account password")
	cmd.Flags().BoolVar(&create, "create", false, "create the account when the credentials are not recognised")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func signOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the session on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func whoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			who, err := a.client.Auth().AuthenticatedIdentity(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if who == nil {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\n", who.ID, who.Email)
			if who.AvatarRef != nil {
				fmt.Fprintf(out, "avatar\t%s\n", *who.AvatarRef)
			}
			return nil
		},
	}
}

func avatarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Manage the profile avatar reference",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <ref>",
			Short: "Set the avatar reference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ref := args[0]
				who, err := a.client.Auth().UpdateAvatar(cmd.Context(), &ref)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "avatar\t%s\n", *who.AvatarRef)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the avatar reference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := a.client.Auth().UpdateAvatar(cmd.Context(), nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Avatar cleared.")
				return nil
			},
		},
	)
	return cmd
}

func printGreeting(w io.Writer, who *identity.AccountIdentity, username string) {
	fmt.Fprintf(w, "Hello, %s! Signed in as %s.\n", username, who.Email)
}
