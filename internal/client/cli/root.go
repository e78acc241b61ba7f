package cli

import (
	"github.com/dtroode/roleauth/internal/client/api"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the client.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roleauth",
		Short:         "roleauth - client for the role based auth API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoAmICmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newNavCmd(app))

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := app.promptPassword()
			if err != nil {
				return err
			}
			return app.Register(cmd.Context(), name, email, password, role)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&role, "role", "user", "role (user or admin)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := app.promptPassword()
			if err != nil {
				return err
			}
			return app.Login(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Logout(cmd.Context())
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.WhoAmI(cmd.Context())
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	var (
		name, email, role string
		changePassword    bool
	)

	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in api.ProfileInput
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("email") {
				in.Email = &email
			}
			if flags.Changed("role") {
				in.Role = &role
			}
			if changePassword {
				password, err := app.promptPassword()
				if err != nil {
					return err
				}
				in.Password = &password
			}
			return app.UpdateProfile(cmd.Context(), in)
		},
	}

	update.Flags().StringVar(&name, "name", "", "new display name")
	update.Flags().StringVar(&email, "email", "", "new email address")
	update.Flags().StringVar(&role, "role", "", "new role (admins only)")
	update.Flags().BoolVar(&changePassword, "password", false, "prompt for a new password")

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	cmd.AddCommand(update)

	return cmd
}

func newNavCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Show the menu and content for a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app.Navigate(args[0])
			return nil
		},
	}
}
