// Package cli implements the command line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dtroode/roleauth/internal/client/api"
	"github.com/dtroode/roleauth/internal/client/guard"
	"github.com/dtroode/roleauth/internal/client/session"
	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/validate"
)

// API is the subset of the server API used by the CLI.
type API interface {
	Register(ctx context.Context, name, email, password, role string) (api.AuthPayload, error)
	Login(ctx context.Context, email, password string) (api.AuthPayload, error)
	Me(ctx context.Context) (*session.User, error)
	UpdateProfile(ctx context.Context, in api.ProfileInput) (session.User, error)
}

// App ties the API client, session store and route guard together.
type App struct {
	api         API
	store       *session.Store
	trigger     *Trigger
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	logger      *logger.Logger
}

// NewApp creates a new App.
func NewApp(client API, store *session.Store, in io.Reader, out io.Writer, logger *logger.Logger) *App {
	return &App{
		api:         client,
		store:       store,
		trigger:     NewTrigger(),
		in:          bufio.NewReader(in),
		out:         out,
		interactive: isInteractive(in),
		logger:      logger,
	}
}

// Register checks the input locally, creates an account and signs in with it.
func (a *App) Register(ctx context.Context, name, email, password, role string) error {
	for _, err := range []error{validate.Name(name), validate.Email(email), validate.Password(password)} {
		if err != nil {
			return err
		}
	}

	return a.trigger.Do("register", func() error {
		payload, err := a.api.Register(ctx, name, email, password, role)
		if err != nil {
			return err
		}
		if err := a.store.LoginSuccess(ctx, payload.Token, payload.User); err != nil {
			return err
		}
		a.logger.Debug("CLI: registered", "user_id", payload.User.ID)
		fmt.Fprintf(a.out, "Registered as %s (%s)\n", payload.User.Name, payload.User.Role)
		return nil
	})
}

// Login signs in.
func (a *App) Login(ctx context.Context, email, password string) error {
	return a.trigger.Do("login", func() error {
		payload, err := a.api.Login(ctx, email, password)
		if err != nil {
			return err
		}
		if err := a.store.LoginSuccess(ctx, payload.Token, payload.User); err != nil {
			return err
		}
		a.logger.Debug("CLI: logged in", "user_id", payload.User.ID)
		fmt.Fprintf(a.out, "Logged in as %s (%s)\n", payload.User.Name, payload.User.Role)
		return nil
	})
}

// Logout forgets the local session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI asks the server who the current token belongs to. A token the
// server no longer accepts is dropped locally.
func (a *App) WhoAmI(ctx context.Context) error {
	state := a.store.Snapshot()
	if !state.Authenticated {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	me, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	if me == nil {
		a.logger.Info("CLI: stored token rejected, clearing session")
		if err := a.store.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Session expired, please log in again")
		return nil
	}

	if err := a.store.UpdateProfileSuccess(ctx, *me); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s id=%s\n", me.Name, me.Email, me.Role, me.ID)
	return nil
}

// UpdateProfile changes profile fields and merges the result locally.
func (a *App) UpdateProfile(ctx context.Context, in api.ProfileInput) error {
	if !a.store.Snapshot().Authenticated {
		return errors.New("not logged in")
	}
	if err := validateProfile(in); err != nil {
		return err
	}

	return a.trigger.Do("update_profile", func() error {
		user, err := a.api.UpdateProfile(ctx, in)
		if err != nil {
			return err
		}
		if err := a.store.UpdateProfileSuccess(ctx, user); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile updated")
		return nil
	})
}

// validateProfile applies the register field rules to the supplied fields.
func validateProfile(in api.ProfileInput) error {
	if in.Name != nil {
		if err := validate.Name(*in.Name); err != nil {
			return err
		}
	}
	if in.Email != nil {
		if err := validate.Email(*in.Email); err != nil {
			return err
		}
	}
	if in.Password != nil {
		return validate.Password(*in.Password)
	}
	return nil
}

// Navigate prints what the guard allows for path.
func (a *App) Navigate(path string) {
	decision := guard.Evaluate(a.store.Snapshot(), path)
	if decision.Redirect != "" {
		fmt.Fprintf(a.out, "Redirect -> %s\n", decision.Redirect)
		return
	}
	if len(decision.Menu) == 0 {
		fmt.Fprintf(a.out, "Public page %s\n", path)
		return
	}

	for _, item := range decision.Menu {
		fmt.Fprintf(a.out, "  [%s] %s\n", item.Name, item.Path)
	}
	fmt.Fprintf(a.out, "%s\n%s\n", decision.Landing.Title, decision.Landing.Body)
}
