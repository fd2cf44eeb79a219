package commands

import (
	"fmt"

	"dragchess/internal/client/display"
	"dragchess/internal/client/session"
)

func (r *Registry) registerAuthCommands() {
	for _, cmd := range []*Command{
		{Name: "register", ShortName: "r", Description: "Register a new user", Usage: "register <username> [email]", Handler: registerHandler},
		{Name: "login", ShortName: "l", Description: "Login with credentials", Usage: "login <username|email>", Handler: loginHandler},
		{Name: "logout", ShortName: "o", Description: "End the login", Usage: "logout", Handler: logoutHandler},
		{Name: "whoami", ShortName: "i", Description: "Show current user", Usage: "whoami", Handler: whoamiHandler},
	} {
		cmd.Group = groupAuth
		r.Register(cmd)
	}
}

func registerHandler(s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: register <username> [email]")
	}
	email := ""
	if len(args) > 1 {
		email = args[1]
	}

	password, err := s.ReadPassword(display.Paint(display.Yellow, "Password: "))
	if err != nil {
		return err
	}

	resp, err := s.Client.Register(args[0], password, email)
	if err != nil {
		return err
	}
	s.SetAuth(resp)

	fmt.Fprintf(s.Out, "%sRegistered as %s%s\n", display.Green, resp.Username, display.Reset)
	return nil
}

func loginHandler(s *session.Session, args []string) error {
	identifier := ""
	if len(args) > 0 {
		identifier = args[0]
	} else {
		var err error
		if identifier, err = s.Prompt(display.Paint(display.Yellow, "Username or Email: ")); err != nil {
			return err
		}
	}

	password, err := s.ReadPassword(display.Paint(display.Yellow, "Password: "))
	if err != nil {
		return err
	}

	resp, err := s.Client.Login(identifier, password)
	if err != nil {
		return err
	}
	s.SetAuth(resp)

	fmt.Fprintf(s.Out, "%sLogged in as %s%s\n", display.Green, resp.Username, display.Reset)
	return nil
}

func logoutHandler(s *session.Session, args []string) error {
	if s.AuthToken == "" {
		return fmt.Errorf("not logged in")
	}

	// Forget the token even if the server call fails
	err := s.Client.Logout()
	s.ClearAuth()
	if err != nil {
		return err
	}

	fmt.Fprintln(s.Out, display.Paint(display.Green, "Logged out"))
	return nil
}

func whoamiHandler(s *session.Session, args []string) error {
	if s.AuthToken == "" {
		fmt.Fprintln(s.Out, display.Paint(display.Yellow, "Not authenticated"))
		return nil
	}

	user, err := s.Client.GetCurrentUser()
	if err != nil {
		return err
	}

	fmt.Fprintln(s.Out, display.Paint(display.Cyan, "Current User:"))
	fmt.Fprintf(s.Out, "  User ID:  %s\n", user.UserID)
	fmt.Fprintf(s.Out, "  Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Fprintf(s.Out, "  Email:    %s\n", user.Email)
	}
	fmt.Fprintf(s.Out, "  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
