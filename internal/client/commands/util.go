package commands

import (
	"fmt"
	"strings"
	"time"

	"dragchess/internal/client/display"
	"dragchess/internal/client/session"
)

func (r *Registry) registerUtilCommands() {
	for _, cmd := range []*Command{
		{Name: "health", ShortName: ".", Description: "Check server health", Usage: "health", Handler: healthHandler},
		{Name: "url", ShortName: "/", Description: "Show or set API base URL", Usage: "url [apiUrl]", Handler: urlHandler},
		{Name: "raw", ShortName: ":", Description: "Send raw API request", Usage: "raw <method> <path> [json-body]", Handler: rawRequestHandler},
	} {
		cmd.Group = groupUtil
		r.Register(cmd)
	}
}

func healthHandler(s *session.Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	fmt.Fprintln(s.Out, display.Paint(display.Cyan, "Server Health:"))
	fmt.Fprintf(s.Out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(s.Out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s.Out, "  Games:   %d\n", resp.Games)
	fmt.Fprintf(s.Out, "  Storage: %s\n", resp.Storage)
	return nil
}

func urlHandler(s *session.Session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.Out, "API: %s\n", s.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	s.SetBaseURL(url)
	fmt.Fprintf(s.Out, "%sAPI set to %s%s\n", display.Green, s.APIBaseURL, display.Reset)
	return nil
}

func rawRequestHandler(s *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}
	return s.Client.RawRequest(strings.ToUpper(args[0]), args[1], strings.Join(args[2:], " "))
}
