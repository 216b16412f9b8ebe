package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
	"github.com/spf13/cobra"
)

// cliNavigator is the CLI's stand-in for the console's route
// navigation. The transport reports 401/403 classifications to it; it
// records the return path and prints a hint at most once, so repeated
// rejections never loop or double-print.
type cliNavigator struct {
	out io.Writer

	mu         sync.Mutex
	location   string
	returnPath string
	hinted     bool
	forbidden  bool
}

var _ ports.Navigator = (*cliNavigator)(nil)

func newCLINavigator(out io.Writer) *cliNavigator {
	return &cliNavigator{out: out}
}

func (n *cliNavigator) SetLocation(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = location
}

func (n *cliNavigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

func (n *cliNavigator) ToLogin(returnPath string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.returnPath = returnPath
	if n.hinted {
		return
	}
	n.hinted = true

	retry := ""
	if returnPath != "" {
		retry = fmt.Sprintf(", then retry `hvxctl %s`", returnPath)
	}
	_, _ = fmt.Fprintf(n.out, "Session expired: run `hvxctl login`%s\n", retry)
}

func (n *cliNavigator) ToForbidden() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.forbidden {
		return
	}
	n.forbidden = true
	_, _ = fmt.Fprintln(n.out, "Access denied: this command requires an admin role")
}

// requireSession is the guard protected command groups run before their
// subcommands: bootstrap the session, require a token, make sure the
// profile is loaded, then gate on roles.
func (a *app) requireSession(roles ...string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		applyVerbosity(cmd)

		ctx := cmd.Context()
		a.nav.SetLocation(commandLocation(cmd))

		if err := a.session.Init(ctx); err != nil {
			return fmt.Errorf("session init: %w", err)
		}

		if a.session.Token() == "" {
			a.nav.ToLogin(a.nav.Location())
			return fmt.Errorf("not authenticated: run `hvxctl login` first: %w", domain.ErrUnauthorized)
		}

		a.session.FetchMeIfNeeded(ctx)

		if len(roles) > 0 && !a.session.User().HasAny(roles...) {
			a.nav.ToForbidden()
			return fmt.Errorf("requires role %s: %w", strings.Join(roles, " or "), domain.ErrForbidden)
		}

		return nil
	}
}

// commandLocation is the command path without the binary name, used as
// the return path after a forced re-login.
func commandLocation(cmd *cobra.Command) string {
	path := cmd.CommandPath()
	if i := strings.IndexByte(path, ' '); i >= 0 {
		return path[i+1:]
	}
	return path
}
