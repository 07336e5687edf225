// Package cli implements the interactive tsn client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/tsn/internal/client/client"
	"github.com/dmitrijs2005/tsn/internal/client/config"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// timeline is an open timeline session.
type timeline interface {
	Send(text string) error
	Recv() (client.Post, error)
	CloseSend() error
}

// backend is the server API the client needs.
type backend interface {
	Register(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, username string) ([]string, []string, error)
	Follow(ctx context.Context, username, target string) error
	Unfollow(ctx context.Context, username, target string) error
	Timeline(ctx context.Context, username string) (timeline, error)
	Ping(ctx context.Context) error
	Close() error
}

type grpcBackend struct {
	*client.GRPCClient
}

func (b grpcBackend) Timeline(ctx context.Context, username string) (timeline, error) {
	return b.GRPCClient.Timeline(ctx, username)
}

type App struct {
	config *config.Config
	api    backend
	in     io.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewTSNClient(c.Endpoint())
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: grpcBackend{apiClient}, in: os.Stdin}, nil
}

// Run checks the server is reachable, registers the configured user and
// hands control to the REPL.
func (a *App) Run(ctx context.Context) error {
	defer a.api.Close()

	rctx, cancel := a.requestContext(ctx)
	defer cancel()
	if err := a.api.Ping(rctx); err != nil {
		return fmt.Errorf("server %s: %w", a.config.Endpoint(), err)
	}
	reactivated, err := a.api.Register(rctx, a.config.Username)
	if err != nil {
		return fmt.Errorf("register %s: %w", a.config.Username, err)
	}
	if reactivated {
		printlnFn("Welcome back,", a.config.Username)
	} else {
		printlnFn("Registered as", a.config.Username)
	}

	interactive := false
	if f, ok := a.in.(*os.File); ok {
		interactive = isTerminal(int(f.Fd()))
	}
	prompt := func() string {
		if !interactive {
			return ""
		}
		return fmt.Sprintf("tsn %s > ", a.config.Username)
	}

	return runREPL(ctx, a, prompt, bufio.NewScanner(a.in))
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) Follow(ctx context.Context, target string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.Follow(ctx, a.config.Username, target); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Now following", target)
	return nil
}

func (a *App) Unfollow(ctx context.Context, target string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.Unfollow(ctx, a.config.Username, target); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("No longer following", target)
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	all, following, err := a.api.List(ctx, a.config.Username)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("All users:")
	for _, u := range all {
		printlnFn("  " + u)
	}
	printlnFn("Following:")
	for _, u := range following {
		printlnFn("  " + u)
	}
	return nil
}

// Timeline switches to streaming mode: every non-empty input line is posted
// and posts from followed users are printed as they arrive. It returns when
// the server ends the stream; end of input closes our side first.
func (a *App) Timeline(ctx context.Context, scanner *bufio.Scanner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tl, err := a.api.Timeline(ctx, a.config.Username)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Timeline mode. Type a post and press Enter, end input to leave.")

	go func() {
		defer tl.CloseSend()
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if err := tl.Send(text); err != nil {
				return
			}
		}
	}()

	for {
		p, err := tl.Recv()
		if errors.Is(err, io.EOF) {
			printlnFn("Timeline closed")
			return nil
		}
		if err != nil {
			printlnFn("Error:", err)
			return err
		}
		printlnFn(formatPost(p))
	}
}

func formatPost(p client.Post) string {
	return fmt.Sprintf("[%s] %s: %s", p.Time.Format(time.DateTime), p.Sender, p.Text)
}
