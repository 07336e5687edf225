package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	Follow(ctx context.Context, target string) error
	Unfollow(ctx context.Context, target string) error
	List(ctx context.Context) error
	Timeline(ctx context.Context, scanner *bufio.Scanner) error
}

// runREPL reads commands from scanner until EXIT, end of input or TIMELINE.
// Commands are case-insensitive:
//
//	FOLLOW <user>    start receiving posts from user
//	UNFOLLOW <user>  stop receiving posts from user
//	LIST             show all users and the ones you follow
//	TIMELINE         stream posts; there is no way back to command mode
//	HELP
//	EXIT | QUIT
//
// Handler errors are reported by the handlers themselves. Only the error
// that ends TIMELINE mode is returned.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) error {
	for {
		if p := promptFn(); p != "" {
			printlnFn(p)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToUpper(parts[0]), parts[1:]

		switch cmd {
		case "HELP":
			printlnFn("Available commands: FOLLOW <user>, UNFOLLOW <user>, LIST, TIMELINE, EXIT")

		case "FOLLOW":
			if len(args) != 1 {
				printlnFn("Usage: FOLLOW <user>")
				continue
			}
			_ = a.Follow(ctx, args[0])

		case "UNFOLLOW":
			if len(args) != 1 {
				printlnFn("Usage: UNFOLLOW <user>")
				continue
			}
			_ = a.Unfollow(ctx, args[0])

		case "LIST":
			_ = a.List(ctx)

		case "TIMELINE":
			return a.Timeline(ctx, scanner)

		case "EXIT", "QUIT":
			printlnFn("Bye!")
			return nil

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}
