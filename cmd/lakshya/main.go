package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"lakshya/internal/shared/i18n"
	"lakshya/internal/shared/telemetry"
)

const usage = `Lakshya - personal finance assistant

Usage:
  lakshya <command> [options]

Commands:
  register            Create an account (or log into an existing one)
  chat                Talk to the assistant; spending you mention is recorded
  transactions        List your transactions
  delete-transaction  Delete a transaction by id
  milestones          List your savings milestones
  add-milestone       Create a savings milestone
  whoami              Show the current account
  logout              Forget the stored session

Examples:
  lakshya register --phone=+919876543210 --name="Asha"
  lakshya chat
  lakshya transactions
  lakshya add-milestone --goal=10000 --saved=2500 --duration="2 months"
`

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	if command == "help" || command == "-h" || command == "--help" {
		fmt.Printf("%s\n", usage)
		return nil
	}

	deps, err := NewDependencies()
	if err != nil {
		return err
	}
	defer deps.Close()

	// Ctrl-C cancels whatever request is in flight instead of orphaning it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if deps.Config.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  deps.Config.Telemetry.ServiceName,
			OTLPEndpoint: deps.Config.Telemetry.OTLPEndpoint,
		}, deps.Log)
		if err != nil {
			deps.Log.WithError(err).Warn("telemetry init failed")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					deps.Log.WithError(err).Warn("telemetry shutdown failed")
				}
			}()
		}
	}

	switch command {
	case "register":
		return runRegister(ctx, deps, args)
	case "chat":
		return runChat(ctx, deps)
	case "transactions":
		return runTransactions(ctx, deps)
	case "delete-transaction":
		return runDeleteTransaction(ctx, deps, args)
	case "milestones":
		return runMilestones(ctx, deps)
	case "add-milestone":
		return runAddMilestone(ctx, deps, args)
	case "whoami":
		return runWhoami(ctx, deps)
	case "logout":
		return runLogout(ctx, deps)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Printf("%s\n", usage)
		return fmt.Errorf("unknown command")
	}
}

// readPassword reads a password without echo when stdin is a terminal, and
// as a plain line otherwise (pipes, tests).
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		fmt.Println()
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loadFailed(deps *Dependencies) string {
	return deps.Bundle.T(deps.Config.Language, i18n.KeyLoadFailed)
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(os.Stderr)
	return fs.Parse(args)
}
