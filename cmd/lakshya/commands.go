package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"lakshya/internal/domain/milestone"
	"lakshya/internal/domain/user"
)

func runRegister(ctx context.Context, deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	phone := fs.String("phone", "", "Phone number (account identifier)")
	name := fs.String("name", "", "Display name")
	password := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *phone == "" {
		return fmt.Errorf("missing required flag: --phone")
	}

	pw := *password
	if pw == "" {
		fmt.Print("Password: ")
		var err error
		pw, err = readPassword()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	if strings.TrimSpace(pw) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	result, err := deps.Users.Register(ctx, user.RegisterParams{
		Phone:    *phone,
		Name:     *name,
		Password: pw,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	return nil
}

func runChat(ctx context.Context, deps *Dependencies) error {
	session, err := deps.NewChat()
	if err != nil {
		return err
	}

	for _, msg := range session.Conversation().Messages() {
		fmt.Printf("assistant> %s\n", msg.Text)
	}
	fmt.Println(`(type "exit" to leave)`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}

		reply, ok := session.HandleTurn(ctx, line)
		if !ok {
			continue
		}
		fmt.Printf("assistant> %s\n", reply.Text)

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func runTransactions(ctx context.Context, deps *Dependencies) error {
	list, err := deps.Transactions.List(ctx)
	if err != nil {
		deps.Log.WithError(err).Error("failed to list transactions")
		fmt.Println(loadFailed(deps))
		return err
	}

	if len(list) == 0 {
		fmt.Println("No transactions yet.")
		return nil
	}

	for _, tx := range list {
		kind := "income"
		if tx.IsExpense() {
			kind = "expense"
		}
		fmt.Printf("%s  %10.2f  %-8s  %-15s  %-15s  %s\n",
			tx.ID, tx.Amount, kind, tx.SpentCategory, tx.MethodOfPayment, tx.Receiver)
	}
	return nil
}

func runDeleteTransaction(ctx context.Context, deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("delete-transaction", flag.ContinueOnError)
	id := fs.String("id", "", "Transaction id to delete")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("missing required flag: --id")
	}

	result, err := deps.Transactions.Delete(ctx, *id)
	if err != nil {
		return err
	}
	if result.Message != "" {
		fmt.Println(result.Message)
	} else {
		fmt.Println("Deleted.")
	}
	return nil
}

func runMilestones(ctx context.Context, deps *Dependencies) error {
	list, err := deps.Milestones.List(ctx)
	if err != nil {
		deps.Log.WithError(err).Error("failed to list milestones")
		fmt.Println(loadFailed(deps))
		return err
	}

	if len(list) == 0 {
		fmt.Println("No milestones yet.")
		return nil
	}

	for _, m := range list {
		fmt.Printf("%s  %.2f / %.2f  (%3.0f%%)  %s\n",
			m.ID, m.SavedAmount, m.GoalAmount, m.Progress()*100, m.Duration)
	}
	return nil
}

func runAddMilestone(ctx context.Context, deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("add-milestone", flag.ContinueOnError)
	saved := fs.Float64("saved", 0, "Amount saved so far")
	goal := fs.Float64("goal", 0, "Goal amount")
	duration := fs.String("duration", "", "Duration label, e.g. \"2 months\"")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	created, err := deps.Milestones.Create(ctx, milestone.CreateParams{
		SavedAmount: *saved,
		GoalAmount:  *goal,
		Duration:    *duration,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Milestone created: %s\n", created.ID)
	return nil
}

func runWhoami(ctx context.Context, deps *Dependencies) error {
	if !deps.Session.IsAuthenticated(ctx) {
		fmt.Println("Not logged in.")
		return nil
	}

	profile, err := deps.Users.Me(ctx)
	if err != nil {
		// Fall back to the locally cached profile fields.
		cached := deps.Session.Profile(ctx)
		if cached.Name != "" || cached.PhoneNumber != "" {
			fmt.Printf("%s (%s) [cached]\n", cached.Name, cached.PhoneNumber)
			return nil
		}
		return err
	}

	fmt.Printf("%s (%s)\n", profile.Name, profile.PhoneNumber)
	return nil
}

func runLogout(ctx context.Context, deps *Dependencies) error {
	if err := deps.Session.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
