package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/jfields/gmail-summarizer/config"
	"github.com/jfields/gmail-summarizer/display"
	"github.com/jfields/gmail-summarizer/gmail"
	"github.com/jfields/gmail-summarizer/summarizer"
)

var (
	maxFlag   = flag.Int("max", 0, "Maximum number of emails to fetch (overrides MAX_EMAILS)")
	queryFlag = flag.String("query", "", "Gmail search query (overrides EMAIL_QUERY)")
)

func main() {
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupted
		cancel()
	}()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if *maxFlag > 0 {
		cfg.MaxEmails = *maxFlag
	}
	if *queryFlag != "" {
		cfg.Query = *queryFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := display.NewRenderer(os.Stdout)
	out.Banner("Gmail Summarizer")

	out.Notice("Connecting to Gmail...")
	sessions := gmail.NewSessionManager(cfg.TokenFile, cfg.CredentialsFile)
	session, err := sessions.ObtainSession(ctx)
	if err != nil {
		return err
	}

	client, err := gmail.NewClient(ctx, session)
	if err != nil {
		return err
	}

	out.Notice(fmt.Sprintf("Fetching last %d emails...", cfg.MaxEmails))
	messages := client.FetchRecent(ctx, int64(cfg.MaxEmails), cfg.Query)
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(messages) == 0 {
		out.Notice("No emails found.")
		return nil
	}

	out.Notice(fmt.Sprintf("Found %d emails. Generating summaries...", len(messages)))
	sums := summarizer.New(cfg.APIKey, cfg.Model)
	summaries := sums.BatchSummarize(ctx, messages, cfg.SummaryWords)
	if err := ctx.Err(); err != nil {
		return err
	}

	out.Summaries(messages, summaries)
	out.Notice("\nSummarization complete.")
	return nil
}
