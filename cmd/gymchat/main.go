// Command gymchat is an interactive terminal client for the gym assistant.
// It uses the same stores and completion tiers as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/api"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/buildconfig"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/config"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/logging"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/seed"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/service"
	"github.com/peterh/liner"
)

const (
	cmdHelp  = "/help"
	cmdTeach = "/teach"
	cmdClear = "/clear"
	cmdQuit  = "/quit"

	sessionID = "terminal"
)

const helpText = `
/teach <pattern> => <answer>   teach a fixed answer
/teach <pattern> => #<intent>  route a pattern to a built-in intent
/clear                          forget this conversation
/quit                           exit
`

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	// Logs go to a file so they do not interleave with the prompt.
	logFile := config.LogFile()
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), "gymchat.log")
	}
	logger, err := logging.New(logging.Options{Level: config.LogLevel(), File: logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stores, err := api.OpenStores(ctx, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open stores:", err)
		os.Exit(1)
	}
	defer stores.Close()

	app := api.NewApp(stores, logger)
	if path := config.SeedFile(); path != "" {
		if _, err := seed.LoadFile(ctx, path, app.Knowledge, logger); err != nil {
			fmt.Fprintln(os.Stderr, "seed import:", err)
		}
	}

	fmt.Printf("gymchat %s (%s), type %s for commands\n", buildconfig.Version(), stores.Driver, cmdHelp)
	run(ctx, app.Assistant, app.Knowledge)
}

func run(ctx context.Context, assistant *service.Assistant, knowledge *service.KnowledgeService) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) (c []string) {
		for _, cmd := range []string{cmdHelp, cmdTeach, cmdClear, cmdQuit} {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return
	})

	historyFile := filepath.Join(os.TempDir(), ".gymchat_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return
			}
			fmt.Println("read input:", err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == cmdQuit:
			return
		case input == cmdHelp:
			fmt.Print(helpText)
		case input == cmdClear:
			assistant.Dismiss(sessionID)
			fmt.Println("conversation cleared")
		case strings.HasPrefix(input, cmdTeach):
			req, err := parseTeach(strings.TrimPrefix(input, cmdTeach))
			if err != nil {
				fmt.Println(err)
				continue
			}
			rec, err := knowledge.Teach(ctx, req)
			if err != nil {
				fmt.Println("teach:", err)
				continue
			}
			fmt.Println("learned", rec.ID)
		default:
			res, err := assistant.Ask(ctx, service.AskRequest{SessionID: sessionID, Message: input})
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(res.Reply)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

var errTeachSyntax = errors.New("usage: /teach <pattern> => <answer or #intent>")

// parseTeach reads "<pattern> => <answer>". An answer starting with # names
// an intent instead.
func parseTeach(s string) (domain.TeachRequest, error) {
	pattern, rhs, ok := strings.Cut(s, "=>")
	if !ok {
		return domain.TeachRequest{}, errTeachSyntax
	}
	pattern, rhs = strings.TrimSpace(pattern), strings.TrimSpace(rhs)
	if pattern == "" || rhs == "" {
		return domain.TeachRequest{}, errTeachSyntax
	}
	if key, isIntent := strings.CutPrefix(rhs, "#"); isIntent {
		return domain.TeachRequest{Pattern: pattern, Intent: strings.TrimSpace(key)}, nil
	}
	return domain.TeachRequest{Pattern: pattern, Answer: rhs}, nil
}
