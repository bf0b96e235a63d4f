// Command tripmate is a terminal chat client for the Trip Mate
// assistant. It streams replies as they arrive, pulls structured
// itineraries out of them, and can save the current plan to an
// account.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/domain/chat"
	"github.com/tripmate/tripmate/internal/app/domain/itinerary"
	"github.com/tripmate/tripmate/internal/app/domain/transcript"
	"github.com/tripmate/tripmate/internal/app/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tripmate:", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zap.NewNop()
	if os.Getenv("TRIPMATE_DEBUG") != "" {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	baseURL := os.Getenv("TRIPMATE_SERVER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	app := newApp(baseURL, logger)
	return app.repl()
}

type app struct {
	client      *chat.Client
	transcript  *transcript.Store
	extractor   *itinerary.Extractor
	itineraries *itinerary.Store
	consumer    *chat.Consumer
	renderer    itinerary.Renderer
	token       string

	// printed holds the part of the in-flight assistant turn already
	// written to the terminal.
	printed   string
	turnCount int
}

func newApp(baseURL string, logger *zap.Logger) *app {
	a := &app{
		client:      chat.NewClient(baseURL, logger),
		transcript:  transcript.New(),
		extractor:   itinerary.NewExtractor(logger),
		itineraries: itinerary.NewStore(),
		renderer:    itinerary.NewMarkdownRenderer(),
	}
	a.consumer = chat.NewConsumer(a.client, a.transcript, a.extractor, a.itineraries, logger)
	a.consumer.OnUpdate(a.printDelta)
	a.itineraries.OnChange(a.printItinerary)
	return a
}

// printDelta writes only the unseen tail of the latest assistant turn,
// passed through the stream view so payload JSON is held back instead
// of echoed to the terminal.
func (a *app) printDelta(turns []models.Turn) {
	if len(turns) == 0 {
		return
	}
	last := turns[len(turns)-1]
	if last.Role != models.RoleAssistant {
		return
	}
	if len(turns) != a.turnCount {
		a.turnCount = len(turns)
		a.printed = ""
	}
	view := a.extractor.StreamView(last.Content)
	if view != a.printed && strings.HasPrefix(view, a.printed) {
		fmt.Print(view[len(a.printed):])
		a.printed = view
	}
}

func (a *app) printItinerary(it *models.Itinerary) {
	fmt.Println()
	fmt.Println()
	fmt.Println(a.renderer.Render(it))
	fmt.Println(`(use /save to keep this itinerary)`)
}

func (a *app) repl() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if greeting, ok := a.transcript.Last(); ok {
		fmt.Println(greeting.Content)
	}
	fmt.Println(`Type a message, or /help for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := a.command(ctx, line); quit {
				return nil
			}
			continue
		}

		a.send(ctx, line)
	}
}

func (a *app) send(parent context.Context, message string) {
	// A second Ctrl+C only cancels the in-flight stream, not the app.
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT)
	defer cancel()

	err := a.consumer.Stream(ctx, a.token, message)
	fmt.Println()
	switch {
	case err == nil:
	case errors.Is(err, models.ErrStreamInFlight):
		fmt.Println("still waiting on the previous reply")
	case errors.Is(err, models.ErrEmptyMessage):
	default:
		fmt.Println("something went wrong:", err)
	}
}

func (a *app) command(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Println(`/register <email> <password>  create an account
/login <email> <password>     sign in
/show                         show the current itinerary
/save                         save the current itinerary
/quit                         leave`)
	case "/register":
		if len(fields) != 3 {
			fmt.Println("usage: /register <email> <password>")
			return false
		}
		if err := a.client.Register(ctx, fields[1], fields[2]); err != nil {
			fmt.Println("registration failed:", err)
			return false
		}
		fmt.Println("account created, use /login to sign in")
	case "/login":
		if len(fields) != 3 {
			fmt.Println("usage: /login <email> <password>")
			return false
		}
		token, err := a.client.Login(ctx, fields[1], fields[2])
		if err != nil {
			fmt.Println("login failed:", err)
			return false
		}
		a.token = token
		fmt.Println("signed in as", fields[1])
	case "/show":
		it := a.itineraries.Current()
		if it == nil {
			fmt.Println("no itinerary yet, ask the assistant to plan a trip")
			return false
		}
		fmt.Println(a.renderer.Render(it))
	case "/save":
		a.save(ctx)
	default:
		fmt.Println("unknown command, try /help")
	}
	return false
}

func (a *app) save(ctx context.Context) {
	it := a.itineraries.Current()
	if it == nil {
		fmt.Println("no itinerary to save yet")
		return
	}

	payload, err := it.WireFormat()
	if err != nil {
		fmt.Println("could not serialize itinerary:", err)
		return
	}

	err = a.client.SaveItinerary(ctx, a.token, models.SaveItineraryRequest{
		Destination:   it.Destination,
		ItineraryJSON: payload,
	})
	switch {
	case errors.Is(err, models.ErrSaveRequiresAuth), errors.Is(err, models.ErrUnauthenticated):
		fmt.Println("sign in with /login to save itineraries")
	case err != nil:
		fmt.Println("save failed:", err)
	default:
		fmt.Println("itinerary saved")
	}
}
