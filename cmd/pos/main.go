package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"

	"gamecafe-pos/internal/client"
	"gamecafe-pos/internal/config"
	"gamecafe-pos/internal/models"
	"gamecafe-pos/internal/workflow"
)

func main() {
	serverURL := flag.String("server", "", "POS server URL (overrides POS_SERVER_URL)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	api := client.New(cfg)
	ui := newTerminalUI(cfg.ServerURL)
	wf := workflow.New(api, ui)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// keep elapsed times current on screen; no network involved
	wf.StartRenderTicker(ctx, time.Minute)

	if err := wf.LoadCatalog(ctx); err == nil {
		wf.Refresh(ctx)
	}

	fmt.Println(`Gaming café POS. Type "help" for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	var watching atomic.Bool

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()

		case "quit", "exit":
			return

		case "catalog":
			wf.LoadCatalog(ctx)

		case "refresh":
			wf.Refresh(ctx)

		case "stations":
			ui.RenderStations(wf.StationBoard())

		case "sessions":
			ui.RenderSessions(wf.Sessions())

		case "user":
			if len(args) != 1 {
				fmt.Println("usage: user <mobile>")
				continue
			}
			wf.LookupUser(ctx, args[0])

		case "start":
			if len(args) < 2 {
				fmt.Println("usage: start <station> <game> [controllers]")
				continue
			}
			station := strings.ToUpper(args[0])
			gameArgs := args[1:]
			controllers := 0
			if len(gameArgs) > 1 {
				if n, err := strconv.Atoi(gameArgs[len(gameArgs)-1]); err == nil {
					controllers = n
					gameArgs = gameArgs[:len(gameArgs)-1]
				}
			}
			wf.StartSession(ctx, station, strings.Join(gameArgs, " "), controllers)

		case "end":
			if len(args) != 1 {
				fmt.Println("usage: end <station|session-id>")
				continue
			}
			id, ok := resolveSession(wf.Sessions(), args[0])
			if !ok {
				fmt.Println("No active session matches", args[0])
				continue
			}
			if !wf.OpenEndDialog(id) {
				fmt.Println("Session is no longer active, refresh and retry")
				continue
			}
			food := prompt(scanner, "Food cost [0]: ")
			if strings.EqualFold(food, "cancel") {
				wf.CancelEndDialog()
				continue
			}
			answer := prompt(scanner, "Use wallet [Y/n]: ")
			if strings.EqualFold(answer, "cancel") {
				wf.CancelEndDialog()
				continue
			}
			useWallet := !strings.EqualFold(answer, "n")
			wf.ConfirmEndSession(ctx, food, useWallet)

		case "price":
			if len(args) < 2 {
				fmt.Println("usage: price <game> <new-price>")
				continue
			}
			price, err := strconv.ParseFloat(args[len(args)-1], 64)
			if err != nil {
				fmt.Println("Price must be a number")
				continue
			}
			wf.UpdateGamePrice(ctx, strings.Join(args[:len(args)-1], " "), price)

		case "watch":
			if !watching.CompareAndSwap(false, true) {
				fmt.Println("Already watching the occupancy feed")
				continue
			}
			go func() {
				// allow a fresh watch after the feed drops
				defer watching.Store(false)
				err := api.WatchOccupancy(ctx, func(map[string]models.StationStatus) {
					wf.Refresh(ctx)
				})
				if err != nil && ctx.Err() == nil {
					log.Printf("occupancy watch stopped: %v", err)
				}
			}()
			fmt.Println("Watching occupancy feed")

		default:
			fmt.Printf("Unknown command %q, try \"help\"\n", cmd)
		}
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// resolveSession accepts a station letter, a full session id, or a
// unique session id prefix.
func resolveSession(sessions []models.Session, ref string) (string, bool) {
	if models.IsValidStation(strings.ToUpper(ref)) {
		letter := strings.ToUpper(ref)
		for _, s := range sessions {
			if s.Station == letter {
				return s.SessionID, true
			}
		}
		return "", false
	}

	var match string
	for _, s := range sessions {
		if s.SessionID == ref {
			return s.SessionID, true
		}
		if strings.HasPrefix(s.SessionID, ref) {
			if match != "" {
				return "", false
			}
			match = s.SessionID
		}
	}
	return match, match != ""
}

func printHelp() {
	fmt.Println(`Commands:
  catalog                      reload the game catalog
  refresh                      re-sync stations and sessions
  stations                     show the station board
  sessions                     show active sessions
  user <mobile>                load a customer
  start <station> <game> [n]   start a session (n = controllers)
  end <station|session-id>     end a session and bill it
  price <game> <new-price>     update a game's hourly price (admin)
  watch                        auto-refresh on occupancy broadcasts
  quit`)
}
