package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charlie-adam/nts-scraper/config"
	"github.com/charlie-adam/nts-scraper/llm"
	"github.com/charlie-adam/nts-scraper/match"
	"github.com/charlie-adam/nts-scraper/musicbrainz"
	"github.com/charlie-adam/nts-scraper/nts"
	"github.com/charlie-adam/nts-scraper/spotify"
	"github.com/charlie-adam/nts-scraper/store"
)

// Version information - set during build
var version = "dev"

// Application represents the main application state
type Application struct {
	config            *config.Config
	ntsClient         *nts.Client
	spotifyClient     *spotify.Client
	musicBrainzClient *musicbrainz.Client
	resolver          *match.Resolver
	store             *store.Store
	showAlias         string

	// in is the single reader over stdin, shared by the menu loop and the
	// confirmation queue so buffered type-ahead is never lost between them.
	in  *bufio.Reader
	out io.Writer
}

// NewApplication creates a new application instance
func NewApplication(ctx context.Context, cfg *config.Config, showAlias string, stdin *bufio.Reader) (*Application, error) {
	spotifyClient, err := spotify.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify client: %w", err)
	}

	var oracle *match.Oracle
	if cfg.Oracle.APIKey != "" {
		oracle = match.NewOracle(llm.NewClient(llm.Config{
			APIKey:  cfg.Oracle.APIKey,
			Model:   cfg.Oracle.Model,
			BaseURL: cfg.Oracle.BaseURL,
		}))
	} else {
		fmt.Println("ℹ️  No OPENROUTER_API_KEY set; matching by edit distance only")
	}

	resolver := match.NewResolver(oracle)
	resolver.Scorer.Threshold = cfg.Matcher.Threshold

	return &Application{
		config:            cfg,
		ntsClient:         nts.NewClient(),
		spotifyClient:     spotifyClient,
		musicBrainzClient: musicbrainz.NewClient(),
		resolver:          resolver,
		store:             store.New(cfg.DataDir, showAlias),
		showAlias:         showAlias,
		in:                stdin,
		out:               os.Stdout,
	}, nil
}

// Run executes the interactive menu loop until the user exits.
func (app *Application) Run(ctx context.Context) error {
	for {
		app.printMenu()

		line, err := app.in.ReadString('\n')
		if err != nil {
			// EOF on stdin means there's nobody left to answer
			return nil
		}

		switch strings.TrimSpace(line) {
		case "1":
			if err := app.fullScrapeAndSearch(ctx); err != nil {
				log.Printf("❌ Scrape failed: %v", err)
			}
		case "2":
			if err := app.retryFailedTracks(ctx); err != nil {
				log.Printf("❌ Retry failed: %v", err)
			}
		case "3":
			if err := app.createPlaylist(ctx); err != nil {
				log.Printf("❌ Playlist creation failed: %v", err)
			}
		case "4", "q", "quit", "exit":
			fmt.Fprintln(app.out, "👋 Bye")
			return nil
		default:
			fmt.Fprintln(app.out, "Please enter 1, 2, 3 or 4")
		}
	}
}

func (app *Application) printMenu() {
	fmt.Fprintf(app.out, "\n🎶 %s\n", app.showAlias)
	fmt.Fprintln(app.out, strings.Repeat("-", 40))
	fmt.Fprintln(app.out, "1. Scrape show and search Spotify")
	fmt.Fprintln(app.out, "2. Retry tracks that weren't found")
	fmt.Fprintln(app.out, "3. Create Spotify playlist")
	fmt.Fprintln(app.out, "4. Exit")
	fmt.Fprint(app.out, "> ")
}

// promptShowAlias asks for the NTS show alias when it wasn't given as a
// flag. The alias is the slug from the show's URL, e.g.
// nts.live/shows/questing-w-zakia -> questing-w-zakia.
func promptShowAlias(in *bufio.Reader, out io.Writer) (string, error) {
	for {
		fmt.Fprint(out, "Enter the NTS show alias (from the show URL): ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read show alias: %w", err)
		}
		alias := strings.TrimSpace(line)
		if alias != "" {
			return alias, nil
		}
	}
}

func main() {
	var showAlias string
	flag.StringVar(&showAlias, "show", "", "NTS show alias (the slug from the show's URL)")
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("nts-scraper version %s\n", version)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	stdin := bufio.NewReader(os.Stdin)

	if showAlias == "" {
		showAlias, err = promptShowAlias(stdin, os.Stdout)
		if err != nil {
			log.Fatalf("Failed to read show alias: %v", err)
		}
	}

	ctx := context.Background()

	app, err := NewApplication(ctx, cfg, showAlias, stdin)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}
