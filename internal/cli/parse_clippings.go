package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/kindle-library/internal/clippings"
	"github.com/mrlokans/kindle-library/internal/config"
	"github.com/mrlokans/kindle-library/internal/exclusions"
)

// ParseClippingsCommand parses a clippings file and prints a summary of the
// books that the server would serve, exclusions applied.
type ParseClippingsCommand struct {
	ClippingsPath string
	DataDir       string
	Verbose       bool
}

func NewParseClippingsCommand() *ParseClippingsCommand {
	return &ParseClippingsCommand{}
}

func (cmd *ParseClippingsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", "", "Path to Kindle 'My Clippings.txt' file (required)")
	fs.StringVar(&cmd.DataDir, "data", config.DefaultDataDir, "Data directory holding the exclusion ledgers")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every book with its highlight count")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s parse -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse a Kindle 'My Clippings.txt' file and print a summary.\n\n")
		fmt.Fprintf(os.Stderr, "The clippings file is typically found at:\n")
		fmt.Fprintf(os.Stderr, "  /Volumes/Kindle/documents/My Clippings.txt\n\n")
		fmt.Fprintf(os.Stderr, "Exclusion ledgers in the data directory are applied, so the summary\n")
		fmt.Fprintf(os.Stderr, "matches what the server would serve.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ParseClippingsCommand) Run() error {
	if _, err := os.Stat(cmd.ClippingsPath); os.IsNotExist(err) {
		return fmt.Errorf("clippings file not found: %s", cmd.ClippingsPath)
	}

	store, err := exclusions.NewStore(cmd.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize exclusion store: %w", err)
	}

	parser := clippings.NewParser(store)
	books := parser.ParseFile(cmd.ClippingsPath)

	if len(books) == 0 {
		fmt.Println("No books with highlights found in clippings file")
		return nil
	}

	totalHighlights := 0
	for _, book := range books {
		totalHighlights += len(book.Highlights)
	}

	fmt.Printf("Found %d books with %d total highlights\n", len(books), totalHighlights)

	if cmd.Verbose {
		fmt.Println("\n=== Books Found ===")
		for i, book := range books {
			fmt.Printf("%d. \"%s\" by %s (%d highlights)\n",
				i+1, book.Title, book.Author, len(book.Highlights))
		}
	}

	return nil
}
