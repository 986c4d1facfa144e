package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dshills/hsncheck/internal/dataset"
	"github.com/dshills/hsncheck/internal/mcp"
	"github.com/dshills/hsncheck/internal/storage"
	"github.com/dshills/hsncheck/pkg/types"
)

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "Print results as JSON",
}

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Clean the raw CSV and load the code store",
		Action: setupAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "raw",
				Usage: "Raw HSN CSV export",
			},
			&cli.StringFlag{
				Name:  "cleaned",
				Usage: "Cleaned CSV location",
			},
			&cli.BoolFlag{
				Name:  "force-clean",
				Usage: "Re-clean the raw CSV even if a cleaned file exists",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Discard existing records before loading",
			},
		},
	}
}

func setupAction(c *cli.Context) error {
	cfg := appConfig(c)
	if c.IsSet("raw") {
		cfg.Data.RawCSV = c.String("raw")
	}
	if c.IsSet("cleaned") {
		cfg.Data.CleanedCSV = c.String("cleaned")
	}

	fmt.Fprintln(c.App.Writer, "Setting up the store...")
	n, err := provision(c.Context, cfg, setupOptions{
		forceClean: c.Bool("force-clean"),
		replace:    c.Bool("replace"),
	})
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Setup complete. %d records loaded.\n", n)
	return nil
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate one or more HSN codes",
		ArgsUsage: "<code>...",
		Action:    validateAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read codes from a file, one per line",
			},
			jsonFlag,
		},
	}
}

func validateAction(c *cli.Context) error {
	codes := c.Args().Slice()
	if path := c.String("file"); path != "" {
		fileCodes, err := readCodes(path)
		if err != nil {
			return err
		}
		codes = append(codes, fileCodes...)
	}
	if len(codes) == 0 {
		return cli.Exit("validate requires at least one code", 2)
	}

	cfg := appConfig(c)
	engine, err := openEngine(c.Context, cfg, c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer engine.Close()

	if len(codes) == 1 {
		res, err := engine.Validate(c.Context, codes[0])
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return writeJSON(c.App.Writer, res)
		}
		printValidation(c.App.Writer, res)
		return nil
	}

	results, err := engine.ValidateAll(c.Context, codes, cfg.Workers)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, results)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(c.App.Writer)
		}
		printValidation(c.App.Writer, res)
	}
	return nil
}

// readCodes returns the non-blank lines of path
func readCodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open code list: %w", err)
	}
	defer f.Close()

	var codes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			codes = append(codes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read code list: %w", err)
	}
	return codes, nil
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search HSN codes by description",
		ArgsUsage: "<description>",
		Action:    searchAction,
		Flags:     []cli.Flag{jsonFlag},
	}
}

func searchAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("search requires a description", 2)
	}
	query := strings.Join(c.Args().Slice(), " ")

	engine, err := openEngine(c.Context, appConfig(c), c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer engine.Close()

	records, err := engine.SearchByDescription(c.Context, query)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		if records == nil {
			records = []types.CodeRecord{}
		}
		return writeJSON(c.App.Writer, records)
	}
	printSearch(c.App.Writer, records)
	return nil
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract and validate HSN codes from text",
		ArgsUsage: "<text>",
		Action:    extractAction,
		Flags:     []cli.Flag{jsonFlag},
	}
}

func extractAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("extract requires text", 2)
	}
	text := strings.Join(c.Args().Slice(), " ")

	engine, err := openEngine(c.Context, appConfig(c), c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.ExtractCodes(c.Context, text)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, results)
	}
	printExtraction(c.App.Writer, results)
	return nil
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:   "interactive",
		Usage:  "Run the menu-driven interactive mode",
		Action: interactiveAction,
	}
}

func interactiveAction(c *cli.Context) error {
	engine, err := openEngine(c.Context, appConfig(c), c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer engine.Close()

	w := c.App.Writer
	scanner := bufio.NewScanner(c.App.Reader)
	prompt := func(label string) (string, bool) {
		fmt.Fprint(w, label)
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}

	fmt.Fprintln(w, "HSN Code Validation - Interactive Mode")
	fmt.Fprintln(w, "Enter 'exit' to quit")

	for {
		fmt.Fprintln(w, "\nOptions:")
		fmt.Fprintln(w, "1. Validate HSN Code")
		fmt.Fprintln(w, "2. Search by Description")
		fmt.Fprintln(w, "3. Extract Codes from Text")
		fmt.Fprintln(w, "4. Exit")

		choice, ok := prompt("Enter your choice (1-4): ")
		if !ok {
			break
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "1":
			code, ok := prompt("Enter HSN code to validate: ")
			if !ok {
				break
			}
			res, err := engine.Validate(c.Context, code)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "\nValidation Result:")
			printValidation(w, res)

		case "2":
			query, ok := prompt("Enter description to search for: ")
			if !ok {
				break
			}
			records, err := engine.SearchByDescription(c.Context, query)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			printSearch(w, records)

		case "3":
			text, ok := prompt("Enter text to extract HSN codes from: ")
			if !ok {
				break
			}
			results, err := engine.ExtractCodes(c.Context, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			printExtraction(w, results)

		case "4", "exit":
			fmt.Fprintln(w, "Exiting interactive mode.")
			return nil

		default:
			fmt.Fprintln(w, "Invalid choice. Please try again.")
		}
	}

	fmt.Fprintln(w, "Exiting interactive mode.")
	return scanner.Err()
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:   "export",
		Usage:  "Write the cleaned records as a JSON document",
		Action: exportAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output JSON file",
				Value:   storage.DefaultJSONPath,
			},
			&cli.BoolFlag{
				Name:  "force-clean",
				Usage: "Re-clean the raw CSV even if a cleaned file exists",
			},
		},
	}
}

func exportAction(c *cli.Context) error {
	records, err := loadCleaned(appConfig(c), c.Bool("force-clean"))
	if err != nil {
		return err
	}

	out := c.String("out")
	if err := dataset.WriteJSONFile(out, records); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Exported %d records to %s\n", len(records), out)
	return nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the validation tools over MCP on stdio",
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	engine, err := openEngine(c.Context, appConfig(c), c.App.ErrWriter)
	if err != nil {
		return err
	}

	return mcp.NewServer(engine, nil).Serve(c.Context)
}
