package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	search "github.com/devancy/ranked-search-engine/search"
)

// config holds the application configuration values bound through viper.
type config struct {
	corpusPath    string
	stopWords     string
	stopWordsFile string
	useParallel   bool
	normalize     bool
	stem          bool
	pageSize      int
}

var rootCmd = &cobra.Command{
	Use:   "ranked-search-engine",
	Short: "In-memory TF-IDF search over a JSON-lines corpus",
	Long: `Loads a JSON-lines corpus ({"id","text","status","ratings"} per line,
optionally gzip-compressed) into an in-memory inverted index and answers
ranked keyword queries interactively. Query words prefixed with '-' exclude
matching documents.`,
	RunE:          runSearch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("corpus", "p", "", "JSON-lines corpus path (.jsonl or .jsonl.gz)")
	flags.String("stop-words", "", "whitespace-delimited stop words")
	flags.String("stop-words-file", "", "file with whitespace-delimited stop words")
	flags.BoolP("parallel", "c", false, "use the parallel ranker")
	flags.Bool("normalize", false, "lowercase and trim tokens before indexing and querying")
	flags.Bool("stem", false, "stem tokens (implies --normalize)")
	flags.IntP("page-size", "n", 5, "results per page")

	viper.SetEnvPrefix("rse")
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Str("component", "search-engine").Logger()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func loadConfig() config {
	return config{
		corpusPath:    viper.GetString("corpus"),
		stopWords:     viper.GetString("stop-words"),
		stopWordsFile: viper.GetString("stop-words-file"),
		useParallel:   viper.GetBool("parallel"),
		normalize:     viper.GetBool("normalize") || viper.GetBool("stem"),
		stem:          viper.GetBool("stem"),
		pageSize:      viper.GetInt("page-size"),
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	server, err := buildServer(cfg)
	if err != nil {
		return err
	}

	if cfg.corpusPath != "" {
		if err := indexCorpus(server, cfg); err != nil {
			return err
		}
	}

	return runInteractiveSearch(server, cfg)
}

// buildServer constructs the search server from the configured stop words.
func buildServer(cfg config) (*search.SearchServer, error) {
	stopWords := cfg.stopWords
	if cfg.stopWordsFile != "" {
		data, err := os.ReadFile(cfg.stopWordsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read stop words: %w", err)
		}
		stopWords = strings.Join(strings.Fields(string(data)), " ")
	}
	if cfg.normalize {
		stopWords = search.Normalize(stopWords, cfg.stem)
	}

	server, err := search.NewSearchServer(stopWords)
	if err != nil {
		return nil, fmt.Errorf("failed to construct server: %w", err)
	}
	return server, nil
}

// indexCorpus loads the corpus file and adds every document to the server.
func indexCorpus(server *search.SearchServer, cfg config) error {
	start := time.Now()
	log.Info().Str("path", cfg.corpusPath).Msg("loading corpus")

	records, err := loadCorpus(cfg.corpusPath)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	log.Info().Int("documents", len(records)).Dur("elapsed", time.Since(start)).Msg("corpus loaded")

	start = time.Now()
	for _, record := range records {
		status, err := record.status()
		if err != nil {
			return fmt.Errorf("document %d: %w", *record.ID, err)
		}
		text := record.Text
		if cfg.normalize {
			text = search.Normalize(text, cfg.stem)
		}
		if err := server.AddDocument(*record.ID, text, status, record.Ratings); err != nil {
			return fmt.Errorf("document %d: %w", *record.ID, err)
		}
	}

	stats := server.Stats()
	log.Info().
		Int("documents", stats.DocumentCount).
		Int("terms", stats.TermCount).
		Dur("elapsed", time.Since(start)).
		Msg("corpus indexed")
	return nil
}

// runInteractiveSearch handles the main user interaction loop for searching.
func runInteractiveSearch(server *search.SearchServer, cfg config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".search_history.tmp",
		InterruptPrompt: "^C\n",
		EOFPrompt:       "exit\n",
		HistoryLimit:    100,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	queue := search.NewRequestQueue(server)
	policy := search.Sequenced
	if cfg.useParallel {
		policy = search.Parallel
	}

	fmt.Println("\nEnter a query, or a command (:match, :remove, :freq, :stats, :requests).")
	fmt.Println("Prefix a query word with '-' to exclude documents containing it. Ctrl+C or 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				fmt.Println("\nExiting...")
				return nil
			}
			continue // allow clearing the line with Ctrl+C
		}
		if err == io.EOF || strings.TrimSpace(line) == "exit" {
			fmt.Println("\nExiting...")
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, ":") {
			runCommand(server, queue, policy, input)
			continue
		}

		rawQuery := input
		if cfg.normalize {
			rawQuery = search.Normalize(rawQuery, cfg.stem)
		}
		results := performSearch(server, queue, policy, rawQuery)
		if results == nil {
			continue
		}
		fmt.Printf("\nSearch Results for: %q\n", input)
		displayResults(results, cfg.pageSize)
	}
}

// performSearch runs the query and logs its duration. Sequenced queries go
// through the request queue; parallel queries call the server directly and
// are not recorded in the queue.
func performSearch(server *search.SearchServer, queue *search.RequestQueue, policy search.ExecutionPolicy, rawQuery string) []search.Document {
	start := time.Now()
	var results []search.Document
	var err error
	if policy == search.Parallel {
		results, err = server.FindTopDocumentsWith(search.Parallel, rawQuery, nil)
	} else {
		results, err = queue.AddFindRequest(rawQuery)
	}
	if err != nil {
		fmt.Printf("Invalid query: %v\n", err)
		return nil
	}
	log.Info().Str("query", rawQuery).Int("results", len(results)).Dur("elapsed", time.Since(start)).Msg("search completed")
	return results
}

// runCommand dispatches the ':'-prefixed REPL commands.
func runCommand(server *search.SearchServer, queue *search.RequestQueue, policy search.ExecutionPolicy, input string) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":stats":
		stats := server.Stats()
		fmt.Printf("documents: %d, terms: %d, avg doc length: %.2f\n",
			stats.DocumentCount, stats.TermCount, stats.AvgDocLength)

	case ":requests":
		fmt.Printf("requests with no results in the current window: %d\n", queue.NoResultRequests())

	case ":remove":
		if len(fields) != 2 {
			fmt.Println("usage: :remove <id>")
			return
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Println("usage: :remove <id>")
			return
		}
		server.RemoveDocumentWith(policy, id)
		fmt.Printf("document %d removed (%d remain)\n", id, server.DocumentCount())

	case ":freq":
		if len(fields) != 2 {
			fmt.Println("usage: :freq <id>")
			return
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Println("usage: :freq <id>")
			return
		}
		freqs := server.WordFrequencies(id)
		words := make([]string, 0, len(freqs))
		for word := range freqs {
			words = append(words, word)
		}
		sort.Strings(words)
		for _, word := range words {
			fmt.Printf("  %s: %.6f\n", word, freqs[word])
		}

	case ":match":
		if len(fields) < 3 {
			fmt.Println("usage: :match <id> <query>")
			return
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Println("usage: :match <id> <query>")
			return
		}
		words, status, err := server.MatchDocumentWith(policy, strings.Join(fields[2:], " "), id)
		if err != nil {
			if errors.Is(err, search.ErrOutOfRange) {
				fmt.Printf("no document with id %d\n", id)
			} else {
				fmt.Printf("invalid query: %v\n", err)
			}
			return
		}
		fmt.Printf("matched %v, status %s\n", words, status)

	default:
		fmt.Printf("unknown command %s\n", fields[0])
	}
}

// displayResults handles printing search results with pagination.
func displayResults(results []search.Document, pageSize int) {
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return
	}
	if pageSize < 1 {
		pageSize = 1
	}

	startIndex := 0
	reader := bufio.NewReader(os.Stdin)
displayLoop:
	for {
		endIndex := min(startIndex+pageSize, len(results))

		if startIndex == 0 {
			fmt.Println("\nResults (sorted by relevance):")
			fmt.Println(strings.Repeat("-", 60))
		}

		for i := startIndex; i < endIndex; i++ {
			result := results[i]
			fmt.Printf("%d. document %d\n", i+1, result.ID)
			fmt.Printf("   Relevance: %.6f\n", result.Relevance)
			fmt.Printf("   Rating: %d\n", result.Rating)
			fmt.Println(strings.Repeat("-", 60))
		}

		startIndex = endIndex

		if startIndex < len(results) {
			remaining := len(results) - startIndex
			nextCount := min(remaining, pageSize)
			fmt.Printf("\nPress Enter for next %d results (%d remaining), or any other key to return to query...\n", nextCount, remaining)
			input, _ := reader.ReadString('\n')
			if input == "\n" || input == "\r\n" {
				continue displayLoop
			}
			break displayLoop
		} else {
			fmt.Println("\nEnd of results.")
			break displayLoop
		}
	}
}
