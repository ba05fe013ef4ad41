package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/carenote/carenote-mcp/pkg/carenote"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	inputFile = flag.String("input", "", "File containing the nursing narrative (stdin when empty)")
	envFile   = flag.String("env", ".env", "Path to environment file")
	timeout   = flag.Duration("timeout", 60*time.Second, "Request timeout")
	logLevel  = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

// quick-extract runs an ephemeral extraction against pasted text. Nothing
// is persisted server-side.
func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	baseURL := os.Getenv("CARENOTE_API_BASE")
	if baseURL == "" {
		logger.Fatal("CARENOTE_API_BASE must be set")
	}

	text, err := readNarrative(*inputFile)
	if err != nil {
		logger.Fatalf("Failed to read narrative: %v", err)
	}
	if len(text) == 0 {
		logger.Fatal("Narrative text is empty")
	}

	client := carenote.NewClient(baseURL,
		carenote.WithTokenSource(envTokenSource{}),
		carenote.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ext, err := client.QuickExtract(ctx, string(text))
	if err != nil {
		logger.Fatalf("Extraction failed: %v", err)
	}

	keys := make([]string, 0, len(ext.Fields))
	for key := range ext.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("%s: %v\n", key, ext.Fields[key])
	}
	logger.Infof("Extracted %d categories", len(keys))
}

func readNarrative(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// envTokenSource reads the bearer token from the environment; quick
// extraction works unauthenticated on backends that allow it.
type envTokenSource struct{}

func (envTokenSource) BearerToken() string {
	return os.Getenv("CARENOTE_ACCESS_TOKEN")
}
