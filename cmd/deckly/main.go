// Command deckly is a small front end for the presentation generation API.
//
// Usage:
//
//	deckly generate -topic "Quarterly results" [-slides 10] [-template modern] [-async]
//	deckly status -task <task id>
//	deckly upload <file> [<file> ...]
//
// The API key is read from the DECKLY_API_KEY environment variable or from
// ~/.deckly.yaml.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deckly/deckly-go"
	"github.com/deckly/deckly-go/cli"
	"github.com/deckly/deckly-go/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	if len(args) == 0 {
		usage()

		return 2
	}

	ctx := context.Background()

	telemetryCfg, err := telemetry.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("telemetry config ignored", "error", err)
	} else if err := telemetry.Initialize(ctx, telemetryCfg); err != nil {
		logger.Warn("telemetry disabled", "error", err)
	} else {
		defer telemetry.Shutdown(ctx)
	}

	client, err := newClient(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "deckly:", err)

		return 1
	}

	switch args[0] {
	case "generate":
		err = runGenerate(ctx, client, args[1:])
	case "status":
		err = runStatus(ctx, client, args[1:])
	case "upload":
		err = runUpload(ctx, client, args[1:])
	default:
		usage()

		return 2
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "deckly:", err)

		return 1
	}

	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: deckly <generate|status|upload> [flags]")
}

func logLevel() slog.Level {
	if os.Getenv("DECKLY_DEBUG") != "" {
		return slog.LevelDebug
	}

	return slog.LevelWarn
}

// fileConfig mirrors the optional ~/.deckly.yaml file.
type fileConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

func loadFileConfig() fileConfig {
	var cfg fileConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}

	data, err := os.ReadFile(filepath.Join(home, ".deckly.yaml"))
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("ignoring malformed config file", "error", err)

		return fileConfig{}
	}

	return cfg
}

func newClient(logger *slog.Logger) (*deckly.Client, error) {
	fileCfg := loadFileConfig()

	apiKey := os.Getenv("DECKLY_API_KEY")
	if apiKey == "" {
		apiKey = fileCfg.APIKey
	}

	if apiKey == "" {
		key, err := cli.PromptSecret("API key")
		if err != nil {
			return nil, fmt.Errorf("reading API key: %w", err)
		}

		apiKey = key
	}

	return deckly.New(deckly.Config{
		APIKey:  apiKey,
		BaseURL: fileCfg.BaseURL,
		Logger:  logger,
	})
}

func runGenerate(ctx context.Context, client *deckly.Client, args []string) error {
	flags := flag.NewFlagSet("generate", flag.ExitOnError)
	topic := flags.String("topic", "", "presentation topic (required)")
	slides := flags.Int("slides", 10, "number of slides")
	template := flags.String("template", "", "template name")
	tone := flags.String("tone", "", "writing tone")
	language := flags.String("language", "", "output language")
	async := flags.Bool("async", false, "submit and print the task id instead of waiting")
	yes := flags.Bool("yes", false, "skip the confirmation prompt")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *topic == "" {
		entered, err := cli.PromptString("Topic")
		if err != nil {
			return err
		}

		*topic = entered
	}

	opts := deckly.GenerateOptions{
		Topic:      *topic,
		SlideCount: *slides,
		Template:   *template,
		Tone:       *tone,
		Language:   *language,
	}

	if !*yes {
		ok, err := cli.Confirm(fmt.Sprintf("Generate %d slides about %q", opts.SlideCount, opts.Topic))
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}
	}

	if *async {
		taskID, err := client.GenerateAsync(ctx, opts)
		if err != nil {
			return err
		}

		fmt.Println(taskID)

		return nil
	}

	start := time.Now()

	taskID, err := client.GenerateAsync(ctx, opts)
	if err != nil {
		return err
	}

	pres, err := client.WaitForCompletion(ctx, taskID, deckly.WithObserver(func(task *deckly.Task) {
		slog.Info("task update", "task_id", task.ID, "status", task.Status)
	}))
	if err != nil {
		return err
	}

	fmt.Printf("generated %s in %s\n%s\n", pres.ID, time.Since(start).Round(time.Second), pres.URL)

	return nil
}

func runStatus(ctx context.Context, client *deckly.Client, args []string) error {
	flags := flag.NewFlagSet("status", flag.ExitOnError)
	taskID := flags.String("task", "", "task id (required)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *taskID == "" {
		return fmt.Errorf("-task is required")
	}

	task, err := client.GetTask(ctx, *taskID)
	if err != nil {
		return err
	}

	fmt.Printf("task %s: %s\n", task.ID, task.Status)

	if task.Message != "" {
		fmt.Println(task.Message)
	}

	if task.Result != nil {
		fmt.Println(task.Result.URL)
	}

	return nil
}

func runUpload(ctx context.Context, client *deckly.Client, args []string) error {
	flags := flag.NewFlagSet("upload", flag.ExitOnError)

	if err := flags.Parse(args); err != nil {
		return err
	}

	paths := flags.Args()
	if len(paths) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	ids, err := client.UploadFiles(ctx, paths)
	if err != nil {
		return err
	}

	for i, id := range ids {
		fmt.Printf("%s\t%s\n", id, paths[i])
	}

	return nil
}
