// Cogmind daemon: the continuously thinking mind and its HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantumlife/cogmind/internal/api"
	"github.com/quantumlife/cogmind/internal/config"
	"github.com/quantumlife/cogmind/internal/embeddings"
	"github.com/quantumlife/cogmind/internal/llm"
	"github.com/quantumlife/cogmind/internal/logging"
	"github.com/quantumlife/cogmind/internal/mind"
	"github.com/quantumlife/cogmind/internal/storage"
	"github.com/quantumlife/cogmind/internal/vectors"
)

var (
	configPath string
	dataDir    string
	port       int
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cogmindd",
		Short: "Cogmind daemon - a mind that keeps thinking between conversations",
		RunE:  runDaemon,
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: <data-dir>/config.json)")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory (overrides config)")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if debug || cfg.Features.DebugMode {
		logging.SetLevel(logging.DEBUG)
	}

	log := logging.WithField("component", "daemon")
	log.Info("starting cogmind daemon")

	// Durable record
	db, err := storage.Open(storage.Config{Path: cfg.DatabasePath()})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	thoughtStore := storage.NewThoughtStore(db)
	goalStore := storage.NewGoalStore(db)
	affectStore := storage.NewAffectStore(db)

	// Episodic memory: embeddings via Ollama, vectors in Qdrant. Both
	// optional; the mind runs without them.
	var vectorStore *vectors.Store
	embedder := embeddings.NewService(embeddings.Config{
		BaseURL: cfg.Ollama.URL,
		Model:   cfg.Ollama.EmbedModel,
	})
	embedderUp := embedder.Health(context.Background()) == nil
	if !embedderUp {
		log.Warn("Ollama embeddings unavailable, episodic memory disabled")
	}

	if cfg.Features.EnableVectors && embedderUp {
		vectorStore, err = vectors.NewStore(vectors.Config{
			Host: cfg.Qdrant.Host,
			Port: cfg.Qdrant.Port,
		})
		if err != nil {
			log.Warn("Qdrant unavailable: %v", err)
			vectorStore = nil
		} else {
			defer vectorStore.Close()
			if err := vectorStore.EnsureCollections(context.Background(), embedder.Dimension()); err != nil {
				log.Warn("failed to ensure vector collections: %v", err)
				vectorStore.Close()
				vectorStore = nil
			} else {
				log.Info("Qdrant connected")
			}
		}
	}

	// The LLM collaborator: Claude primary, Ollama local, fallback on.
	claude := llm.NewClient(llm.Config{
		APIKey: cfg.Claude.APIKey,
		Model:  cfg.Claude.Model,
	})
	if !claude.IsConfigured() {
		log.Warn("ANTHROPIC_API_KEY not set, appraisal quality will depend on the local model")
	}
	ollama := llm.NewOllamaClient(llm.OllamaConfig{
		BaseURL:    cfg.Ollama.URL,
		Model:      cfg.Ollama.Model,
		EmbedModel: cfg.Ollama.EmbedModel,
	})
	router := llm.NewRouter(llm.RouterConfig{
		Claude:         claude,
		Ollama:         ollama,
		PreferLocal:    cfg.Features.PreferLocal,
		EnableFallback: true,
	})
	collaborator := llm.NewCollaborator(router, llm.DefaultCollaboratorConfig())

	// Assemble and start the mind.
	m := mind.New(mind.Options{
		Config:       cfg.Mind,
		Collaborator: collaborator,
		Thoughts:     thoughtStore,
		Goals:        goalStore,
		Affects:      affectStore,
		Embedder:     embedderService(embedder, embedderUp),
		Vectors:      vectorStore,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	server := api.New(api.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		Mind:     m,
		Thoughts: thoughtStore,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		server.Stop(context.Background())
		m.Stop()
		m.Wait()
		cancel()
	}()

	return server.Start()
}

// embedderService returns the embedder only when it answered the health
// check; a dead embedder would just feed the failure tracker.
func embedderService(s *embeddings.Service, up bool) *embeddings.Service {
	if !up {
		return nil
	}
	return s
}
