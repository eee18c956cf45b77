package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/iam-atlas/pkg/server"
	"github.com/de-tools/iam-atlas/pkg/services/advisor"
	"github.com/de-tools/iam-atlas/pkg/services/inventory"
	"github.com/de-tools/iam-atlas/pkg/store/sqlite"
	advisorstore "github.com/de-tools/iam-atlas/pkg/store/sqlite/advisor"
	uploadstore "github.com/de-tools/iam-atlas/pkg/store/sqlite/uploads"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the IAM Atlas web server",
		RunE:  runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadSettings() {
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", "8000")
	viper.SetDefault("db_path", "iam-atlas.db")
	viper.SetDefault("gemini_model", "gemini-flash-latest")
	viper.SetDefault("llm_disabled", false)
	viper.AutomaticEnv()
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}
	loadSettings()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := sqlite.NewDB(sqlite.Settings{
		DbPath: viper.GetString("db_path"),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	uploads, err := uploadstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create upload store: %w", err)
	}
	artifacts, err := advisorstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create advisor store: %w", err)
	}

	llmDisabled := viper.GetBool("llm_disabled")
	apiKey := viper.GetString("gemini_api_key")
	if apiKey == "" && !llmDisabled {
		logger.Warn().Msg("GEMINI_API_KEY not set, advisor endpoints disabled")
		llmDisabled = true
	}

	var generator advisor.Generator
	if !llmDisabled {
		generator, err = advisor.NewClient(advisor.ClientConfig{
			APIKey: apiKey,
			Model:  viper.GetString("gemini_model"),
		})
		if err != nil {
			return fmt.Errorf("failed to create advisor client: %w", err)
		}
	}

	addr := net.JoinHostPort(viper.GetString("server_host"), viper.GetString("server_port"))
	logger.Info().Str("addr", addr).Str("db", viper.GetString("db_path")).
		Bool("llm_disabled", llmDisabled).Msg("configuration loaded")

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		LLMDisabled:     llmDisabled,
		Dependencies: server.Dependencies{
			Inventory: inventory.NewExplorer(uploads),
			Advisor:   advisor.NewService(generator, artifacts),
		},
	})

	return webAPI.Start()
}
