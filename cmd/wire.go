package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openhvx/hvxctl/internal/adapters/httpapi"
	tomlrepo "github.com/openhvx/hvxctl/internal/adapters/repo/toml"
	chainstore "github.com/openhvx/hvxctl/internal/adapters/tokens/chain"
	filestore "github.com/openhvx/hvxctl/internal/adapters/tokens/file"
	"github.com/openhvx/hvxctl/internal/application"
	"github.com/openhvx/hvxctl/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	log zerolog.Logger
	nav *cliNavigator

	creds     *application.Credentials
	session   *application.Session
	poller    *application.Poller
	inventory *application.Inventory
	invRepo   ports.InventoryRepository

	auth      *httpapi.AuthAPI
	tasks     *httpapi.TaskAPI
	tenants   *httpapi.TenantAPI
	metrics   *httpapi.MetricsAPI
	resources *httpapi.ResourceAPI
}

func wireApp() (*app, error) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	// Durable tier survives restarts; the ephemeral tier lives in the
	// temp dir and lasts one login session.
	durable := filestore.NewStore(envOrDefault("HVXCTL_TOKEN_DIR", filepath.Join(homeDir, ".openhvx", "tokens")))
	ephemeral := filestore.NewStore(envOrDefault("HVXCTL_RUNTIME_DIR", filepath.Join(os.TempDir(), "hvxctl-session")))
	creds := application.NewCredentials(durable, ephemeral, chainstore.NewStore(durable, ephemeral))

	nav := newCLINavigator(os.Stderr)

	client, err := httpapi.NewClient(httpapi.Options{
		BaseURL: envOrDefault("HVXCTL_API_BASE", "http://127.0.0.1:8686/api"),
		Tokens:  creds,
		Purger:  creds,
		Nav:     nav,
		Timeout: 20 * time.Second,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("wire api client: %w", err)
	}

	invRepo, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire inventory repository: %w", err)
	}

	auth := httpapi.NewAuthAPI(client)
	tasks := httpapi.NewTaskAPI(client)

	return &app{
		log:       log,
		nav:       nav,
		creds:     creds,
		session:   application.NewSession(creds, auth, log),
		poller:    application.NewPoller(tasks, ports.SystemClock{}, log),
		inventory: application.NewInventory(tasks, log),
		invRepo:   invRepo,
		auth:      auth,
		tasks:     tasks,
		tenants:   httpapi.NewTenantAPI(client),
		metrics:   httpapi.NewMetricsAPI(client),
		resources: httpapi.NewResourceAPI(client),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
