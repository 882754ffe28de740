package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/config"
	"github.com/brokergate/client/internal/client/repositories/markers"
	"github.com/brokergate/client/internal/client/services"
	"github.com/brokergate/client/internal/client/session"
	"github.com/brokergate/client/internal/client/storage"
	"github.com/brokergate/client/internal/logging"
)

type App struct {
	config *config.Config
	auth   services.AuthService
	creds  services.CredentialService
	store  *session.Store
	db     *sql.DB
	log    logging.Logger
	reader *bufio.Reader
}

// NewApp wires the full client: state database, marker repository, session
// store, HTTP API client, and the flow services on top of them.
//
// The API client's identity header is fed from the durable client-id marker,
// and its authorization-expiry hook clears both the markers and the
// in-memory session, so a lapsed session observed on any request logs the
// user out everywhere at once.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewNop()
	}

	ctx := context.Background()

	db, err := storage.Open(ctx, c.StateDBPath)
	if err != nil {
		log.Error(ctx, "error initializing state database", "error", err)
		return nil, err
	}

	repo := markers.NewSQLiteRepository(db)
	store := session.NewStore()

	clientID := func() string {
		id, err := repo.Get(context.Background(), markers.KeyClientID)
		if err != nil {
			return ""
		}
		return id
	}
	onAuthExpired := func() {
		if err := repo.Clear(context.Background()); err != nil {
			log.Warn(context.Background(), "failed to clear markers", "error", err)
		}
		store.Clear()
	}

	apiClient, err := api.NewHTTPClient(c.APIBaseURL, clientID, onAuthExpired, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, store, repo, c.OTPSettleDelay, log)
	cs := services.NewCredentialService(apiClient, store, log)

	return &App{
		config: c,
		auth:   as,
		creds:  cs,
		store:  store,
		db:     db,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.auth.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}
