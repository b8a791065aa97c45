package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/coursegraph-client/internal/config"
	"github.com/samvad-hq/coursegraph-client/internal/logger"
	"github.com/samvad-hq/coursegraph-client/internal/storage"
	"github.com/samvad-hq/coursegraph-client/pkg/apiclient"
	"github.com/samvad-hq/coursegraph-client/pkg/httpclient"
	"github.com/samvad-hq/coursegraph-client/pkg/requests"
	"github.com/samvad-hq/coursegraph-client/pkg/token"
)

// App wires storage, the HTTP collaborator and the API client together and
// backs every CLI command.
type App struct {
	cfg    *config.Config
	log    logger.Logger
	store  storage.Store
	client *apiclient.Client
	out    io.Writer
}

// New builds an App from config. Extra client options are applied after the
// defaults.
func New(cfg *config.Config, log logger.Logger, out io.Writer, opts ...apiclient.Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	clientOpts := append([]apiclient.Option{apiclient.WithLogger(log)}, opts...)
	client, err := apiclient.New(httpclient.NewRestyClient(cfg.HTTPTimeout), store, clientOpts...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &App{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client,
		out:    out,
	}, nil
}

// Close releases the storage backend, logging any errors encountered.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}

// Call sends one request and prints the status line and body.
func (a *App) Call(ctx context.Context, method, path string, body any) error {
	d, err := a.client.Do(method, path, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := d.Await(ctx)
	a.logOutcome(d, resp, err, time.Since(start))
	if resp != nil {
		a.printResponse(resp)
	}
	return err
}

// RunPlan executes every request of the plan file in order. A failing
// request does not stop the run; all failures are returned joined.
func (a *App) RunPlan(ctx context.Context, path string) error {
	plan, err := requests.LoadPlan(path)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	a.log.InfoObj("plan loaded", "plan_meta", map[string]any{
		"path":  path,
		"count": len(plan.Requests),
	})

	errs := make([]error, 0, len(plan.Requests))
	for _, req := range plan.Requests {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		fmt.Fprintf(a.out, "### %s %s %s\n", req.ID, req.Method, req.Path)
		if err := a.Call(ctx, req.Method, req.Path, req.Body); err != nil {
			errs = append(errs, fmt.Errorf("request %s: %w", req.ID, err))
		}
	}
	return errors.Join(errs...)
}

// SetToken stores value verbatim as the Authorization token.
func (a *App) SetToken(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("token must not be empty")
	}
	if err := a.store.SetItem(apiclient.TokenKey, value); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Login stores the "<userId>_<token>" value the backend issues at login.
func (a *App) Login(entry token.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return a.SetToken(entry.Authentication())
}

// ShowToken prints the stored token, or reports that none is stored.
func (a *App) ShowToken() error {
	value, ok, err := a.store.GetItem(apiclient.TokenKey)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if !ok || value == "" {
		fmt.Fprintln(a.out, "no token stored")
		return nil
	}
	fmt.Fprintln(a.out, value)
	if entry, err := token.Parse(value); err == nil {
		fmt.Fprintf(a.out, "user id: %d\n", entry.UserID)
	}
	return nil
}

// ClearToken removes the stored token.
func (a *App) ClearToken() error {
	if err := a.store.RemoveItem(apiclient.TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (a *App) printResponse(resp httpclient.Response) {
	fmt.Fprintln(a.out, resp.Status())
	if body := resp.Body(); len(body) > 0 {
		a.out.Write(body)
		if body[len(body)-1] != '\n' {
			fmt.Fprintln(a.out)
		}
	}
}

func (a *App) logOutcome(d *apiclient.Deferred, resp httpclient.Response, err error, elapsed time.Duration) {
	meta := map[string]any{
		"method":     d.Method(),
		"url":        d.URL(),
		"elapsed_ms": elapsed.Milliseconds(),
	}
	if resp != nil {
		meta["status"] = resp.StatusCode()
	}
	if err != nil {
		meta["error"] = err.Error()
		a.log.WarnObj("request failed", "request", meta)
		return
	}
	a.log.InfoObj("request completed", "request", meta)
}

// parseBody turns a CLI body argument into a request body. "@path" reads the
// file; anything else is taken literally. The result must be valid JSON.
func parseBody(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	raw := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		raw = data
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
