package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderbuilder/internal/builder"
	"orderbuilder/internal/client"
	"orderbuilder/internal/config"
	"orderbuilder/internal/logging"
	"orderbuilder/internal/models"
	"orderbuilder/internal/monitoring"
	"orderbuilder/internal/selectors"
	"orderbuilder/internal/store"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	apiURL      = flag.String("api", "", "Backend base URL (overrides config)")
	frameID     = flag.String("frame", "", "Catalog id of the frame")
	fillingIDs  = flag.String("fillings", "", "Comma-separated catalog ids of the fillings, in order")
	moves       = flag.String("move", "", "Comma-separated moves applied after adding fillings, e.g. 2:up,0:down")
	filter      = flag.String("filter", "", "Only list catalog items matching this expression")
	orderFilter = flag.String("orders", "", "Only list feed orders matching this expression")
	submit      = flag.Bool("submit", true, "Submit the order once built")
	watch       = flag.Duration("watch", 0, "Follow the live feed for this long after submitting")
	metricsAddr = flag.String("metrics-addr", "", "Serve builder metrics on this address while running")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Failed to load configuration: "+err.Error()))
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.Client.BaseURL = *apiURL
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Failed to initialize logger: "+err.Error()))
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv(), nil
	}
	return config.Load(path)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	api := client.New(cfg.Client.BaseURL, client.WithTimeout(cfg.Client.Timeout))
	if err := api.Health(ctx); err != nil {
		return fmt.Errorf("API server at %s is not available: %w", cfg.Client.BaseURL, err)
	}

	metrics := monitoring.NewCollector()
	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, metrics, logger)
		defer srv.Close()
	}

	s := store.New(store.WithLogger(logger), store.WithMetrics(metrics))

	s.LoadCatalog(ctx, api)
	if fe := selectors.CatalogError(s.State()); fe != nil {
		return fmt.Errorf("load catalog: %s", fe.Message)
	}
	if err := printCatalog(os.Stdout, s.State(), *filter); err != nil {
		return err
	}

	if *frameID == "" {
		return nil
	}
	if err := buildOrder(s, *frameID, splitList(*fillingIDs), splitList(*moves)); err != nil {
		return err
	}
	printBuilder(os.Stdout, s.State())

	if *submit {
		confirmation, err := s.SubmitOrder(ctx, api)
		if err != nil {
			return fmt.Errorf("submit order: %w", err)
		}
		fmt.Fprintln(os.Stdout, successStyle.Render(fmt.Sprintf("Order #%d accepted: %s", confirmation.Number, confirmation.Name)))
		s.ResetConfirmation()
	}

	s.LoadFeed(ctx, api)
	if err := printFeed(os.Stdout, s.State(), *orderFilter); err != nil {
		return err
	}

	if *watch > 0 {
		return follow(ctx, s, api, *watch)
	}
	return nil
}

// buildOrder applies the frame, fillings and moves to the store.
func buildOrder(s *store.Store, frame string, fillings, moveArgs []string) error {
	st := s.State()
	item, ok := selectors.CatalogItemByID(st, frame)
	if !ok || item.Category != models.CategoryFrame {
		return fmt.Errorf("%q is not a frame in the catalog", frame)
	}
	s.SetFrame(item)

	for _, id := range fillings {
		item, ok := selectors.CatalogItemByID(st, id)
		if !ok || !item.Category.IsFilling() {
			return fmt.Errorf("%q is not a filling in the catalog", id)
		}
		s.AddFilling(item)
	}

	for _, m := range moveArgs {
		index, dir, err := parseMove(m)
		if err != nil {
			return err
		}
		s.MoveFilling(index, dir)
	}
	return nil
}

func parseMove(move string) (int, builder.Direction, error) {
	idx, dir, ok := strings.Cut(move, ":")
	if !ok {
		return 0, "", fmt.Errorf("move %q must look like index:up or index:down", move)
	}
	var index int
	if _, err := fmt.Sscanf(idx, "%d", &index); err != nil {
		return 0, "", fmt.Errorf("move %q has a bad index: %w", move, err)
	}
	switch builder.Direction(dir) {
	case builder.DirectionUp, builder.DirectionDown:
		return index, builder.Direction(dir), nil
	default:
		return 0, "", fmt.Errorf("move %q has an unknown direction", move)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// follow prints live feed pushes until d elapses or ctx is done.
func follow(ctx context.Context, s *store.Store, api *client.Client, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	unsubscribe := s.Subscribe(func(st selectors.AppState) {
		if snapshot := selectors.FeedSnapshot(st); snapshot != nil {
			fmt.Fprintln(os.Stdout, infoStyle.Render(fmt.Sprintf("Feed: %d orders total, %d today", snapshot.Total, snapshot.TotalToday)))
		}
	})
	defer unsubscribe()

	return api.SubscribeFeed(ctx, func(snapshot models.FeedSnapshot) {
		s.ApplyFeedSnapshot(snapshot)
	})
}

func serveMetrics(addr string, metrics *monitoring.Collector, logger *zap.Logger) *http.Server {
	router := gin.New()
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	return srv
}
