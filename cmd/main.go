package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"

	"github.com/DangKhoi2208/imago-core/config"
	grpc_adapter "github.com/DangKhoi2208/imago-core/internal/adapters/primary/grpc"
	"github.com/DangKhoi2208/imago-core/internal/adapters/primary/rest"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/cache"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/eventbroker"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/graph"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/mongo"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/postgres"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/security"
	"github.com/DangKhoi2208/imago-core/internal/core/interop"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
	"github.com/DangKhoi2208/imago-core/internal/core/services"
	"github.com/DangKhoi2208/imago-core/pkg/logger"
	"github.com/DangKhoi2208/imago-core/pkg/telemetry"
)

type repositories struct {
	profiles ports.ProfileRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
}

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Env)
	slog.Info("🚀 Starting service", "service", cfg.ServiceName, "env", cfg.Env,
		"storage", cfg.StorageDriver, "auth", cfg.AuthProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing
	if cfg.OtelEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OtelEndpoint)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					slog.Error("Error shutting down tracer", "error", err)
				}
			}()
		}
	}

	// 3. Storage
	repos, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		slog.Error("Storage init failed", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	// 4. Optional infrastructure: cache, graph projection, events
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		repos.profiles = cache.NewProfileCache(repos.profiles, rdb, cfg.ProfileCacheTTL)
	}

	var followGraph ports.FollowGraph
	if cfg.Neo4jURI != "" {
		driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			slog.Error("Unable to connect to Neo4j", "error", err)
			os.Exit(1)
		}
		defer driver.Close(context.Background())
		g := graph.NewNeo4jGraph(driver)
		if err := g.EnsureSchema(ctx); err != nil {
			slog.Warn("Neo4j schema setup failed", "error", err)
		}
		followGraph = g
	}

	var publisher ports.EventPublisher
	if cfg.NatsUrl != "" {
		nc, err := nats.Connect(cfg.NatsUrl)
		if err != nil {
			slog.Error("Unable to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		broker, err := eventbroker.NewNatsBroker(ctx, nc)
		if err != nil {
			slog.Error("Failed to init JetStream", "error", err)
			os.Exit(1)
		}
		publisher = broker
		slog.Info("✅ NATS JetStream connected")
	}

	// 5. Security
	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init token verifier", "error", err)
		os.Exit(1)
	}

	// 6. Core
	profileService := services.NewProfileService(repos.profiles)
	postService := services.NewPostService(repos.posts)
	commentService := services.NewCommentService(repos.comments, repos.posts)

	handler := rest.NewHandler(
		interop.NewProfileInterop(profileService, verifier, publisher, followGraph),
		interop.NewPostInterop(postService, verifier, publisher),
		interop.NewCommentInterop(commentService, verifier, publisher),
	)

	// 7. Primary adapters
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           rest.Wrap(rest.NewRouter(handler), cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc_adapter.NewServer()
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		slog.Error("Failed to listen", "port", cfg.GRPCPort, "error", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("📡 HTTP listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()
	go func() {
		slog.Info("📡 gRPC health listening", "address", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server error", "error", err)
			os.Exit(1)
		}
	}()
	grpcServer.SetServing()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	slog.Info("⚠️  Signal received, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced to shutdown", "error", err)
	}
	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		slog.Warn("⏳ Timeout reached, gRPC server not drained")
	}

	slog.Info("👋 Service stopped")
}

// --- HELPERS ---

// openStorage builds the repositories of the configured driver. The returned
// func releases the underlying connections.
func openStorage(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, cfg.DBUrl)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return repositories{}, nil, err
		}
		return repositories{
			profiles: postgres.NewProfileRepo(pool),
			posts:    postgres.NewPostRepo(pool),
			comments: postgres.NewCommentRepo(pool),
		}, pool.Close, nil

	case config.StorageMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return repositories{}, nil, err
		}
		db := client.Database(cfg.MongoDB)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return repositories{}, nil, err
		}
		comments := mongo.NewCommentRepo(db)
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return repositories{
			profiles: mongo.NewProfileRepo(client, db),
			posts:    mongo.NewPostRepo(db, comments),
			comments: comments,
		}, closeFn, nil

	default:
		slog.Warn("Using in-memory storage, data is lost on restart")
		comments := memory.NewCommentRepo()
		return repositories{
			profiles: memory.NewProfileRepo(),
			posts:    memory.NewPostRepo(comments),
			comments: comments,
		}, func() {}, nil
	}
}

func newVerifier(ctx context.Context, cfg *config.Config) (ports.TokenVerifier, error) {
	if cfg.AuthProvider == config.AuthFirebase {
		return security.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	}
	return security.NewJWTVerifierFromFile(cfg.JWTPublicKeyPath, cfg.JWTIssuer)
}
