// Command seeder loads a small sample corpus through the post service so the
// graph endpoints have something to connect.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/curio-social/semgraph/internal/config"
	dbRedis "github.com/curio-social/semgraph/internal/db/redis"
	logpkg "github.com/curio-social/semgraph/internal/logger"
	"github.com/curio-social/semgraph/internal/metrics"
	"github.com/curio-social/semgraph/internal/repository/embcache"
	postrepo "github.com/curio-social/semgraph/internal/repository/post"
	searchrepo "github.com/curio-social/semgraph/internal/repository/search"
	openaiTransport "github.com/curio-social/semgraph/internal/transport/openai"
	postuc "github.com/curio-social/semgraph/internal/usecase/post"
)

type seedPost struct {
	title    string
	content  string
	authorID string
}

var samples = []seedPost{
	{
		title:    "Getting started with vector search",
		content:  "Vector search finds semantically similar content by comparing embeddings instead of keywords.",
		authorID: "seed",
	},
	{
		title:    "HNSW indexes explained",
		content:  "Hierarchical navigable small world graphs trade exactness for sub-millisecond nearest neighbor lookups.",
		authorID: "seed",
	},
	{
		title:    "Cosine similarity in practice",
		content:  "Cosine similarity measures the angle between two embedding vectors, ignoring their magnitude.",
		authorID: "seed",
	},
	{
		title:    "Sourdough starter maintenance",
		content:  "Feed the starter twice a day with equal parts flour and water, keeping it at room temperature.",
		authorID: "seed",
	},
	{
		title:    "Espresso grind size",
		content:  "A finer grind slows extraction; adjust in small steps until a double shot pulls in about 28 seconds.",
		authorID: "seed",
	},
}

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterProviderMetrics()

	base, err := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Profile: cfg.Embedding.Profile,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	ttl := time.Duration(cfg.Embedding.CacheTTLHours) * time.Hour
	embedder := embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)

	if err := searchrepo.EnsureIndex(ctx, store, base.Dimensions(), searchrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}); err != nil {
		logger.Warn("Vector index unavailable, posts will only serve the scan path", zap.Error(err))
	}

	svc := postuc.New(postrepo.New(store), embedder, logger)

	for _, sample := range samples {
		p, err := svc.Create(ctx, sample.title, sample.content, "", sample.authorID)
		if err != nil {
			logger.Error("Failed to seed post", zap.String("title", sample.title), zap.Error(err))
			continue
		}
		logger.Info("Seeded post",
			zap.String("id", p.ID()),
			zap.String("title", p.Title()),
			zap.Bool("embedded", p.HasEmbedding()),
		)
	}

	logger.Info("Seeding complete", zap.Int("posts", len(samples)))
}
