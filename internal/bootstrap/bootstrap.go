// Package bootstrap builds the post source and optional Redis client from
// configuration. It is shared by the server and blogctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gogotex/blog/internal/config"
	"github.com/gogotex/blog/internal/database"
	"github.com/gogotex/blog/internal/post/cache"
	"github.com/gogotex/blog/internal/post/repository"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/internal/post/source"
	"github.com/gogotex/blog/internal/search"
	"github.com/gogotex/blog/internal/site"
	"github.com/gogotex/blog/internal/storage"
	"github.com/gogotex/blog/pkg/logger"
)

const mongoConnectAttempts = 5

// Source is an opened post source.
type Source struct {
	Loader source.Loader
	// Dir is set for directory sources and is what the watcher follows.
	Dir string
	// Saver is set for remote sources that blogctl push can write to.
	Saver source.Saver

	client *mongo.Client
}

// Close releases connections held by the source.
func (s *Source) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}

// OpenSource connects the backend named by cfg.Posts.Source.
func OpenSource(ctx context.Context, cfg *config.Config) (*Source, error) {
	switch cfg.Posts.Source {
	case config.SourceDir:
		d := source.NewOSDir(cfg.Posts.Dir)
		return &Source{Loader: d, Dir: d.Path()}, nil
	case config.SourceMinIO:
		st, err := storage.NewMinIOStorage(&cfg.MinIO)
		if err != nil {
			return nil, err
		}
		logger.Infof("reading posts from minio bucket %s prefix %q", st.Bucket(), cfg.Posts.Prefix)
		m := source.NewMinIO(st, cfg.Posts.Prefix)
		return &Source{Loader: m, Saver: m}, nil
	case config.SourceMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
		if err != nil {
			return nil, err
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		m := source.NewMongo(col)
		logger.Infof("reading posts from mongo collection %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		return &Source{Loader: m, Saver: m, client: client}, nil
	}
	return nil, fmt.Errorf("unknown posts source %q", cfg.Posts.Source)
}

// OpenRedis returns a connected client, or nil when Redis is not configured
// or not reachable.
func OpenRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis: %s", cfg.Redis.Addr())
	return client
}

// NewService wires a repository over src into a Service. The render cache is
// used when client is non-nil.
func NewService(cfg *config.Config, src source.Loader, client *redis.Client) service.Service {
	opts := service.Options{Search: search.Options{Threshold: cfg.Search.Threshold, Limit: cfg.Search.Limit}}
	if client != nil {
		opts.Cache = cache.NewRedisCache(client, "", cfg.Redis.RenderCacheTTL)
	}
	return service.New(repository.New(src), opts)
}

// SiteMeta is the page metadata from cfg.Site.
func SiteMeta(cfg *config.Config) site.Meta {
	return site.Meta{Title: cfg.Site.Title, Description: cfg.Site.Description, Home: "/"}
}
