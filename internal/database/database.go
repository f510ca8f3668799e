package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"feira_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Clients reúne as conexões com os serviços de apoio.
// Elastic e MinIO são opcionais: nil quando não configurados.
type Clients struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// --- Inicialização ---
func ConnectDatabases(cfg config.Config) *Clients {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := &Clients{}

	// 1. ScyllaDB
	session, err := ConnectScylla(cfg)
	if err != nil {
		log.Fatalf("❌ Falha ao inicializar ScyllaDB: %v", err)
	}
	c.Scylla = session

	// 2. Redis
	c.Redis, err = ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatal("❌ Erro de conexão com Redis:", err)
	}
	log.Println("✅ Conectado ao Redis")

	// 3. Elasticsearch
	if cfg.ElasticURL != "" {
		c.Elastic, err = ConnectElastic(cfg)
		if err != nil {
			log.Println("⚠️ Elasticsearch indisponível, busca cai no ScyllaDB:", err)
		} else {
			log.Println("✅ Conectado ao Elasticsearch")
		}
	}

	// 4. MinIO
	if cfg.MinioEndpoint != "" {
		c.MinIO, err = ConnectMinIO(ctx, cfg)
		if err != nil {
			log.Println("⚠️ MinIO indisponível, upload de imagens desativado:", err)
		} else {
			log.Println("✅ Conectado ao MinIO:", cfg.MinioEndpoint)
		}
	}

	log.Println("✅ Bancos de dados conectados")
	return c
}

func (c *Clients) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Sessão ScyllaDB encerrada")
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

// =============================================
// SCYLLA DB
// =============================================

func ConnectScylla(cfg config.Config) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 10
	cluster.ReconnectInterval = 1 * time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	if cfg.ScyllaUser != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUser,
			Password: cfg.ScyllaPassword,
		}
	}

	// Sessão sem keyspace só para garantir o schema
	boot, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erro criando sessão: %w", err)
	}
	err = EnsureSchema(boot, cfg.ScyllaKeyspace)
	boot.Close()
	if err != nil {
		return nil, err
	}

	cluster.Keyspace = cfg.ScyllaKeyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erro criando sessão para %s: %w", cfg.ScyllaKeyspace, err)
	}
	log.Printf("✅ Sessão ScyllaDB aberta no keyspace '%s'", cfg.ScyllaKeyspace)
	return session, nil
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func ConnectElastic(cfg config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic respondeu %s", res.Status())
	}
	return client, nil
}

// =============================================
// MINIO
// =============================================

func ConnectMinIO(ctx context.Context, cfg config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("verificação do bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("criação do bucket: %w", err)
		}
		log.Println("🪣 Bucket criado:", cfg.MinioBucket)
	}

	// Leitura anônima: as URLs de imagem vão direto para o app
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, cfg.MinioBucket)
	if err := client.SetBucketPolicy(ctx, cfg.MinioBucket, policy); err != nil {
		log.Println("⚠️ Política pública do bucket não aplicada:", err)
	}
	return client, nil
}
