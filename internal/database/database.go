package database

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// --- Variables Globales ---
var (
	MongoClient    *mongo.Client
	MongoCatalogDB *mongo.Database // products, variants, options, categories, brands, suppliers, platforms, inventories, reviews
	MongoUsersDB   *mongo.Database // users, payment_methods, favorites
	MongoOrdersDB  *mongo.Database // orders, order_items, carts, cart_items, coupons, coupon_usages, refunds

	Redis       *redis.Client
	RedisClient *redis.Client // Alias pour compatibilité

	AuditSession *gocql.Session // ScyllaDB, journal d'activité append-only

	Elastic       *elasticsearch.Client
	ElasticClient *elasticsearch.Client // Alias pour compatibilité

	MinIO *minio.Client
)

// ConnectDatabases initialise toutes les connexions. Fatal si MongoDB ou
// Redis sont indisponibles; Scylla/Elastic/MinIO sont optionnels en dev.
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connectMongo(ctx)
	connectRedis(ctx)
	connectScyllaAudit()
	connectElastic()
	connectMinIO(ctx)

	log.Println("✅ Toutes les bases de données sont connectées")
}

// =============================================
// MONGODB (store principal, transactions multi-documents)
// =============================================
func connectMongo(ctx context.Context) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		log.Fatal("❌ Erreur connexion MongoDB:", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal("❌ MongoDB injoignable:", err)
	}

	MongoClient = client
	MongoCatalogDB = client.Database(envOr("MONGO_DB_CATALOG", "zyvo_catalog"))
	MongoUsersDB = client.Database(envOr("MONGO_DB_USERS", "zyvo_users"))
	MongoOrdersDB = client.Database(envOr("MONGO_DB_ORDERS", "zyvo_orders"))

	log.Println("✅ Connecté à MongoDB")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// =============================================
// REDIS (caches, rate limiting, pub/sub commandes)
// =============================================
func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	RedisClient = Redis // Alias pour compatibilité

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")
}

// =============================================
// SCYLLA DB (journal d'audit uniquement)
// =============================================
func connectScyllaAudit() {
	hostsEnv := os.Getenv("SCYLLA_HOSTS")
	keyspace := os.Getenv("SCYLLA_KS_AUDIT_KEYSPACE")
	if hostsEnv == "" || keyspace == "" {
		log.Println("⚠️ ScyllaDB non configuré — journal d'audit désactivé")
		return
	}

	cluster := gocql.NewCluster(strings.Split(hostsEnv, ",")...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 10
	cluster.ReconnectInterval = 1 * time.Second
	cluster.Authenticator = gocql.PasswordAuthenticator{
		Username: os.Getenv("SCYLLA_KS_AUDIT_ROLE"),
		Password: os.Getenv("SCYLLA_KS_AUDIT_PASSWORD"),
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		// L'audit est fire-and-forget: on ne bloque pas le démarrage
		log.Printf("⚠️ Erreur connexion ScyllaDB audit: %v", err)
		return
	}

	AuditSession = session
	log.Printf("✅ Session ScyllaDB audit prête (keyspace '%s')", keyspace)
}

// CloseScylla ferme la session d'audit.
func CloseScylla() {
	if AuditSession != nil {
		AuditSession.Close()
		log.Println("🔌 Session ScyllaDB audit fermée")
	}
}

// =============================================
// ELASTICSEARCH (recherche produits)
// =============================================
func connectElastic() {
	if os.Getenv("ELASTIC_URL") == "" {
		log.Println("⚠️ Elasticsearch non configuré — recherche en fallback MongoDB")
		return
	}

	cfg := elasticsearch.Config{
		Addresses: []string{os.Getenv("ELASTIC_URL")},
		Username:  os.Getenv("ELASTIC_USER"),
		Password:  os.Getenv("ELASTIC_PASSWORD"),
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatal("❌ Erreur création client Elasticsearch:", err)
	}

	res, err := client.Info()
	if err != nil {
		log.Fatal("❌ Erreur connexion Elasticsearch:", err)
	}
	defer res.Body.Close()

	Elastic = client
	ElasticClient = client // Alias pour compatibilité
	log.Println("✅ Connecté à Elasticsearch")
}

// =============================================
// MINIO (images produits)
// =============================================
func connectMinIO(ctx context.Context) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		log.Println("⚠️ MinIO non configuré — upload d'images désactivé")
		return
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatal("❌ Erreur connexion MinIO:", err)
	}

	bucketName := os.Getenv("MINIO_BUCKET")
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("❌ Erreur vérification bucket MinIO:", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("❌ Erreur création bucket MinIO:", err)
		}
		log.Println("🪣 Bucket créé :", bucketName)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", bucketName)
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", endpoint)
}
