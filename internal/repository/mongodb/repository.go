package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopreports/internal/config"
	"github.com/mamadbah2/shopreports/internal/domain/models"
)

const (
	ordersCollection      = "orders"
	productsCollection    = "products"
	usersCollection       = "users"
	reportsCollection     = "reports"
	projectionsCollection = "projections"

	defaultListLimit = 20
	maxListLimit     = 100
)

// MongoDBRepository reads orders, products and users and stores generated
// reports in MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB, retrying a bounded number of times
// before giving up.
func NewMongoDBRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := connect(ctx, clientOptions)
		if err == nil {
			logger.Info("connected to mongodb", zap.String("db", cfg.DBName), zap.Int("attempt", attempt))
			return &MongoDBRepository{
				client: client,
				db:     client.Database(cfg.DBName),
				logger: logger,
			}, nil
		}

		lastErr = err
		logger.Warn("mongodb connection attempt failed", zap.Int("attempt", attempt), zap.Int("max_attempts", attempts), zap.Error(err))
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to mongodb: %w", ctx.Err())
		case <-time.After(cfg.RetryDelay):
		}
	}

	return nil, fmt.Errorf("connect to mongodb after %d attempts: %w", attempts, lastErr)
}

func connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// FindOrders returns the raw order documents matching query.
func (r *MongoDBRepository) FindOrders(ctx context.Context, query models.OrderQuery) ([]models.Document, error) {
	return r.findAll(ctx, ordersCollection, buildOrderFilter(query), nil)
}

// FindProducts returns the raw product documents.
func (r *MongoDBRepository) FindProducts(ctx context.Context) ([]models.Document, error) {
	projection := bson.M{"nombre": 1, "name": 1, "categoria": 1, "category": 1, "precio": 1, "price": 1}
	return r.findAll(ctx, productsCollection, bson.M{}, projection)
}

// FindUsers returns the raw user documents, limited to identity fields.
func (r *MongoDBRepository) FindUsers(ctx context.Context) ([]models.Document, error) {
	projection := bson.M{"nombre": 1, "name": 1, "email": 1, "correo": 1}
	return r.findAll(ctx, usersCollection, bson.M{}, projection)
}

func (r *MongoDBRepository) findAll(ctx context.Context, collection string, filter bson.M, projection bson.M) ([]models.Document, error) {
	opts := options.Find()
	if projection != nil {
		opts.SetProjection(projection)
	}

	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}

	docs := make([]models.Document, 0, len(raw))
	for _, doc := range raw {
		docs = append(docs, models.Document(doc))
	}

	r.logger.Debug("collection scanned", zap.String("collection", collection), zap.Int("documents", len(docs)))
	return docs, nil
}

// buildOrderFilter pushes the date range and status down to MongoDB. The
// result only narrows: any order the in-memory filters could accept must
// match. The date is read from fecha first and createdAt second, so an order
// whose effective date is not a BSON date (legacy strings, epoch numbers,
// other aliases) is let through.
func buildOrderFilter(query models.OrderQuery) bson.M {
	var clauses bson.A

	if !query.From.IsZero() || !query.To.IsZero() {
		dateRange := bson.M{}
		if !query.From.IsZero() {
			dateRange["$gte"] = query.From
		}
		if !query.To.IsZero() {
			dateRange["$lte"] = query.To
		}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"fecha": dateRange},
			bson.M{"createdAt": dateRange},
			bson.M{"fecha": bson.M{"$exists": true, "$not": bson.M{"$type": "date"}}},
			bson.M{
				"fecha":     bson.M{"$exists": false},
				"createdAt": bson.M{"$not": bson.M{"$type": "date"}},
			},
		}})
	}

	if query.Status != "" {
		pattern := primitive.Regex{Pattern: `^\s*` + regexp.QuoteMeta(strings.TrimSpace(query.Status)) + `\s*$`, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"estado": pattern},
			bson.M{"status": pattern},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	default:
		return bson.M{"$and": clauses}
	}
}

// SaveReport inserts a report or projection record and assigns its id.
func (r *MongoDBRepository) SaveReport(ctx context.Context, report *models.Report) error {
	if report == nil {
		return fmt.Errorf("report must not be nil")
	}
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	if report.UpdatedAt.IsZero() {
		report.UpdatedAt = report.CreatedAt
	}

	collection := collectionFor(report.Kind)
	if _, err := r.db.Collection(collection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert %s: %w", collection, err)
	}
	return nil
}

// ListReports returns saved records newest first.
func (r *MongoDBRepository) ListReports(ctx context.Context, query models.ReportQuery) ([]models.Report, error) {
	filter := bson.M{}
	if query.Type != "" {
		filter["type"] = query.Type
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(listLimit(query.Limit)))

	collection := collectionFor(query.Kind)
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	for i := range reports {
		reports[i].Kind = query.Kind
	}
	return reports, nil
}

func collectionFor(kind models.ReportKind) string {
	if kind == models.KindProjection {
		return projectionsCollection
	}
	return reportsCollection
}

func listLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
