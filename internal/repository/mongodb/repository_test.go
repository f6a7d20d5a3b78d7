package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/shopreports/internal/config"
	"github.com/mamadbah2/shopreports/internal/domain/models"
)

func TestBuildOrderFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildOrderFilter(models.OrderQuery{}))
}

func TestBuildOrderFilterDateRange(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC)

	filter := buildOrderFilter(models.OrderQuery{From: from, To: to})

	alternatives, ok := filter["$or"].(bson.A)
	require.True(t, ok, "expected a top-level $or, got %v", filter)
	require.Len(t, alternatives, 4)

	dateRange := bson.M{"$gte": from, "$lte": to}
	assert.Equal(t, bson.M{"fecha": dateRange}, alternatives[0])
	assert.Equal(t, bson.M{"createdAt": dateRange}, alternatives[1])
}

// An order whose fecha is a legacy string must pass even when createdAt is a
// BSON date outside the range, because fecha wins when the order is read.
func TestBuildOrderFilterLegacyFechaIgnoresCreatedAt(t *testing.T) {
	filter := buildOrderFilter(models.OrderQuery{
		From: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
	})

	alternatives := filter["$or"].(bson.A)
	notDate := bson.M{"$not": bson.M{"$type": "date"}}

	assert.Contains(t, alternatives, bson.M{"fecha": bson.M{"$exists": true, "$not": bson.M{"$type": "date"}}})
	assert.Contains(t, alternatives, bson.M{"fecha": bson.M{"$exists": false}, "createdAt": notDate})
	for _, alt := range alternatives {
		clause := alt.(bson.M)
		if _, ok := clause["fecha"]; ok {
			assert.NotContains(t, clause, "createdAt", "a fecha clause must not also constrain createdAt: %v", clause)
		}
	}
}

func TestBuildOrderFilterOpenEndedRange(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	filter := buildOrderFilter(models.OrderQuery{From: from})

	alternatives := filter["$or"].(bson.A)
	assert.Equal(t, bson.M{"fecha": bson.M{"$gte": from}}, alternatives[0])
}

func TestBuildOrderFilterStatus(t *testing.T) {
	filter := buildOrderFilter(models.OrderQuery{Status: " en camino (2) "})

	pattern := primitive.Regex{Pattern: `^\s*en camino \(2\)\s*$`, Options: "i"}
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"estado": pattern},
		bson.M{"status": pattern},
	}}, filter)
}

func TestBuildOrderFilterCombined(t *testing.T) {
	filter := buildOrderFilter(models.OrderQuery{
		From:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Status: "entregado",
	})

	clauses, ok := filter["$and"].(bson.A)
	require.True(t, ok)
	assert.Len(t, clauses, 2)
}

func TestListLimit(t *testing.T) {
	assert.Equal(t, 20, listLimit(0))
	assert.Equal(t, 20, listLimit(-5))
	assert.Equal(t, 7, listLimit(7))
	assert.Equal(t, 100, listLimit(1000))
}

func TestCollectionFor(t *testing.T) {
	assert.Equal(t, "reports", collectionFor(models.KindReport))
	assert.Equal(t, "projections", collectionFor(models.KindProjection))
	assert.Equal(t, "reports", collectionFor(""))
}

// TestRepositoryRoundTrip runs against a real server when MONGODB_TEST_URI is set.
func TestRepositoryRoundTrip(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := "shopreports_test_" + primitive.NewObjectID().Hex()
	repo, err := NewMongoDBRepository(ctx, config.MongoDBConfig{
		URI:            uri,
		DBName:         dbName,
		ConnectRetries: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.db.Drop(context.Background())
		_ = repo.Close(context.Background())
	})

	inRange := time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC)
	_, err = repo.db.Collection(ordersCollection).InsertMany(ctx, []interface{}{
		bson.M{"fecha": inRange, "estado": "Entregado", "total": 10},
		bson.M{"fecha": inRange.AddDate(0, -2, 0), "estado": "entregado", "total": 20},
		bson.M{"fecha": "05/10/2026", "estado": "ENTREGADO", "total": 30},
		bson.M{"createdAt": inRange, "status": "pendiente", "total": 40},
		bson.M{"fecha": "2026-10-05", "createdAt": inRange.AddDate(0, -2, 0), "estado": " Entregado ", "total": 50},
	})
	require.NoError(t, err)

	docs, err := repo.FindOrders(ctx, models.OrderQuery{
		From:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		Status: "entregado",
	})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	report := &models.Report{Kind: models.KindProjection, Name: "p", Type: models.ReportFinancial, Payload: bson.M{"k": 1}}
	require.NoError(t, repo.SaveReport(ctx, report))
	assert.False(t, report.ID.IsZero())

	listed, err := repo.ListReports(ctx, models.ReportQuery{Kind: models.KindProjection})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "p", listed[0].Name)
	assert.Equal(t, models.KindProjection, listed[0].Kind)

	reports, err := repo.ListReports(ctx, models.ReportQuery{Kind: models.KindReport})
	require.NoError(t, err)
	assert.Empty(t, reports)
}
