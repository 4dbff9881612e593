package mongodb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/dragonrex/sdash/lib/db"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const label = "MongoDB"

// Update operation tokens. Update requires args[0] to be one of these and
// args[1] to be a serialized document; remaining args form the filter for
// OpUpdate and OpDelete.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

var errNotConnected = errors.New("processor is not connected")

// --------------------------------------------------------------------------
// Document Store Processor
// --------------------------------------------------------------------------

// processor implements the db.Processor contract against MongoDB. Query
// targets name a collection, with positional "field:value" equality filter
// tokens ANDed together.
type processor struct {
	handle *db.Handle
	dbName string

	client   *mongo.Client
	database *mongo.Database
}

// New creates the document-store processor for the given handle and logical
// database name.
func New(handle *db.Handle, database string) db.Processor {
	return &processor{handle: handle, dbName: database}
}

// Connect creates the client and probes liveness by listing collection
// names, bounded by the handle's connect timeout.
func (p *processor) Connect() error {
	opts := options.Client().
		ApplyURI(p.handle.URL).
		SetConnectTimeout(p.handle.Pool.ConnectTimeout).
		SetServerSelectionTimeout(p.handle.Pool.ConnectTimeout).
		SetMaxPoolSize(uint64(p.handle.Pool.MaxSize))
	if p.handle.Username != "" {
		opts.SetAuth(options.Credential{Username: p.handle.Username, Password: p.handle.Password})
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.handle.Pool.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return db.NewConnectionError(label, err)
	}

	database := client.Database(p.dbName)
	if _, err := database.ListCollectionNames(ctx, bson.D{}); err != nil {
		_ = client.Disconnect(context.Background())
		return db.NewConnectionError(label, fmt.Errorf("database %s: %w", p.dbName, err))
	}

	p.client = client
	p.database = database
	log.WithField("backend", label).Info("database connection established")
	return nil
}

// Disconnect closes the client. Calling it on a never-connected processor
// is a no-op.
func (p *processor) Disconnect() error {
	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(context.Background())
	p.client = nil
	p.database = nil
	if err != nil {
		return db.NewConnectionError(label, err)
	}
	log.WithField("backend", label).Info("database connection closed")
	return nil
}

// Query finds all documents in the target collection matching the ANDed
// "field:value" filter tokens and buffers them into a cursor.
func (p *processor) Query(target string, args ...any) (*db.Result, error) {
	if p.database == nil {
		return nil, db.NewQueryError(label, errNotConnected)
	}
	metrics.GetOrCreateCounter(`sdash_db_queries_total{backend="MongoDB"}`).Inc()

	ctx := context.Background()
	cursor, err := p.database.Collection(target).Find(ctx, parseFilters(args, 0))
	if err != nil {
		metrics.GetOrCreateCounter(`sdash_db_query_failures_total{backend="MongoDB"}`).Inc()
		return nil, db.NewQueryError(label, fmt.Errorf("collection %s: %w", target, err))
	}

	var documents []bson.M
	if err := cursor.All(ctx, &documents); err != nil {
		metrics.GetOrCreateCounter(`sdash_db_query_failures_total{backend="MongoDB"}`).Inc()
		return nil, db.NewQueryError(label, fmt.Errorf("collection %s: %w", target, err))
	}

	rows := make([]db.Row, 0, len(documents))
	for _, document := range documents {
		row := db.Row{}
		for key, value := range document {
			row[key] = value
		}
		rows = append(rows, row)
	}
	return db.NewResult(rows), nil
}

// Update executes one INSERT, UPDATE or DELETE against the target
// collection. args[0] selects the operation, args[1] carries the document
// as extended JSON and the remaining args form the filter for UPDATE and
// DELETE. The result row reports per-operation counters.
func (p *processor) Update(target string, args ...any) (*db.Result, error) {
	if p.database == nil {
		return nil, db.NewUpdateError(label, errNotConnected)
	}
	metrics.GetOrCreateCounter(`sdash_db_updates_total{backend="MongoDB"}`).Inc()

	result, err := p.update(target, args...)
	if err != nil {
		metrics.GetOrCreateCounter(`sdash_db_update_failures_total{backend="MongoDB"}`).Inc()
		return nil, db.NewUpdateError(label, fmt.Errorf("collection %s: %w", target, err))
	}
	return result, nil
}

func (p *processor) update(target string, args ...any) (*db.Result, error) {
	if len(args) < 2 {
		return nil, errors.New("document update requires operation and document arguments")
	}

	operation := strings.ToUpper(fmt.Sprint(args[0]))
	var document bson.M
	if err := bson.UnmarshalExtJSON([]byte(fmt.Sprint(args[1])), true, &document); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	ctx := context.Background()
	collection := p.database.Collection(target)
	row := db.Row{}

	switch operation {
	case OpInsert:
		res, err := collection.InsertOne(ctx, document)
		if err != nil {
			return nil, err
		}
		row["insertedId"] = fmt.Sprint(res.InsertedID)
		row["acknowledged"] = true

	case OpUpdate:
		res, err := collection.UpdateOne(ctx, parseFilters(args, 2), asUpdateDocument(document))
		if err != nil {
			return nil, err
		}
		row["matchedCount"] = res.MatchedCount
		row["modifiedCount"] = res.ModifiedCount
		row["acknowledged"] = true

	case OpDelete:
		res, err := collection.DeleteOne(ctx, parseFilters(args, 2))
		if err != nil {
			return nil, err
		}
		row["deletedCount"] = res.DeletedCount
		row["acknowledged"] = true

	default:
		return nil, fmt.Errorf("unsupported document operation: %s", operation)
	}

	return db.NewResult([]db.Row{row}), nil
}

// Conn always returns nil; there is no relational pool behind the document
// store.
func (p *processor) Conn() *sql.DB {
	return nil
}

// Name returns the backend label.
func (p *processor) Name() string {
	return label
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// parseFilters converts positional "field:value" tokens (starting at the
// given offset) into an ANDed equality filter. Tokens without a colon are
// ignored.
func parseFilters(args []any, offset int) bson.D {
	filter := bson.D{}
	for i := offset; i < len(args); i++ {
		parts := strings.SplitN(fmt.Sprint(args[i]), ":", 2)
		if len(parts) == 2 {
			filter = append(filter, bson.E{Key: parts[0], Value: parts[1]})
		}
	}
	return filter
}

// asUpdateDocument wraps a plain document in $set so callers can pass
// either replacement fields or an explicit update-operator document.
func asUpdateDocument(document bson.M) bson.M {
	for key := range document {
		if strings.HasPrefix(key, "$") {
			return document
		}
	}
	return bson.M{"$set": document}
}
