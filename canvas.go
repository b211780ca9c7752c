package canvas

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petrijr/canvas/internal/persistence"
	"github.com/petrijr/canvas/internal/workflow"
	"github.com/petrijr/canvas/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Step                 = api.Step
	StepKind             = api.StepKind
	InputProvider        = api.InputProvider
	PromptFunc           = api.PromptFunc
	CannedInput          = api.CannedInput
	CancelInput          = api.CancelInput
	IndexError           = api.IndexError
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	ByteStore  = persistence.ByteStore
	Codec      = workflow.Codec
	IDSource   = workflow.IDSource
	LengthIDs  = workflow.LengthIDs
	CounterIDs = workflow.CounterIDs
)

// Re-export step kinds.

const (
	KindGetData            = api.KindGetData
	KindCreateUpdateData   = api.KindCreateUpdateData
	KindPerformCalculation = api.KindPerformCalculation
	KindIfCondition        = api.KindIfCondition
	KindElseIfCondition    = api.KindElseIfCondition
	KindElseCondition      = api.KindElseCondition
	KindForLoop            = api.KindForLoop
	KindWhileLoop          = api.KindWhileLoop
)

// Re-export errors so callers can use errors.Is without importing pkg/api.

var (
	ErrIndexOutOfRange = api.ErrIndexOutOfRange
	ErrMalformedData   = api.ErrMalformedData
	ErrUnknownKind     = api.ErrUnknownKind
	ErrNotFound        = api.ErrNotFound
)

// Re-export common helpers.

var (
	Kinds                = api.Kinds
	ParseKind            = api.ParseKind
	NewCannedInput       = api.NewCannedInput
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	CodecByName          = workflow.CodecByName
)

// JSONCodec returns the default persistence encoding.
func JSONCodec() Codec { return workflow.JSONCodec{} }

// YAMLCodec returns the YAML encoding used for hand-editable exports.
func YAMLCodec() Codec { return workflow.YAMLCodec{} }

// Byte store constructors
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// NewInMemoryStore returns a non-durable ByteStore, best for tests.
func NewInMemoryStore() ByteStore {
	return persistence.NewInMemoryStore()
}

// NewSQLiteStore returns a ByteStore that keeps workflows in a SQLite
// database. The caller imports the driver (modernc.org/sqlite).
func NewSQLiteStore(db *sql.DB) (ByteStore, error) {
	return persistence.NewSQLiteStore(db)
}

// NewPostgresStore returns a ByteStore that keeps workflows in PostgreSQL.
// The caller imports the driver (github.com/jackc/pgx/v5/stdlib).
func NewPostgresStore(db *sql.DB) (ByteStore, error) {
	return persistence.NewPostgresStore(db)
}

// NewRedisStore returns a ByteStore that keeps workflows in Redis under
// prefix ("canvas:" when empty).
func NewRedisStore(client *redis.Client, prefix string) ByteStore {
	return persistence.NewRedisStore(client, prefix)
}

// NewMongoStore returns a ByteStore that keeps workflows in a MongoDB
// collection.
func NewMongoStore(client *mongo.Client, dbName, collName string) ByteStore {
	return persistence.NewMongoStore(client, dbName, collName)
}

// NewCachedStore wraps next with an in-memory read-through cache.
func NewCachedStore(next ByteStore, ttl time.Duration) ByteStore {
	return persistence.NewCachedStore(next, ttl)
}
