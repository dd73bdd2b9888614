package kvmap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lvstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"go.etcd.io/bbolt"
)

const DefaultBucket = "kv"

var errStorageClosed = errors.New("storage closed")

// Options configures a DB.
type Options struct {
	// Logger receives debug records when Verbose is set. Defaults to
	// slog.Default().
	Logger  *slog.Logger
	Verbose bool

	// IsTesting trades durability for speed.
	IsTesting bool

	// MmapSize overrides bbolt's initial mmap size.
	MmapSize int

	// Bucket is the bbolt bucket holding all keys; DefaultBucket if empty.
	Bucket string

	// Timeout bounds waiting for the bbolt file lock.
	Timeout time.Duration
}

func (opt Options) logger() *slog.Logger {
	if opt.Logger != nil {
		return opt.Logger
	}
	return slog.Default()
}

type backend interface {
	begin(writable bool) (backendTx, error)
	close() error
}

type backendTx interface {
	storage() Storage
	commit() error
	rollback() error
}

// DB runs functions against a Storage inside backend transactions. Writes made
// in a Write callback are committed together or not at all, which is what
// IndexedMap relies on for all-or-nothing index maintenance.
type DB struct {
	be      backend
	engine  string
	logger  *slog.Logger
	verbose bool

	ReadCount  atomic.Uint64
	WriteCount atomic.Uint64
}

// OpenBolt opens (creating if needed) a bbolt file.
func OpenBolt(path string, opt Options) (*DB, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.Timeout != 0 {
		bopt.Timeout = opt.Timeout
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("kvmap: %w", err)
	}
	bucket := opt.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("kvmap: creating bucket %q: %w", bucket, err)
	}
	return newDB(&boltBackend{bdb: bdb, bucket: bucket, logger: opt.logger()}, "bolt", opt), nil
}

// OpenLevelDB opens (creating if needed) a goleveldb directory. An empty path
// opens a transient in-memory leveldb.
func OpenLevelDB(path string, o Options) (*DB, error) {
	lopt := &opt.Options{}
	if o.IsTesting {
		lopt.NoSync = true
	}
	var ldb *leveldb.DB
	var err error
	if path == "" {
		ldb, err = leveldb.Open(lvstorage.NewMemStorage(), lopt)
	} else {
		ldb, err = leveldb.OpenFile(path, lopt)
	}
	if err != nil {
		return nil, fmt.Errorf("kvmap: %w", err)
	}
	return newDB(&levelBackend{ldb: ldb, logger: o.logger()}, "leveldb", o), nil
}

// OpenMemory returns a DB backed by MemStorage with snapshot transactions.
func OpenMemory(opt Options) *DB {
	return newDB(newMemBackend(), "memory", opt)
}

func newDB(be backend, engine string, opt Options) *DB {
	db := &DB{
		be:      be,
		engine:  engine,
		logger:  opt.logger(),
		verbose: opt.Verbose,
	}
	if db.verbose {
		db.logger.LogAttrs(context.Background(), slog.LevelDebug, "kvmap: opened", slog.String("engine", engine))
	}
	return db
}

// Engine names the backend: "bolt", "leveldb" or "memory".
func (db *DB) Engine() string { return db.engine }

func (db *DB) Close() error {
	if db.verbose {
		db.logger.LogAttrs(context.Background(), slog.LevelDebug, "kvmap: closing", slog.String("engine", db.engine))
	}
	return db.be.close()
}

// Read runs f against a read-only snapshot.
func (db *DB) Read(f func(s Storage) error) error {
	db.ReadCount.Add(1)
	return db.run(false, f)
}

// Write runs f inside a writable transaction that is committed if f returns
// nil and rolled back if it returns an error or panics.
func (db *DB) Write(f func(s Storage) error) error {
	db.WriteCount.Add(1)
	return db.run(true, f)
}

func (db *DB) run(writable bool, f func(s Storage) error) error {
	btx, err := db.be.begin(writable)
	if err != nil {
		return fmt.Errorf("kvmap: begin: %w", err)
	}
	tx := &txStorage{inner: btx.storage(), writable: writable, db: db}
	start := time.Now()

	err = safelyCall(f, tx)
	tx.closed = true
	if err != nil || !writable {
		if rerr := btx.rollback(); rerr != nil && err == nil {
			err = rerr
		}
		db.logTx(writable, start, tx, err)
		return err
	}
	if err := btx.commit(); err != nil {
		_ = btx.rollback()
		err = fmt.Errorf("kvmap: commit: %w", err)
		db.logTx(writable, start, tx, err)
		return err
	}
	db.logTx(writable, start, tx, nil)
	return nil
}

func (db *DB) logTx(writable bool, start time.Time, tx *txStorage, err error) {
	if !db.verbose {
		return
	}
	attrs := []slog.Attr{
		slog.Bool("writable", writable),
		slog.Int("writes", tx.writes),
		slog.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	db.logger.LogAttrs(context.Background(), slog.LevelDebug, "kvmap: tx done", attrs...)
}

type panicked struct {
	reason any
	stack  string
}

func (p panicked) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", p.reason, p.stack)
}
