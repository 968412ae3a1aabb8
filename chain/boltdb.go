package chain

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltDB implements DB on top of a bbolt database file. All writes go through
// a single long-lived write transaction which Flush commits and Cancel rolls
// back.
type BoltDB struct {
	db *bolt.DB
	tx *bolt.Tx
}

type boltBucket struct {
	b *bolt.Bucket
}

func (b boltBucket) Get(key []byte) []byte {
	v := b.b.Get(key)
	if v == nil {
		return nil
	}
	// bbolt values are only valid for the life of the transaction
	return append([]byte(nil), v...)
}

func (b boltBucket) Put(key, value []byte) error { return b.b.Put(key, value) }
func (b boltBucket) Delete(key []byte) error     { return b.b.Delete(key) }

// Bucket implements DB.
func (db *BoltDB) Bucket(name []byte) DBBucket {
	b := db.tx.Bucket(name)
	if b == nil {
		return nil
	}
	return boltBucket{b}
}

// CreateBucket implements DB.
func (db *BoltDB) CreateBucket(name []byte) (DBBucket, error) {
	b, err := db.tx.CreateBucket(name)
	if err != nil {
		return nil, err
	}
	return boltBucket{b}, nil
}

// Flush implements DB.
func (db *BoltDB) Flush() error {
	if err := db.tx.Commit(); err != nil {
		return fmt.Errorf("commit bbolt: %w", err)
	}
	tx, err := db.db.Begin(true)
	if err != nil {
		return fmt.Errorf("begin bbolt: %w", err)
	}
	db.tx = tx
	return nil
}

// Cancel implements DB.
func (db *BoltDB) Cancel() {
	_ = db.tx.Rollback()
	tx, err := db.db.Begin(true)
	if err != nil {
		panic(fmt.Errorf("begin bbolt: %w", err)) // should never happen
	}
	db.tx = tx
}

// Close commits any pending writes and closes the database file.
func (db *BoltDB) Close() error {
	if err := db.tx.Commit(); err != nil {
		db.db.Close()
		return fmt.Errorf("commit bbolt: %w", err)
	}
	return db.db.Close()
}

// OpenBoltDB opens the bbolt database at path, creating it if necessary.
func OpenBoltDB(path string) (*BoltDB, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	tx, err := bdb.Begin(true)
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("begin bbolt: %w", err)
	}
	return &BoltDB{db: bdb, tx: tx}, nil
}
