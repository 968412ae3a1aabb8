package chain

import (
	"errors"
	"fmt"

	"github.com/phoenixkonsole/papara/consensus"
	"github.com/phoenixkonsole/papara/types"
)

// A DB is a generic key-value database.
type DB interface {
	Bucket(name []byte) DBBucket
	CreateBucket(name []byte) (DBBucket, error)
	Flush() error
	Cancel()
}

// A DBBucket is a set of key-value pairs.
type DBBucket interface {
	Get(key []byte) []byte
	Put(key, value []byte) error
	Delete(key []byte) error
}

// MemDB implements DB with an in-memory map.
type MemDB struct {
	buckets map[string]map[string][]byte
	puts    map[string]map[string][]byte
	dels    map[string]map[string]struct{}
}

// Flush implements DB.
func (db *MemDB) Flush() error {
	for bucket, puts := range db.puts {
		if db.buckets[bucket] == nil {
			db.buckets[bucket] = make(map[string][]byte)
		}
		for key, val := range puts {
			db.buckets[bucket][key] = val
		}
		delete(db.puts, bucket)
	}
	for bucket, dels := range db.dels {
		if db.buckets[bucket] == nil {
			db.buckets[bucket] = make(map[string][]byte)
		}
		for key := range dels {
			delete(db.buckets[bucket], key)
		}
		delete(db.dels, bucket)
	}
	return nil
}

// Cancel implements DB.
func (db *MemDB) Cancel() {
	for k := range db.puts {
		delete(db.puts, k)
	}
	for k := range db.dels {
		delete(db.dels, k)
	}
}

func (db *MemDB) get(bucket string, key []byte) []byte {
	if val, ok := db.puts[bucket][string(key)]; ok {
		return val
	} else if _, ok := db.dels[bucket][string(key)]; ok {
		return nil
	}
	return db.buckets[bucket][string(key)]
}

func (db *MemDB) put(bucket string, key, value []byte) error {
	if db.puts[bucket] == nil {
		if db.buckets[bucket] == nil {
			return errors.New("bucket does not exist")
		}
		db.puts[bucket] = make(map[string][]byte)
	}
	db.puts[bucket][string(key)] = append([]byte(nil), value...)
	delete(db.dels[bucket], string(key))
	return nil
}

func (db *MemDB) delete(bucket string, key []byte) error {
	if db.dels[bucket] == nil {
		if db.buckets[bucket] == nil {
			return errors.New("bucket does not exist")
		}
		db.dels[bucket] = make(map[string]struct{})
	}
	db.dels[bucket][string(key)] = struct{}{}
	delete(db.puts[bucket], string(key))
	return nil
}

// Bucket implements DB.
func (db *MemDB) Bucket(name []byte) DBBucket {
	if db.buckets[string(name)] == nil && db.puts[string(name)] == nil && db.dels[string(name)] == nil {
		return nil
	}
	return memBucket{string(name), db}
}

// CreateBucket implements DB.
func (db *MemDB) CreateBucket(name []byte) (DBBucket, error) {
	if db.buckets[string(name)] != nil {
		return nil, errors.New("bucket already exists")
	}
	db.puts[string(name)] = make(map[string][]byte)
	db.dels[string(name)] = make(map[string]struct{})
	return db.Bucket(name), nil
}

type memBucket struct {
	name string
	db   *MemDB
}

func (b memBucket) Get(key []byte) []byte       { return b.db.get(b.name, key) }
func (b memBucket) Put(key, value []byte) error { return b.db.put(b.name, key, value) }
func (b memBucket) Delete(key []byte) error     { return b.db.delete(b.name, key) }

// NewMemDB returns an in-memory DB for use with SporkStore.
func NewMemDB() *MemDB {
	return &MemDB{
		buckets: make(map[string]map[string][]byte),
		puts:    make(map[string]map[string][]byte),
		dels:    make(map[string]map[string]struct{}),
	}
}

var (
	bVersion = []byte("version")
	bNetwork = []byte("network")
	bSporks  = []byte("sporks")

	keyName = []byte("name")
)

// A SporkStore durably records the spork values activated by governance
// votes, so that a restarted node rebuilds the same parameter snapshot.
type SporkStore struct {
	db DB
}

// Sporks returns every stored spork value.
func (ss *SporkStore) Sporks() (map[SporkID]uint64, error) {
	b := ss.db.Bucket(bSporks)
	values := make(map[SporkID]uint64)
	for id := range sporkNames {
		val := b.Get([]byte(id.String()))
		if val == nil {
			continue
		}
		d := types.NewBufDecoder(val)
		v := d.ReadUint64()
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("error decoding %v: %w", id, err)
		}
		values[id] = v
	}
	return values, nil
}

// PutSpork durably stores the value of a spork.
func (ss *SporkStore) PutSpork(id SporkID, value uint64) error {
	if _, ok := sporkNames[id]; !ok {
		return fmt.Errorf("%w %v", ErrUnknownSpork, id)
	}
	buf := types.EncodeToBytes(types.EncoderFunc(func(e *types.Encoder) { e.WriteUint64(value) }))
	if err := ss.db.Bucket(bSporks).Put([]byte(id.String()), buf); err != nil {
		ss.db.Cancel()
		return fmt.Errorf("failed to store %v: %w", id, err)
	}
	return ss.db.Flush()
}

// Close flushes any uncommitted data to the underlying DB.
func (ss *SporkStore) Close() error {
	return ss.db.Flush()
}

// NewSporkStore opens a SporkStore in db for the network n. A database that
// was initialized for a different network is rejected.
func NewSporkStore(db DB, n *consensus.Network) (*SporkStore, error) {
	if n == nil {
		return nil, consensus.ErrNilNetwork
	}
	if b := db.Bucket(bNetwork); b == nil {
		for _, bucket := range [][]byte{bVersion, bNetwork, bSporks} {
			if _, err := db.CreateBucket(bucket); err != nil {
				db.Cancel()
				return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		if err := db.Bucket(bVersion).Put(bVersion, []byte{1}); err != nil {
			db.Cancel()
			return nil, err
		} else if err := db.Bucket(bNetwork).Put(keyName, []byte(n.Name)); err != nil {
			db.Cancel()
			return nil, err
		} else if err := db.Flush(); err != nil {
			return nil, err
		}
	} else if name := string(b.Get(keyName)); name != n.Name {
		return nil, fmt.Errorf("cannot use %s database on %s", name, n.Name)
	} else if v := db.Bucket(bVersion).Get(bVersion); len(v) != 1 || v[0] != 1 {
		return nil, fmt.Errorf("incompatible spork store version (%v)", v)
	}
	return &SporkStore{db: db}, nil
}
