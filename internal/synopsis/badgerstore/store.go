// Package badgerstore is a reference Loader/Writer (§6.2) backed by
// github.com/dgraph-io/badger/v4, grounded on the teacher's own storage
// engine (datalog/storage/badger_store.go). It is not a requirement of
// the catalog — only cmd/evcat-inspect opens one, to hydrate a demo
// catalog from a small on-disk store. Per §9's "FlatBuffer-framed
// persistence of synopses -> not in core scope", this store persists only
// the synopsis's coarse metadata (schema name, event count, import-time
// bounds, version), not the schema's fields and not sketch payloads, which
// have no defined wire format here.
package badgerstore

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/synopsis"
)

// Store implements synopsis.Loader and synopsis.Writer over a BadgerDB
// directory, keyed by partition UUID.
type Store struct {
	db *badger.DB
}

// record is the persisted projection of a PartitionSynopsis: metadata
// only, gob-encodable without registering every concrete Sketch type.
type record struct {
	SchemaName    string
	Events        uint64
	MinImportTime int64 // unix nanos
	MaxImportTime int64
	Version       uint64
}

// Open opens (creating if absent) a BadgerDB store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.MemTableSize = 64 << 20
	opts.BlockCacheSize = 64 << 20
	opts.IndexCacheSize = 32 << 20
	opts.DetectConflicts = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Write persists the coarse metadata of a synopsis keyed by id.
func (s *Store) Write(ctx context.Context, id evtype.UUID, syn *synopsis.PartitionSynopsis) error {
	rec := record{
		SchemaName:    syn.Schema.Name,
		Events:        syn.Events,
		MinImportTime: syn.MinImportTime.Std().UnixNano(),
		MaxImportTime: syn.MaxImportTime.Std().UnixNano(),
		Version:       syn.Version,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return evcaterr.Wrap(evcaterr.LookupError, err, "encode partition synopsis")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(id.Bytes(), buf.Bytes())
	})
}

// List returns every partition uuid currently persisted, in key order.
func (s *Store) List(ctx context.Context) ([]evtype.UUID, error) {
	var ids []evtype.UUID
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			id, err := evtype.UUIDFromBytes(key)
			if err != nil {
				return evcaterr.Wrap(evcaterr.LookupError, err, "decode stored partition key")
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Load reconstructs a metadata-only PartitionSynopsis for id. Field and
// type sketches are not persisted by this store, so the returned synopsis
// carries none — a caller relying on sketch-backed pruning must rebuild
// sketches itself before inserting the result into a catalog.
func (s *Store) Load(ctx context.Context, id evtype.UUID) (*synopsis.PartitionSynopsis, error) {
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(id.Bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, evcaterr.New(evcaterr.LookupError, "partition synopsis not found", "uuid", id.String())
	}
	if err != nil {
		return nil, evcaterr.Wrap(evcaterr.LookupError, err, "load partition synopsis")
	}

	schema := evtype.Type{Kind: evtype.TypeRecord, Name: rec.SchemaName}
	syn := synopsis.New(
		schema,
		rec.Events,
		evtype.NewTime(time.Unix(0, rec.MinImportTime).UTC()),
		evtype.NewTime(time.Unix(0, rec.MaxImportTime).UTC()),
		rec.Version,
	)
	return syn, nil
}
