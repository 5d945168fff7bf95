package server

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

// Collections held by the development backend
const (
	tableProperties        = "properties"
	tableCategories        = "categories"
	tableRoomTypes         = "room_types"
	tableRegionalSections  = "regional_sections"
	tableUsers             = "users"
	tableNotifications     = "notifications"
	tableBookings          = "bookings"
	tableTransfers         = "transfers"
	tableOwnerApplications = "owner_applications"
)

var tables = []string{
	tableProperties,
	tableCategories,
	tableRoomTypes,
	tableRegionalSections,
	tableUsers,
	tableNotifications,
	tableBookings,
	tableTransfers,
	tableOwnerApplications,
}

// doc is a JSON object stored in a collection
type doc = map[string]any

type record struct {
	ID     string
	Seq    uint64
	Fields doc
}

// documentStore keeps every collection in one go-memdb database. Records are immutable once
// inserted; updates replace them.
type documentStore struct {
	db  *memdb.MemDB
	seq atomic.Uint64
	now func() time.Time
}

func newDocumentStore() (*documentStore, error) {
	schema := &memdb.DBSchema{Tables: map[string]*memdb.TableSchema{}}
	for _, name := range tables {
		schema.Tables[name] = &memdb.TableSchema{
			Name: name,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"seq": {
					Name:    "seq",
					Unique:  true,
					Indexer: &memdb.UintFieldIndex{Field: "Seq"},
				},
			},
		}
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}
	return &documentStore{db: db, now: time.Now}, nil
}

func (s *documentStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// insert stores fields as a new document, assigning id and timestamps
func (s *documentStore) insert(table string, fields doc) (doc, error) {
	d := copyDoc(fields)
	id, _ := d["id"].(string)
	if id == "" {
		id = uuid.NewString()
		d["id"] = id
	}
	ts := s.timestamp()
	if _, ok := d["createdAt"]; !ok {
		d["createdAt"] = ts
	}
	d["updatedAt"] = ts

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(table, &record{ID: id, Seq: s.seq.Add(1), Fields: d}); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	txn.Commit()

	return copyDoc(d), nil
}

func (s *documentStore) get(table, id string) (doc, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(table, "id", id)
	if err != nil || raw == nil {
		return nil, false
	}
	return copyDoc(raw.(*record).Fields), true
}

// list returns every document of table in insertion order
func (s *documentStore) list(table string) []doc {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(table, "seq")
	if err != nil {
		return nil
	}

	var out []doc
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, copyDoc(raw.(*record).Fields))
	}
	return out
}

// update merges patch into an existing document. id and createdAt cannot be changed.
func (s *documentStore) update(table, id string, patch doc) (doc, bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(table, "id", id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", table, err)
	}
	if raw == nil {
		return nil, false, nil
	}

	current := raw.(*record)
	d := copyDoc(current.Fields)
	for k, v := range patch {
		if k == "id" || k == "createdAt" {
			continue
		}
		d[k] = v
	}
	d["updatedAt"] = s.timestamp()

	if err := txn.Insert(table, &record{ID: id, Seq: current.Seq, Fields: d}); err != nil {
		return nil, false, fmt.Errorf("failed to update %s: %w", table, err)
	}
	txn.Commit()

	return copyDoc(d), true, nil
}

func (s *documentStore) delete(table, id string) (bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	n, err := txn.DeleteAll(table, "id", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	txn.Commit()
	return n > 0, nil
}

func (s *documentStore) count(table string, match func(doc) bool) int {
	n := 0
	for _, d := range s.list(table) {
		if match == nil || match(d) {
			n++
		}
	}
	return n
}

func copyDoc(d doc) doc {
	out := make(doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
