package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	statesBucket       = []byte("states")
	interactionsBucket = []byte("interactions")
)

// BoltStore persists conversation state across restarts. Same contract as
// MemoryStore; selected with STATE_BACKEND=bolt.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(statesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(interactionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) GetState(sender string) (*State, error) {
	var st *State
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(statesBucket).Get([]byte(sender))
		if v == nil {
			return nil
		}
		st = &State{}
		return json.Unmarshal(v, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *BoltStore) PutState(sender string, st State) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		return tx.Bucket(statesBucket).Put([]byte(sender), data)
	})
}

func (s *BoltStore) DeleteState(sender string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(statesBucket).Delete([]byte(sender))
	})
}

func (s *BoltStore) LogInteraction(rec InteractionRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return tx.Bucket(interactionsBucket).Put([]byte(rec.ID), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
