package cursorstore

import (
	"context"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerStore is a Store backed by an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	prefix string
}

// NewBadgerStore opens (or creates) a Badger database at path.
// Keys are stored as "<prefix>/<key>" when prefix is not empty.
func NewBadgerStore(path string, prefix string) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.New("badger directory is required")
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger store")
	}

	return &BadgerStore{
		db:     db,
		prefix: prefix,
	}, nil
}

func (b *BadgerStore) fullKey(k string) ([]byte, error) {
	if err := checkKey(k); err != nil {
		return nil, err
	}
	if b.prefix != "" {
		return []byte(b.prefix + "/" + k), nil
	}
	return []byte(k), nil
}

func (b *BadgerStore) Get(_ context.Context, key string, value interface{}) (bool, error) {
	k, err := b.fullKey(key)
	if err != nil {
		return false, err
	}

	var valCopy []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read cursor %s", key)
	}

	if err := json.Unmarshal(valCopy, value); err != nil {
		return false, errors.Wrapf(err, "failed to decode cursor %s", key)
	}
	return true, nil
}

func (b *BadgerStore) Set(_ context.Context, key string, value interface{}) error {
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cursor %s", key)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, data)
	})
}

func (b *BadgerStore) Delete(_ context.Context, key string) error {
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
