// Package rootstore gives CLI users a way to remember a snapshot's root
// hash under a human-readable label, so a later command can say
// "diff against last-release" instead of pasting a 16-character hash.
// This is a convenience layer on top of the CAS, not part of the core
// data model: the CAS alone is sufficient to reproduce anything in it.
//
// Grounded on internal/store/kv.go's DB, a thin *bbolt.DB wrapper with
// one bucket per mapping kind; adapted here to a single bucket mapping
// label -> root hash instead of the teacher's multi-hash-scheme bucket
// set, since ditiear has exactly one hash space.
package rootstore

import (
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketLabels = []byte("labels")

// ErrNotFound is returned by Lookup when the label has no stored root.
var ErrNotFound = errors.New("rootstore: label not found")

// DB is a label -> root-hash mapping backed by a bbolt file.
type DB struct{ *bbolt.DB }

// Open opens (creating if necessary) the bbolt file at path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, fmt.Errorf("rootstore: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLabels)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rootstore: init bucket: %w", err)
	}
	return &DB{db}, nil
}

// Close closes the underlying bbolt file.
func (db *DB) Close() error { return db.DB.Close() }

// Put records that label currently refers to rootHash, overwriting any
// prior mapping.
func (db *DB) Put(label, rootHash string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLabels).Put([]byte(label), []byte(rootHash))
	})
}

// Lookup returns the root hash currently stored under label.
func (db *DB) Lookup(label string) (string, error) {
	var hash string
	err := db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketLabels).Get([]byte(label))
		if v == nil {
			return ErrNotFound
		}
		hash = string(v)
		return nil
	})
	return hash, err
}

// Remove deletes label's mapping, if any.
func (db *DB) Remove(label string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLabels).Delete([]byte(label))
	})
}

// Labels returns every label currently stored, in bbolt's key order.
func (db *DB) Labels() ([]string, error) {
	var labels []string
	err := db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLabels).ForEach(func(k, _ []byte) error {
			labels = append(labels, string(k))
			return nil
		})
	})
	return labels, err
}
