// Package store is the data-access layer. It is the single source of truth
// for durable entities; callers never cache its results across requests.
package store

import "gorm.io/gorm"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
