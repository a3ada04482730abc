// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Queries groups every persistence operation used by the back-office.
type Queries struct {
	db *gorm.DB
}

// New returns Queries backed by db.
func New(db *gorm.DB) *Queries {
	return &Queries{db: db}
}

// DB returns the underlying gorm handle.
func (q *Queries) DB() *gorm.DB {
	return q.db
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *gorm.DB) *Queries {
	return &Queries{db: tx}
}

// Transaction runs fn inside a database transaction.
func (q *Queries) Transaction(ctx context.Context, fn func(*Queries) error) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(q.WithTx(tx))
	})
}

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate value")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("foreign key violation")
)

// DuplicateError identifies the column whose unique constraint was violated.
type DuplicateError struct {
	Table  string
	Column string
	Err    error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s.%s", e.Table, e.Column)
}

// Is makes errors.Is(err, ErrDuplicate) true.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsForeignKey reports whether err is a foreign key violation.
func IsForeignKey(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

// DuplicateColumn returns the offending column of a unique violation.
func DuplicateColumn(err error) (string, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Column, true
	}
	return "", false
}

const (
	uniqueFailedPrefix = "UNIQUE constraint failed: "
	foreignKeyFailed   = "FOREIGN KEY constraint failed"
)

// translate maps driver errors onto the store's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	msg := err.Error()
	if i := strings.Index(msg, uniqueFailedPrefix); i >= 0 {
		target := msg[i+len(uniqueFailedPrefix):]
		// Only the first column of a composite constraint is reported.
		if j := strings.IndexAny(target, ", ("); j >= 0 {
			target = target[:j]
		}
		table, column, ok := strings.Cut(target, ".")
		if !ok {
			column = target
		}
		return &DuplicateError{Table: table, Column: column, Err: err}
	}
	if strings.Contains(msg, foreignKeyFailed) {
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}
	return err
}

func getByID[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var v T
	if err := db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func create[T any](ctx context.Context, db *gorm.DB, v *T) error {
	return translate(db.WithContext(ctx).Create(v).Error)
}

// update writes the named columns plus updated_at. Zero values are written.
func update[T any](ctx context.Context, db *gorm.DB, v *T, columns ...string) error {
	res := db.WithContext(ctx).Model(v).Select(append(columns, "updated_at")).Updates(v)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id int64) error {
	var v T
	res := db.WithContext(ctx).Delete(&v, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func count[T any](ctx context.Context, db *gorm.DB, query any, args ...any) (int64, error) {
	var n int64
	tx := db.WithContext(ctx).Model(new(T))
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
