// Package repository holds storage errors shared by every backend and the
// file-backed library used by the terminal drill.
package repository

import "errors"

var (
	ErrPolicyNotFound = errors.New("selection policy not found")
	ErrTableNotFound  = errors.New("word table not found")
	ErrWordNotFound   = errors.New("word not found")
	ErrNullEntry      = errors.New("null entry in library")
)
