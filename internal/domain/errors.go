package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrCycle         = errors.New("category cycle")
	ErrSlugExhausted = errors.New("slug attempts exhausted")
	ErrOutOfStock    = errors.New("out of stock")
	ErrUnknownStatus = errors.New("unknown order status")
	ErrEmptyCart     = errors.New("empty cart")
)
