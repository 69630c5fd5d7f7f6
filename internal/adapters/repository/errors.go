package repository

import "errors"

// Sentinel kinds for rule-set store errors.
var (
	ErrNotFound    = errors.New("rule set not found")
	ErrInvalidID   = errors.New("invalid rule set id")
	ErrLoadRules   = errors.New("load rules file failed")
	ErrUnsupported = errors.New("unsupported rules file format")
)
