package bpe

import "errors"

var (
	ErrEmptyVocabulary  = errors.New("empty vocabulary")
	ErrDuplicateTokenID = errors.New("duplicate token id")
	ErrNegativeTokenID  = errors.New("negative token id")
	ErrInvalidMergeRule = errors.New("invalid merge rule")
	ErrUnknownToken     = errors.New("unknown token")
	ErrInvalidTokenID   = errors.New("invalid token id")
)
