package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRateLimited      = errors.New("rate limited")
	ErrMissingAPIKey    = errors.New("api key not configured")
	ErrNoTrades         = errors.New("no usable trades")
	ErrNoPool           = errors.New("no trading pool found")
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrLowActivity      = errors.New("insufficient trading activity")
	ErrNoPrice          = errors.New("no price available")
)
