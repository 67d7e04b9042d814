package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrNoVaultsToVerify    = errors.New("no vaults to verify")
)
