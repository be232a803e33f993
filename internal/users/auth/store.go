// Copyright (c) 2026 Maria. All rights reserved.

package auth

import "context"

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		Create persists a new account. A duplicate username (compared
		case-insensitively) surfaces as a conflict.
	*/
	Create(context context.Context, user *User) error

	/*
		FindByUsername returns the account with the given username.
		Matching is case-insensitive.
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByID returns the account with the given ID.
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		UpdatePassword replaces the stored hash for the given account.
	*/
	UpdatePassword(context context.Context, id, passwordHash string) error

	/*
		Count returns the total number of accounts.
	*/
	Count(context context.Context) (int, error)
}
