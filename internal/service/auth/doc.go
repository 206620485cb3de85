// Package auth implements password credentials and bearer tokens.
//
// Passwords are hashed with bcrypt on a bounded HashPool. Tokens are HS256 JWTs
// carrying the user id and email with a fixed lifetime; they are never stored.
package auth
