// Package domain contains the core business entities (users and the places
// they own) and the structured error type that every layer uses to report
// failures. It is independent of any specific infrastructure or delivery mechanism.
package domain
