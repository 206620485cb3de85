// Package api adapts HTTP requests to the place and user services. It decodes
// and validates request bodies, stores uploaded images and renders every
// failure as a {message} body whose status follows the error's domain.Kind.
// An image stored for a request that then fails is deleted before the
// response is written.
package api
