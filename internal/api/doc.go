// Package api contains the HTTP handlers, request/response models and
// error-to-status mapping for the Taskwell API.
package api
