// Package domain defines the core business entities of the task management
// system (users, tasks, labels, comments, activity log entries) along with
// their validation rules and domain-level errors.
//
// Entities in this package are persistence-agnostic. Stores and services
// depend on domain types, never the other way around.
package domain
