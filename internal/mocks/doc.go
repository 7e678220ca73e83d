// Package mocks provides hand-written test doubles for the service and
// store interfaces. They are function-field mocks: tests set only the
// behavior they care about.
package mocks
