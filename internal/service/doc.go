// Package service contains the application's business logic, orchestrating
// the store interfaces inside transactions and keeping the listing cache
// consistent with every task mutation.
package service
