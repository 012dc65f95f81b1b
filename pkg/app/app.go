// Package app holds the contract between cmd/verifier and the process it starts.
package app

// Runner is a long-lived process component. Run blocks until the component stops.
type Runner interface {
	Run() error
}
