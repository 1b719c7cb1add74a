// Package provisioning implements the worker VM lifecycle: rendering
// deployment descriptors, submitting deployments, deriving VM status from
// instance views, power operations with retry, ordered teardown with
// best-effort network cleanup, and template validation against the provider.
package provisioning
