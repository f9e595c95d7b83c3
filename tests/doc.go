// Package tests holds shared test helpers for the Stitchdesk backend.
//
// Subpackages:
//
//	fixtures    - gofakeit-backed builders for employees, customers, orders and attachments
//	mocks       - testify mocks for repositories, object storage and services
//	integration - PostgreSQL and MinIO suites, run with: go test -tags=integration ./tests/integration/...
package tests
