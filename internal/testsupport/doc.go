// Package testsupport builds configuration and DVK fixtures for tests.
package testsupport
