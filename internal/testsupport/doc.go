// Package testsupport builds temp-directory configs and stub executables for
// tests across tubemeta.
package testsupport
