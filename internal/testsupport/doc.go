// Package testsupport builds throwaway configurations and input files for
// tests in other packages.
package testsupport
