// Package shared holds helpers used by more than one package. Its only
// child today is testutil, which carries the captured-log handler and the
// sample dataset fixtures used across the test suites.
package shared
