// Package diagnostic provides the problems reported while a compilation
// unit is transpiled.
//
// Adapters and the printer report problems by Kind. Each kind carries a
// stable code, a severity and a message format. Reporting never changes
// control flow: problems accumulate in a Diagnostics value which becomes
// part of the run's final report.
//
// Key capabilities:
//   - Unsupported syntax reports with source positions
//   - Configuration warnings with "did you mean" suggestions
//   - Free-form warnings and errors raised by adapters
package diagnostic
