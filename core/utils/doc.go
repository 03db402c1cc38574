// Package utils provides common utility functions for the timesheet-sync application.
// It includes helpers for converting loosely typed cell values read back from a
// tabular store into the canonical strings the reconcile engine compares.
package utils
