// Package backend is the HTTP client for the labeling backend: processing
// control, progress and current-item polling, decision submission.
package backend
