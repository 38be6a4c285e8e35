// Package storage writes staged artifacts to object storage.
//
// Locators are URIs. "s3://bucket/key" goes to Amazon S3 (or any
// S3-compatible endpoint), "file:///abs/path" to the local filesystem.
// Router picks the store by scheme so the stager never needs to know
// where an artifact lives.
package storage
