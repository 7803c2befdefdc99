// Package s3 stores vector sets and check reports in Amazon S3.
//
//	store, err := s3.New(ctx, "fpgold-artifacts",
//	    s3.WithPrefix("nightly/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Put sends a single request with a CRC32C checksum that S3 verifies.
// Create streams through the multipart upload manager. Open issues a HEAD
// and serves reads with ranged GETs.
package s3
