package rules

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

// s3Algorithms is the set of accepted default-encryption algorithms.
var s3Algorithms = map[string]struct{}{
	"AES256":  {},
	"aws:kms": {},
}

// S3EncryptionRule flags buckets without verifiable server-side encryption.
// The whole configuration chain must be proven: the encryption block, its
// rule list, and the first rule's default-encryption algorithm. One
// exception inside the chain: an absent bucketKeyEnabled passes, only an
// unresolved or explicitly false one raises.
type S3EncryptionRule struct{}

func (r S3EncryptionRule) ID() string   { return "S3.4" }
func (r S3EncryptionRule) Name() string { return "S3 Server-Side Encryption" }

func (r S3EncryptionRule) Kinds() []resource.Kind {
	return []resource.Kind{resource.KindS3Bucket}
}

func (r S3EncryptionRule) Evaluate(node resource.Node) []models.Finding {
	bucket := node.(*resource.S3Bucket)

	if r.compliant(bucket) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"S3 buckets should have server-side encryption enabled",
		"Configure bucket encryption with SSE-S3 (AES256) or SSE-KMS (aws:kms).")
}

func (r S3EncryptionRule) compliant(bucket *resource.S3Bucket) bool {
	enc, ok := bucket.Encryption.Get()
	if !ok {
		return false
	}
	encRules, ok := enc.Rules.Get()
	if !ok || len(encRules) == 0 {
		return false
	}

	first := encRules[0]
	if first.BucketKeyEnabled.IsUnresolved() || resource.IsFalse(first.BucketKeyEnabled) {
		return false
	}
	def, ok := first.Default.Get()
	if !ok {
		return false
	}
	algorithm, ok := def.SSEAlgorithm.Get()
	if !ok {
		return false
	}
	_, accepted := s3Algorithms[algorithm]
	return accepted
}
