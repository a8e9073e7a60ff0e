package rules

import (
	"testing"

	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

// requireNone fails the test when a rule raised on a compliant node.
func requireNone(t *testing.T, findings []models.Finding) {
	t.Helper()
	if len(findings) != 0 {
		t.Fatalf("want 0 findings, got %d: %q", len(findings), findings[0].Message)
	}
}

// requireOne fails the test unless exactly one finding with the expected
// rule ID, severity, and verbatim message was produced.
func requireOne(t *testing.T, findings []models.Finding, ruleID string, severity models.Severity, message string) {
	t.Helper()
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.RuleID != ruleID {
		t.Errorf("rule_id: got %q; want %q", f.RuleID, ruleID)
	}
	if f.Severity != severity {
		t.Errorf("severity: got %q; want %q", f.Severity, severity)
	}
	if f.Message != message {
		t.Errorf("message: got %q; want %q", f.Message, message)
	}
}

// compliantStage returns a stage that passes every API Gateway check.
func compliantStage() *resource.ApiGatewayStage {
	return &resource.ApiGatewayStage{
		ID:                  "ProdStage",
		ClientCertificateID: resource.Known("cert-1234"),
		TracingEnabled:      resource.Known(true),
		MethodSettings: resource.Known([]resource.Value[resource.MethodSetting]{
			resource.Known(resource.MethodSetting{
				LoggingLevel:       resource.Known("ERROR"),
				CachingEnabled:     resource.Known(true),
				CacheDataEncrypted: resource.Known(true),
			}),
		}),
	}
}

// compliantInstance returns a standalone RDS instance that passes every
// instance-level check.
func compliantInstance() *resource.RdsInstance {
	return &resource.RdsInstance{
		ID:                          "Database",
		Engine:                      resource.Known("sqlserver-ee"),
		PubliclyAccessible:          resource.Known(false),
		StorageEncrypted:            resource.Known(true),
		MultiAZ:                     resource.Known(true),
		MonitoringIntervalSeconds:   resource.Known(60),
		DeletionProtection:          resource.Known(true),
		IAMDatabaseAuthentication:   resource.Known(true),
		AutoMinorVersionUpgrade:     resource.Known(true),
		CopyTagsToSnapshot:          resource.Known(true),
		EnabledCloudwatchLogExports: []string{"error"},
	}
}

// compliantCluster returns an Aurora cluster that passes every cluster check.
func compliantCluster() *resource.RdsCluster {
	return &resource.RdsCluster{
		ID:                          "AuroraCluster",
		Engine:                      resource.Known("aurora-mysql"),
		DeletionProtection:          resource.Known(true),
		IAMDatabaseAuthentication:   resource.Known(true),
		CopyTagsToSnapshot:          resource.Known(true),
		EnabledCloudwatchLogExports: []string{"audit", "error"},
	}
}

// encryptedBucket returns a bucket with a fully-proven SSE configuration.
func encryptedBucket(algorithm string) *resource.S3Bucket {
	return &resource.S3Bucket{
		ID: "DataBucket",
		Encryption: resource.Known(resource.BucketEncryption{
			Rules: resource.Known([]resource.EncryptionRule{{
				BucketKeyEnabled: resource.Known(true),
				Default: resource.Known(resource.DefaultEncryption{
					SSEAlgorithm: resource.Known(algorithm),
				}),
			}}),
		}),
	}
}
