// Package securityhub provides the default compliance rule pack.
// It groups every best-practice check into a single New() function that the
// CLI wires into a rules.Registry before scanning a template.
//
// Convention: every rule pack lives in internal/rulepacks/<name>/pack.go and
// exposes a single New() func returning []rules.Rule. New compliance checks
// should be added to the slice returned by New().
package securityhub

import "github.com/opsaudit/stackscan/internal/rules"

// New returns the default compliance rule pack in stable evaluation order.
func New() []rules.Rule {
	return []rules.Rule{
		rules.APIGatewayExecutionLoggingRule{},  // ERROR:   stage execution logging off
		rules.APIGatewayClientCertificateRule{}, // ERROR:   no backend SSL client certificate
		rules.APIGatewayXRayTracingRule{},       // ERROR:   X-Ray tracing disabled
		rules.APIGatewayCacheEncryptionRule{},   // ERROR:   stage cache unencrypted
		rules.AutoScalingLBHealthCheckRule{},    // ERROR:   ASG behind LB without ELB health checks
		rules.DynamoDBAutoScalingRule{},         // ERROR:   table without capacity autoscaling
		rules.DynamoDBPITRRule{},                // ERROR:   point-in-time recovery disabled
		rules.IAMFullAdminRule{},                // ERROR:   Allow * on *
		rules.IAMWildcardServiceActionsRule{},   // ERROR:   Allow <service>:*
		rules.LambdaPublicPolicyRule{},          // no-op:   resource-policy check unimplemented
		rules.LambdaSupportedRuntimeRule{},      // ERROR:   runtime outside allow-list
		rules.RDSSnapshotPublicAccessRule{},     // no-op:   snapshot check unimplemented
		rules.RDSPublicAccessRule{},             // ERROR:   publicly accessible instance
		rules.RDSStorageEncryptedRule{},         // ERROR:   storage unencrypted
		rules.RDSMultiAZRule{},                  // ERROR:   single-AZ instance
		rules.RDSEnhancedMonitoringRule{},       // ERROR:   enhanced monitoring off
		rules.RDSDeletionProtectionRule{},       // ERROR:   deletion protection off
		rules.RDSLogExportsRule{},               // ERROR:   log exports missing/invalid
		rules.RDSInstanceIAMAuthRule{},          // ERROR:   instance IAM auth off
		rules.RDSClusterIAMAuthRule{},           // ERROR:   cluster IAM auth off
		rules.RDSAutoMinorUpgradeRule{},         // ERROR:   auto minor upgrades off
		rules.RDSClusterCopyTagsRule{},          // WARNING: cluster copy-tags off
		rules.RDSInstanceCopyTagsRule{},         // WARNING: instance copy-tags off
		rules.S3EncryptionRule{},                // ERROR:   bucket encryption missing/invalid
	}
}
