package rules

import (
	"testing"

	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

func TestRDSPublicAccess_CompliantInstance(t *testing.T) {
	requireNone(t, RDSPublicAccessRule{}.Evaluate(compliantInstance()))
}

func TestRDSPublicAccess_ExplicitlyPublic(t *testing.T) {
	inst := compliantInstance()
	inst.PubliclyAccessible = resource.Known(true)
	requireOne(t, RDSPublicAccessRule{}.Evaluate(inst),
		"RDS.2", models.SeverityError,
		"[RDS.2] RDS DB instances should prohibit public access, determined by the PubliclyAccessible configuration")
}

// The public-access check has inverted polarity: values that cannot be proven
// true pass, unlike every other check in the catalogue.
func TestRDSPublicAccess_AbsentAndUnresolvedPass(t *testing.T) {
	inst := compliantInstance()
	inst.PubliclyAccessible = resource.Absent[bool]()
	requireNone(t, RDSPublicAccessRule{}.Evaluate(inst))

	inst.PubliclyAccessible = resource.Unresolved[bool]()
	requireNone(t, RDSPublicAccessRule{}.Evaluate(inst))
}

func TestRDSStorageEncrypted_Disabled(t *testing.T) {
	inst := compliantInstance()
	inst.StorageEncrypted = resource.Known(false)
	requireOne(t, RDSStorageEncryptedRule{}.Evaluate(inst),
		"RDS.3", models.SeverityError,
		"[RDS.3] RDS DB instances should have encryption at rest enabled")
}

func TestRDSStorageEncrypted_ClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.StorageEncrypted = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	requireNone(t, RDSStorageEncryptedRule{}.Evaluate(inst))
}

// A deploy-time reference to a cluster still counts as membership.
func TestRDSStorageEncrypted_UnresolvedClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.StorageEncrypted = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Unresolved[string]()
	requireNone(t, RDSStorageEncryptedRule{}.Evaluate(inst))
}

func TestRDSMultiAZ_Missing(t *testing.T) {
	inst := compliantInstance()
	inst.MultiAZ = resource.Absent[bool]()
	requireOne(t, RDSMultiAZRule{}.Evaluate(inst),
		"RDS.5", models.SeverityError,
		"[RDS.5] RDS DB instances should be configured with multiple Availability Zones")
}

func TestRDSMultiAZ_ClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.MultiAZ = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	requireNone(t, RDSMultiAZRule{}.Evaluate(inst))
}

func TestRDSEnhancedMonitoring_IntervalSet(t *testing.T) {
	requireNone(t, RDSEnhancedMonitoringRule{}.Evaluate(compliantInstance()))
}

func TestRDSEnhancedMonitoring_IntervalZero(t *testing.T) {
	inst := compliantInstance()
	inst.MonitoringIntervalSeconds = resource.Known(0)
	requireOne(t, RDSEnhancedMonitoringRule{}.Evaluate(inst),
		"RDS.6", models.SeverityError,
		"[RDS.6] Enhanced monitoring should be configured for RDS DB instances")
}

// Monitoring applies to cluster members too; no InCluster skip here.
func TestRDSEnhancedMonitoring_AppliesToClusterMembers(t *testing.T) {
	inst := compliantInstance()
	inst.MonitoringIntervalSeconds = resource.Absent[int]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	if len(RDSEnhancedMonitoringRule{}.Evaluate(inst)) != 1 {
		t.Error("cluster member without monitoring must raise")
	}
}

func TestRDSDeletionProtection_Cluster(t *testing.T) {
	cluster := compliantCluster()
	requireNone(t, RDSDeletionProtectionRule{}.Evaluate(cluster))

	cluster.DeletionProtection = resource.Known(false)
	requireOne(t, RDSDeletionProtectionRule{}.Evaluate(cluster),
		"RDS.8", models.SeverityError,
		"[RDS.8] RDS DB instances and clusters should have deletion protection enabled")
}

func TestRDSDeletionProtection_StandaloneInstance(t *testing.T) {
	inst := compliantInstance()
	inst.DeletionProtection = resource.Absent[bool]()
	if len(RDSDeletionProtectionRule{}.Evaluate(inst)) != 1 {
		t.Error("standalone instance without protection must raise")
	}
}

func TestRDSDeletionProtection_ClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.DeletionProtection = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	requireNone(t, RDSDeletionProtectionRule{}.Evaluate(inst))
}

func TestRDSLogExports_SubsetPasses(t *testing.T) {
	inst := compliantInstance()
	inst.Engine = resource.Known("postgres")
	inst.EnabledCloudwatchLogExports = []string{"postgresql", "upgrade"}
	requireNone(t, RDSLogExportsRule{}.Evaluate(inst))
}

func TestRDSLogExports_SupersetRaises(t *testing.T) {
	inst := compliantInstance()
	inst.Engine = resource.Known("postgres")
	inst.EnabledCloudwatchLogExports = []string{"postgresql", "upgrade", "slowquery"}
	requireOne(t, RDSLogExportsRule{}.Evaluate(inst),
		"RDS.9", models.SeverityError,
		"[RDS.9] Database logging should be enabled")
}

func TestRDSLogExports_EmptyRaises(t *testing.T) {
	inst := compliantInstance()
	inst.EnabledCloudwatchLogExports = nil
	if len(RDSLogExportsRule{}.Evaluate(inst)) != 1 {
		t.Error("no exports must raise")
	}
}

// An unrecognized engine resolves to the sentinel expected set {"invalid"},
// so any declared export fails the subset check.
func TestRDSLogExports_UnknownEngineSentinel(t *testing.T) {
	inst := compliantInstance()
	inst.Engine = resource.Known("informix")
	inst.EnabledCloudwatchLogExports = []string{"error"}
	if len(RDSLogExportsRule{}.Evaluate(inst)) != 1 {
		t.Error("unknown engine with exports must raise")
	}

	inst.EnabledCloudwatchLogExports = []string{"invalid"}
	requireNone(t, RDSLogExportsRule{}.Evaluate(inst))
}

func TestRDSLogExports_Cluster(t *testing.T) {
	cluster := compliantCluster()
	requireNone(t, RDSLogExportsRule{}.Evaluate(cluster))

	cluster.EnabledCloudwatchLogExports = []string{"postgresql"}
	if len(RDSLogExportsRule{}.Evaluate(cluster)) != 1 {
		t.Error("aurora-mysql cluster exporting postgresql logs must raise")
	}
}

func TestRDSLogExports_ClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.EnabledCloudwatchLogExports = nil
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	requireNone(t, RDSLogExportsRule{}.Evaluate(inst))
}

func TestRDSInstanceIAMAuth_Disabled(t *testing.T) {
	inst := compliantInstance()
	inst.IAMDatabaseAuthentication = resource.Known(false)
	requireOne(t, RDSInstanceIAMAuthRule{}.Evaluate(inst),
		"RDS.10", models.SeverityError,
		"[RDS.10] IAM authentication should be configured for existing RDS instances")
}

func TestRDSInstanceIAMAuth_ClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.IAMDatabaseAuthentication = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	requireNone(t, RDSInstanceIAMAuthRule{}.Evaluate(inst))
}

func TestRDSClusterIAMAuth_Disabled(t *testing.T) {
	cluster := compliantCluster()
	cluster.IAMDatabaseAuthentication = resource.Absent[bool]()
	requireOne(t, RDSClusterIAMAuthRule{}.Evaluate(cluster),
		"RDS.12", models.SeverityError,
		"[RDS.12] IAM authentication should be configured for existing RDS clusters")
}

func TestRDSAutoMinorUpgrade_Disabled(t *testing.T) {
	inst := compliantInstance()
	inst.AutoMinorVersionUpgrade = resource.Known(false)
	requireOne(t, RDSAutoMinorUpgradeRule{}.Evaluate(inst),
		"RDS.13", models.SeverityError,
		"[RDS.13] RDS automatic minor version upgrades should be enabled")
}

// Minor-version upgrades apply to cluster members too.
func TestRDSAutoMinorUpgrade_AppliesToClusterMembers(t *testing.T) {
	inst := compliantInstance()
	inst.AutoMinorVersionUpgrade = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	if len(RDSAutoMinorUpgradeRule{}.Evaluate(inst)) != 1 {
		t.Error("cluster member without auto upgrade must raise")
	}
}

func TestRDSClusterCopyTags_Warning(t *testing.T) {
	cluster := compliantCluster()
	cluster.CopyTagsToSnapshot = resource.Known(false)
	requireOne(t, RDSClusterCopyTagsRule{}.Evaluate(cluster),
		"RDS.16", models.SeverityWarning,
		"[RDS.16] RDS DB clusters should be configured to copy tags to snapshots")
}

func TestRDSInstanceCopyTags_Warning(t *testing.T) {
	inst := compliantInstance()
	inst.CopyTagsToSnapshot = resource.Absent[bool]()
	requireOne(t, RDSInstanceCopyTagsRule{}.Evaluate(inst),
		"RDS.17", models.SeverityWarning,
		"[RDS.17] RDS DB instances should be configured to copy tags to snapshots")
}

func TestRDSInstanceCopyTags_ClusterMemberSkipped(t *testing.T) {
	inst := compliantInstance()
	inst.CopyTagsToSnapshot = resource.Absent[bool]()
	inst.DBClusterIdentifier = resource.Known("AuroraCluster")
	requireNone(t, RDSInstanceCopyTagsRule{}.Evaluate(inst))
}

func TestRDSSnapshotPublicAccess_NeverRaises(t *testing.T) {
	inst := compliantInstance()
	inst.PubliclyAccessible = resource.Known(true)
	inst.DeletionProtection = resource.Known(false)
	requireNone(t, RDSSnapshotPublicAccessRule{}.Evaluate(inst))
}

// The worked scenario from the catalogue: a private, encrypted, multi-AZ
// sqlserver-ee instance with monitoring, protection, IAM auth, auto upgrade,
// copy-tags and exports ["error"] draws no findings from any instance rule,
// and flipping PubliclyAccessible to true draws exactly RDS.2.
func TestRDSInstanceRules_WorkedScenario(t *testing.T) {
	instanceRules := []Rule{
		RDSSnapshotPublicAccessRule{},
		RDSPublicAccessRule{},
		RDSStorageEncryptedRule{},
		RDSMultiAZRule{},
		RDSEnhancedMonitoringRule{},
		RDSDeletionProtectionRule{},
		RDSLogExportsRule{},
		RDSInstanceIAMAuthRule{},
		RDSAutoMinorUpgradeRule{},
		RDSInstanceCopyTagsRule{},
	}

	inst := compliantInstance()
	for _, rule := range instanceRules {
		if findings := rule.Evaluate(inst); len(findings) != 0 {
			t.Errorf("%s raised on the compliant instance: %q", rule.ID(), findings[0].Message)
		}
	}

	inst.PubliclyAccessible = resource.Known(true)
	var all []models.Finding
	for _, rule := range instanceRules {
		all = append(all, rule.Evaluate(inst)...)
	}
	requireOne(t, all, "RDS.2", models.SeverityError,
		"[RDS.2] RDS DB instances should prohibit public access, determined by the PubliclyAccessible configuration")
}
