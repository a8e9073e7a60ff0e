package rules

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

var (
	instanceKinds = []resource.Kind{resource.KindRdsInstance}
	rdsKinds      = []resource.Kind{resource.KindRdsInstance, resource.KindRdsCluster}
	clusterKinds  = []resource.Kind{resource.KindRdsCluster}
)

// expectedLogExports returns the CloudWatch log types a given engine is
// expected to export. Engines outside the table resolve to the sentinel set
// {"invalid"}, which no real export value can match, so every declared
// export fails for an unrecognized engine. Suspect but preserved: this
// fallback predates the scanner and downstream tests depend on it; do not
// replace it with an empty set or a pass-through without revisiting those.
func expectedLogExports(engine resource.Value[string]) map[string]struct{} {
	name, _ := engine.Get()
	switch name {
	case "mysql", "aurora", "aurora-mysql", "mariadb":
		return map[string]struct{}{"audit": {}, "error": {}, "general": {}, "slowquery": {}}
	case "oracle-ee", "oracle-se2":
		return map[string]struct{}{"alert": {}, "audit": {}, "trace": {}, "listener": {}}
	case "postgres", "aurora-postgresql":
		return map[string]struct{}{"postgresql": {}, "upgrade": {}}
	case "sqlserver-ee", "sqlserver-ex", "sqlserver-se", "sqlserver-web":
		return map[string]struct{}{"error": {}, "agent": {}}
	default:
		return map[string]struct{}{"invalid": {}}
	}
}

// RDSPublicAccessRule flags instances that are explicitly publicly
// accessible. This is the one check with inverted polarity: only a known
// true value raises; Absent and Unresolved both pass. Do not "fix" this to
// match the conservative default used everywhere else.
type RDSPublicAccessRule struct{}

func (r RDSPublicAccessRule) ID() string   { return "RDS.2" }
func (r RDSPublicAccessRule) Name() string { return "RDS Public Access" }

func (r RDSPublicAccessRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSPublicAccessRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if !resource.IsTrue(inst.PubliclyAccessible) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"RDS DB instances should prohibit public access, determined by the PubliclyAccessible configuration",
		"Set publiclyAccessible to false and reach the database through VPC networking.")
}

// RDSStorageEncryptedRule flags standalone instances without storage
// encryption. Cluster members inherit encryption from the cluster and are
// skipped.
type RDSStorageEncryptedRule struct{}

func (r RDSStorageEncryptedRule) ID() string   { return "RDS.3" }
func (r RDSStorageEncryptedRule) Name() string { return "RDS Storage Encryption" }

func (r RDSStorageEncryptedRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSStorageEncryptedRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if inst.InCluster() || resource.IsTrue(inst.StorageEncrypted) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"RDS DB instances should have encryption at rest enabled",
		"Enable storageEncrypted. Encryption must be set at creation time; existing instances require an encrypted snapshot copy and restore.")
}

// RDSMultiAZRule flags standalone instances running in a single availability
// zone. Cluster members get availability from the cluster topology.
type RDSMultiAZRule struct{}

func (r RDSMultiAZRule) ID() string   { return "RDS.5" }
func (r RDSMultiAZRule) Name() string { return "RDS Multi-AZ" }

func (r RDSMultiAZRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSMultiAZRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if inst.InCluster() || resource.IsTrue(inst.MultiAZ) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"RDS DB instances should be configured with multiple Availability Zones",
		"Enable multiAz so the database fails over to a standby replica in another zone.")
}

// RDSEnhancedMonitoringRule flags instances without enhanced monitoring.
// It applies to every instance, cluster member or not: a cluster of N
// instances yields N findings, one per member declaration.
type RDSEnhancedMonitoringRule struct{}

func (r RDSEnhancedMonitoringRule) ID() string   { return "RDS.6" }
func (r RDSEnhancedMonitoringRule) Name() string { return "RDS Enhanced Monitoring" }

func (r RDSEnhancedMonitoringRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSEnhancedMonitoringRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if interval, ok := inst.MonitoringIntervalSeconds.Get(); ok && interval >= 1 {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"Enhanced monitoring should be configured for RDS DB instances",
		"Set monitoringInterval to 1, 5, 10, 15, 30 or 60 seconds and attach a monitoring role.")
}

// RDSDeletionProtectionRule flags clusters, and instances outside a cluster,
// that can be deleted without first disabling protection. Cluster members are
// skipped: protection is governed by the cluster.
type RDSDeletionProtectionRule struct{}

func (r RDSDeletionProtectionRule) ID() string   { return "RDS.8" }
func (r RDSDeletionProtectionRule) Name() string { return "RDS Deletion Protection" }

func (r RDSDeletionProtectionRule) Kinds() []resource.Kind { return rdsKinds }

func (r RDSDeletionProtectionRule) Evaluate(node resource.Node) []models.Finding {
	var protection resource.Value[bool]
	switch n := node.(type) {
	case *resource.RdsCluster:
		protection = n.DeletionProtection
	case *resource.RdsInstance:
		if n.InCluster() {
			return nil
		}
		protection = n.DeletionProtection
	default:
		return nil
	}
	if resource.IsTrue(protection) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"RDS DB instances and clusters should have deletion protection enabled",
		"Enable deletionProtection to guard against accidental database deletion.")
}

// RDSLogExportsRule flags clusters, and instances outside a cluster, whose
// CloudWatch log exports are missing or not a subset of the engine's expected
// log types.
type RDSLogExportsRule struct{}

func (r RDSLogExportsRule) ID() string   { return "RDS.9" }
func (r RDSLogExportsRule) Name() string { return "RDS Log Exports" }

func (r RDSLogExportsRule) Kinds() []resource.Kind { return rdsKinds }

func (r RDSLogExportsRule) Evaluate(node resource.Node) []models.Finding {
	var (
		engine  resource.Value[string]
		exports []string
	)
	switch n := node.(type) {
	case *resource.RdsCluster:
		engine, exports = n.Engine, n.EnabledCloudwatchLogExports
	case *resource.RdsInstance:
		if n.InCluster() {
			return nil
		}
		engine, exports = n.Engine, n.EnabledCloudwatchLogExports
	default:
		return nil
	}

	raise := len(exports) == 0
	expected := expectedLogExports(engine)
	for _, export := range exports {
		if _, ok := expected[export]; !ok {
			raise = true
			break
		}
	}
	if !raise {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"Database logging should be enabled",
		"Enable cloudwatchLogsExports for the log types the engine supports.")
}

// RDSInstanceIAMAuthRule flags standalone instances without IAM database
// authentication. Cluster members are covered by RDS.12 on the cluster.
type RDSInstanceIAMAuthRule struct{}

func (r RDSInstanceIAMAuthRule) ID() string   { return "RDS.10" }
func (r RDSInstanceIAMAuthRule) Name() string { return "RDS Instance IAM Authentication" }

func (r RDSInstanceIAMAuthRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSInstanceIAMAuthRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if inst.InCluster() || resource.IsTrue(inst.IAMDatabaseAuthentication) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"IAM authentication should be configured for existing RDS instances",
		"Enable enableIamDatabaseAuthentication so connections use IAM tokens instead of passwords.")
}

// RDSClusterIAMAuthRule is the cluster-level counterpart of RDS.10 with its
// own rule identifier and message.
type RDSClusterIAMAuthRule struct{}

func (r RDSClusterIAMAuthRule) ID() string   { return "RDS.12" }
func (r RDSClusterIAMAuthRule) Name() string { return "RDS Cluster IAM Authentication" }

func (r RDSClusterIAMAuthRule) Kinds() []resource.Kind { return clusterKinds }

func (r RDSClusterIAMAuthRule) Evaluate(node resource.Node) []models.Finding {
	cluster := node.(*resource.RdsCluster)
	if resource.IsTrue(cluster.IAMDatabaseAuthentication) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"IAM authentication should be configured for existing RDS clusters",
		"Enable enableIamDatabaseAuthentication on the cluster.")
}

// RDSAutoMinorUpgradeRule flags any instance, cluster member or not, that
// does not opt into automatic minor version upgrades.
type RDSAutoMinorUpgradeRule struct{}

func (r RDSAutoMinorUpgradeRule) ID() string   { return "RDS.13" }
func (r RDSAutoMinorUpgradeRule) Name() string { return "RDS Auto Minor Version Upgrade" }

func (r RDSAutoMinorUpgradeRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSAutoMinorUpgradeRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if resource.IsTrue(inst.AutoMinorVersionUpgrade) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"RDS automatic minor version upgrades should be enabled",
		"Enable autoMinorVersionUpgrade so security patches apply during maintenance windows.")
}

// RDSClusterCopyTagsRule warns on clusters that do not copy tags to
// snapshots. The copy-tags checks are the only warning-severity rules in the
// catalogue.
type RDSClusterCopyTagsRule struct{}

func (r RDSClusterCopyTagsRule) ID() string   { return "RDS.16" }
func (r RDSClusterCopyTagsRule) Name() string { return "RDS Cluster Copy Tags To Snapshots" }

func (r RDSClusterCopyTagsRule) Kinds() []resource.Kind { return clusterKinds }

func (r RDSClusterCopyTagsRule) Evaluate(node resource.Node) []models.Finding {
	cluster := node.(*resource.RdsCluster)
	if resource.IsTrue(cluster.CopyTagsToSnapshot) {
		return nil
	}
	return flag(r, node, models.SeverityWarning,
		"RDS DB clusters should be configured to copy tags to snapshots",
		"Enable copyTagsToSnapshot so snapshot ownership and cost attribution survive backups.")
}

// RDSInstanceCopyTagsRule warns on standalone instances that do not copy
// tags to snapshots.
type RDSInstanceCopyTagsRule struct{}

func (r RDSInstanceCopyTagsRule) ID() string   { return "RDS.17" }
func (r RDSInstanceCopyTagsRule) Name() string { return "RDS Instance Copy Tags To Snapshots" }

func (r RDSInstanceCopyTagsRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSInstanceCopyTagsRule) Evaluate(node resource.Node) []models.Finding {
	inst := node.(*resource.RdsInstance)
	if inst.InCluster() || resource.IsTrue(inst.CopyTagsToSnapshot) {
		return nil
	}
	return flag(r, node, models.SeverityWarning,
		"RDS DB instances should be configured to copy tags to snapshots",
		"Enable copyTagsToSnapshot so snapshot ownership and cost attribution survive backups.")
}

// RDSSnapshotPublicAccessRule is declared and gated like every other rule but
// has no evaluation logic: the snapshot public-access predicate was never
// implemented upstream and is preserved as an explicit no-op rather than
// guessed at. It appears in rule listings and can be disabled by policy, but
// it never raises.
type RDSSnapshotPublicAccessRule struct{}

func (r RDSSnapshotPublicAccessRule) ID() string   { return "RDS.1" }
func (r RDSSnapshotPublicAccessRule) Name() string { return "RDS Snapshot Public Access (unimplemented)" }

func (r RDSSnapshotPublicAccessRule) Kinds() []resource.Kind { return instanceKinds }

func (r RDSSnapshotPublicAccessRule) Evaluate(resource.Node) []models.Finding {
	return nil
}
