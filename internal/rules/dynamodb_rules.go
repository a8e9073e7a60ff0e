package rules

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

var tableKinds = []resource.Kind{resource.KindDynamoTable}

// DynamoDBAutoScalingRule flags provisioned tables with no autoscaling target
// on either capacity dimension. A table with at least one scalable dimension
// (read or write) passes.
type DynamoDBAutoScalingRule struct{}

func (r DynamoDBAutoScalingRule) ID() string   { return "DynamoDB.1" }
func (r DynamoDBAutoScalingRule) Name() string { return "DynamoDB Capacity Auto Scaling" }

func (r DynamoDBAutoScalingRule) Kinds() []resource.Kind { return tableKinds }

func (r DynamoDBAutoScalingRule) Evaluate(node resource.Node) []models.Finding {
	table := node.(*resource.DynamoTable)

	if table.Scaling != nil && (table.Scaling.Read != nil || table.Scaling.Write != nil) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"DynamoDB tables should automatically scale capacity with demand",
		"Register application-autoscaling targets for read and write capacity, or switch the table to on-demand billing.")
}

// DynamoDBPITRRule flags tables without point-in-time recovery. A missing
// PITR specification raises; an unresolved one does not, since the concrete
// block cannot be inspected.
type DynamoDBPITRRule struct{}

func (r DynamoDBPITRRule) ID() string   { return "DynamoDB.2" }
func (r DynamoDBPITRRule) Name() string { return "DynamoDB Point-In-Time Recovery" }

func (r DynamoDBPITRRule) Kinds() []resource.Kind { return tableKinds }

func (r DynamoDBPITRRule) Evaluate(node resource.Node) []models.Finding {
	table := node.(*resource.DynamoTable)

	raise := table.PointInTimeRecovery.IsAbsent()
	if spec, ok := table.PointInTimeRecovery.Get(); ok && !resource.IsTrue(spec.Enabled) {
		raise = true
	}
	if !raise {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"DynamoDB tables should have point-in-time recovery enabled",
		"Set pointInTimeRecoveryEnabled on the table to allow restores to any second in the last 35 days.")
}
