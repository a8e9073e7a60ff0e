package rules

import (
	"fmt"
	"time"

	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

// Rule is a single deterministic compliance check over one resource node.
// Rules must be stateless and safe to call concurrently. They must never
// mutate the node, make network calls, or read external state, and they emit
// at most one finding per visited node.
//
// Unless a rule documents otherwise, indeterminate input (Absent or
// Unresolved where a concrete value is needed) raises the finding: a
// declaration is compliant only when it can be proven compliant.
type Rule interface {
	// ID returns the stable rule identifier (e.g. "RDS.3"). The category
	// component before the dot is the policy gating category.
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Kinds returns the node variants this rule registers for. The scanner
	// only calls Evaluate with nodes of these kinds.
	Kinds() []resource.Kind

	// Evaluate inspects node and returns zero or one finding.
	// A nil slice means the declaration is compliant (or the check does not
	// apply to this particular node).
	Evaluate(node resource.Node) []models.Finding
}

// resourceTypes maps node kinds to the finding-level resource type labels.
var resourceTypes = map[resource.Kind]models.ResourceType{
	resource.KindApiGatewayStage:  models.ResourceApiGatewayStage,
	resource.KindAutoScalingGroup: models.ResourceAutoScalingGroup,
	resource.KindDynamoTable:      models.ResourceDynamoTable,
	resource.KindIamPolicy:        models.ResourceIamPolicy,
	resource.KindIamManagedPolicy: models.ResourceIamPolicy,
	resource.KindLambdaFunction:   models.ResourceLambdaFunction,
	resource.KindRdsInstance:      models.ResourceRdsInstance,
	resource.KindRdsCluster:       models.ResourceRdsCluster,
	resource.KindS3Bucket:         models.ResourceS3Bucket,
}

// flag builds the single finding a failed check emits. The message is the
// external contract: "[<rule id>] <text>", reproduced verbatim in tests.
func flag(r Rule, node resource.Node, severity models.Severity, text, recommendation string) []models.Finding {
	return []models.Finding{{
		ID:             fmt.Sprintf("%s-%s", r.ID(), node.LogicalID()),
		RuleID:         r.ID(),
		ResourceID:     node.LogicalID(),
		ResourceType:   resourceTypes[node.Kind()],
		Severity:       severity,
		Message:        fmt.Sprintf("[%s] %s", r.ID(), text),
		Recommendation: recommendation,
		DetectedAt:     time.Now().UTC(),
	}}
}
