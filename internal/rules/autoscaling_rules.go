package rules

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

// AutoScalingLBHealthCheckRule flags Auto Scaling groups that are attached to
// a load balancer but do not configure both a health check type and a grace
// period. Without ELB health checks the group keeps routing traffic to
// instances the load balancer already considers unhealthy.
type AutoScalingLBHealthCheckRule struct{}

func (r AutoScalingLBHealthCheckRule) ID() string   { return "AutoScaling.1" }
func (r AutoScalingLBHealthCheckRule) Name() string { return "Auto Scaling LB Health Check" }

func (r AutoScalingLBHealthCheckRule) Kinds() []resource.Kind {
	return []resource.Kind{resource.KindAutoScalingGroup}
}

func (r AutoScalingLBHealthCheckRule) Evaluate(node resource.Node) []models.Finding {
	group := node.(*resource.AutoScalingGroup)

	if len(group.LoadBalancerNames)+len(group.TargetGroupARNs) == 0 {
		return nil
	}
	// "Set" means proven set: an unresolved value cannot be verified, so it
	// counts as unset like everything else that cannot be proven compliant.
	if group.HealthCheckType.IsKnown() && group.HealthCheckGracePeriodSeconds.IsKnown() {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"Auto Scaling groups associated with a load balancer should use load balancer health checks",
		"Set healthCheckType to ELB and configure healthCheckGracePeriod on the group.")
}
