package rules

import (
	"strings"

	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

var policyKinds = []resource.Kind{resource.KindIamPolicy, resource.KindIamManagedPolicy}

// IAMFullAdminRule flags policies containing an Allow statement that grants
// action "*" on resource "*". Both lists must contain the literal "*"
// element; a wildcard action scoped to a concrete resource does not raise.
type IAMFullAdminRule struct{}

func (r IAMFullAdminRule) ID() string   { return "IAM.1" }
func (r IAMFullAdminRule) Name() string { return "IAM Full Administrative Privileges" }

func (r IAMFullAdminRule) Kinds() []resource.Kind { return policyKinds }

func (r IAMFullAdminRule) Evaluate(node resource.Node) []models.Finding {
	pol := node.(*resource.IamPolicy)

	for _, stmt := range pol.Statements {
		if stmt.Effect != "Allow" {
			continue
		}
		if containsLiteral(stmt.Actions, "*") && containsLiteral(stmt.Resources, "*") {
			return flag(r, node, models.SeverityError,
				`IAM policies should not allow full "*" administrative privileges`,
				"Replace the wildcard statement with the specific actions and resources the workload needs.")
		}
	}
	return nil
}

// IAMWildcardServiceActionsRule flags policies containing an Allow statement
// with a service-level wildcard action such as "s3:*". The bare action "*"
// does not end in ":*" and is left to IAM.1.
type IAMWildcardServiceActionsRule struct{}

func (r IAMWildcardServiceActionsRule) ID() string   { return "IAM.21" }
func (r IAMWildcardServiceActionsRule) Name() string { return "IAM Wildcard Service Actions" }

func (r IAMWildcardServiceActionsRule) Kinds() []resource.Kind { return policyKinds }

func (r IAMWildcardServiceActionsRule) Evaluate(node resource.Node) []models.Finding {
	pol := node.(*resource.IamPolicy)

	for _, stmt := range pol.Statements {
		if stmt.Effect != "Allow" {
			continue
		}
		for _, action := range stmt.Actions {
			if strings.HasSuffix(action, ":*") {
				return flag(r, node, models.SeverityError,
					"IAM customer managed policies that you create should not allow wildcard actions for services",
					"Enumerate the specific service actions instead of granting <service>:*.")
			}
		}
	}
	return nil
}

func containsLiteral(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
