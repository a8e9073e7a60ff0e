package rules

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

var functionKinds = []resource.Kind{resource.KindLambdaFunction}

// supportedRuntimes is the closed allow-list of runtimes the scanner accepts.
// Deliberately an explicit enumeration, not a pattern match: deprecated
// runtimes must fall out of this set by editing it, and new runtimes must be
// added here when AWS announces them.
var supportedRuntimes = map[string]struct{}{
	"nodejs18.x":      {},
	"nodejs20.x":      {},
	"nodejs22.x":      {},
	"python3.10":      {},
	"python3.11":      {},
	"python3.12":      {},
	"python3.13":      {},
	"java11":          {},
	"java17":          {},
	"java21":          {},
	"dotnet6":         {},
	"dotnet8":         {},
	"ruby3.2":         {},
	"ruby3.3":         {},
	"provided.al2":    {},
	"provided.al2023": {},
}

// LambdaSupportedRuntimeRule flags functions whose runtime is not in the
// supported allow-list. A runtime that cannot be proven to be a member
// (absent or unresolved) raises.
type LambdaSupportedRuntimeRule struct{}

func (r LambdaSupportedRuntimeRule) ID() string   { return "Lambda.2" }
func (r LambdaSupportedRuntimeRule) Name() string { return "Lambda Supported Runtime" }

func (r LambdaSupportedRuntimeRule) Kinds() []resource.Kind { return functionKinds }

func (r LambdaSupportedRuntimeRule) Evaluate(node resource.Node) []models.Finding {
	fn := node.(*resource.LambdaFunction)

	if runtime, ok := fn.Runtime.Get(); ok {
		if _, supported := supportedRuntimes[runtime]; supported {
			return nil
		}
	}
	return flag(r, node, models.SeverityError,
		"Lambda functions should use supported runtimes",
		"Migrate the function to a currently supported runtime version.")
}

// LambdaPublicPolicyRule is declared and gated like every other rule but has
// no evaluation logic: the resource-policy public-access predicate was never
// implemented upstream and is preserved here as an explicit no-op rather than
// guessed at. It appears in rule listings and can be disabled by policy, but
// it never raises.
type LambdaPublicPolicyRule struct{}

func (r LambdaPublicPolicyRule) ID() string   { return "Lambda.1" }
func (r LambdaPublicPolicyRule) Name() string { return "Lambda Public Resource Policy (unimplemented)" }

func (r LambdaPublicPolicyRule) Kinds() []resource.Kind { return functionKinds }

func (r LambdaPublicPolicyRule) Evaluate(resource.Node) []models.Finding {
	return nil
}
