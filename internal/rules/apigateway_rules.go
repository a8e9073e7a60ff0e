package rules

import (
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/resource"
)

var stageKinds = []resource.Kind{resource.KindApiGatewayStage}

// APIGatewayExecutionLoggingRule flags stages whose execution logging is off.
// A stage with no method settings at all cannot have logging enabled; a stage
// with settings fails when any concrete entry leaves the logging level unset
// or sets it to "OFF".
type APIGatewayExecutionLoggingRule struct{}

func (r APIGatewayExecutionLoggingRule) ID() string   { return "APIGateway.1" }
func (r APIGatewayExecutionLoggingRule) Name() string { return "API Gateway Execution Logging" }

func (r APIGatewayExecutionLoggingRule) Kinds() []resource.Kind { return stageKinds }

func (r APIGatewayExecutionLoggingRule) Evaluate(node resource.Node) []models.Finding {
	stage := node.(*resource.ApiGatewayStage)

	raise := false
	switch {
	case stage.MethodSettings.IsAbsent():
		raise = true
	case stage.MethodSettings.IsKnown():
		entries, _ := stage.MethodSettings.Get()
		for _, entry := range entries {
			ms, ok := entry.Get()
			if !ok {
				// Entry itself is deploy-time-resolved; nothing to prove here.
				continue
			}
			if ms.LoggingLevel.IsAbsent() || ms.LoggingLevel.Or("") == "OFF" {
				raise = true
				break
			}
		}
	}
	if !raise {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"API Gateway REST and WebSocket API execution logging should be enabled",
		"Set a method-settings entry with loggingLevel ERROR or INFO for every method scope.")
}

// APIGatewayClientCertificateRule flags stages that present no client
// certificate to the backend, leaving backend endpoints unable to verify
// that requests originate from API Gateway.
type APIGatewayClientCertificateRule struct{}

func (r APIGatewayClientCertificateRule) ID() string   { return "APIGateway.2" }
func (r APIGatewayClientCertificateRule) Name() string { return "API Gateway Backend SSL Certificate" }

func (r APIGatewayClientCertificateRule) Kinds() []resource.Kind { return stageKinds }

func (r APIGatewayClientCertificateRule) Evaluate(node resource.Node) []models.Finding {
	stage := node.(*resource.ApiGatewayStage)
	// A deploy-time certificate reference still counts as configured.
	if !stage.ClientCertificateID.IsAbsent() {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"API Gateway REST API stages should be configured to use SSL certificates for backend authentication",
		"Associate a client certificate with the stage so backends can authenticate API Gateway.")
}

// APIGatewayXRayTracingRule flags stages without active X-Ray tracing.
// An unresolved tracing flag is not raised; a missing or false one is.
type APIGatewayXRayTracingRule struct{}

func (r APIGatewayXRayTracingRule) ID() string   { return "APIGateway.3" }
func (r APIGatewayXRayTracingRule) Name() string { return "API Gateway X-Ray Tracing" }

func (r APIGatewayXRayTracingRule) Kinds() []resource.Kind { return stageKinds }

func (r APIGatewayXRayTracingRule) Evaluate(node resource.Node) []models.Finding {
	stage := node.(*resource.ApiGatewayStage)
	if stage.TracingEnabled.IsUnresolved() || resource.IsTrue(stage.TracingEnabled) {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"API Gateway REST API stages should have AWS X-Ray tracing enabled",
		"Enable tracingEnabled on the stage to capture X-Ray traces for incoming requests.")
}

// APIGatewayCacheEncryptionRule flags stages that cache responses without
// encrypting the cache data at rest.
type APIGatewayCacheEncryptionRule struct{}

func (r APIGatewayCacheEncryptionRule) ID() string   { return "APIGateway.5" }
func (r APIGatewayCacheEncryptionRule) Name() string { return "API Gateway Cache Encryption" }

func (r APIGatewayCacheEncryptionRule) Kinds() []resource.Kind { return stageKinds }

func (r APIGatewayCacheEncryptionRule) Evaluate(node resource.Node) []models.Finding {
	stage := node.(*resource.ApiGatewayStage)

	raise := stage.MethodSettings.IsAbsent()
	if entries, ok := stage.MethodSettings.Get(); ok {
		for _, entry := range entries {
			ms, ok := entry.Get()
			if !ok {
				continue
			}
			if resource.IsTrue(ms.CachingEnabled) && !resource.IsTrue(ms.CacheDataEncrypted) {
				raise = true
				break
			}
		}
	}
	if !raise {
		return nil
	}
	return flag(r, node, models.SeverityError,
		"API Gateway REST API cache data should be encrypted at rest",
		"Set cacheDataEncrypted on every method-settings entry that enables caching.")
}
