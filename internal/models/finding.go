package models

import "time"

// Severity is the reporting level of a finding. Compliance diagnostics are
// errors with the single exception of the copy-tags-to-snapshot checks, which
// report as warnings.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// ResourceType identifies the kind of declared resource a finding refers to.
type ResourceType string

const (
	ResourceApiGatewayStage  ResourceType = "APIGATEWAY_STAGE"
	ResourceAutoScalingGroup ResourceType = "AUTOSCALING_GROUP"
	ResourceDynamoTable      ResourceType = "DYNAMODB_TABLE"
	ResourceIamPolicy        ResourceType = "IAM_POLICY"
	ResourceLambdaFunction   ResourceType = "LAMBDA_FUNCTION"
	ResourceRdsInstance      ResourceType = "RDS_INSTANCE"
	ResourceRdsCluster       ResourceType = "RDS_CLUSTER"
	ResourceS3Bucket         ResourceType = "S3_BUCKET"
)

// Finding is a single compliance diagnostic attached to one resource
// declaration. It is the atomic output unit of the rule engine.
//
// Message is a versioned external contract: it always begins with the
// bracketed rule identifier (e.g. "[RDS.3] RDS DB instances should have
// encryption at rest enabled") and downstream tooling asserts on the exact
// text. Never rephrase an existing message.
type Finding struct {
	ID             string         `json:"id"`
	RuleID         string         `json:"rule_id"`
	ResourceID     string         `json:"resource_id"`
	ResourceType   ResourceType   `json:"resource_type"`
	Severity       Severity       `json:"severity"`
	Message        string         `json:"message"`
	Recommendation string         `json:"recommendation,omitempty"`
	DetectedAt     time.Time      `json:"detected_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
