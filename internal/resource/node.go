package resource

// Kind identifies the concrete variant of a resource node. The values are the
// CloudFormation resource type strings so the template loader can map
// declarations to variants without a translation table.
type Kind string

const (
	KindApiGatewayStage  Kind = "AWS::ApiGateway::Stage"
	KindAutoScalingGroup Kind = "AWS::AutoScaling::AutoScalingGroup"
	KindDynamoTable      Kind = "AWS::DynamoDB::Table"
	KindIamPolicy        Kind = "AWS::IAM::Policy"
	KindIamManagedPolicy Kind = "AWS::IAM::ManagedPolicy"
	KindLambdaFunction   Kind = "AWS::Lambda::Function"
	KindRdsInstance      Kind = "AWS::RDS::DBInstance"
	KindRdsCluster       Kind = "AWS::RDS::DBCluster"
	KindS3Bucket         Kind = "AWS::S3::Bucket"
	KindS3BucketPolicy   Kind = "AWS::S3::BucketPolicy"
)

// Node is one declared infrastructure resource awaiting deployment.
// Nodes are owned by the caller; the scanner only reads them during a single
// Visit and holds no reference afterwards.
type Node interface {
	// LogicalID returns the template-level identifier of the declaration.
	LogicalID() string

	// Kind returns the concrete variant tag used for rule dispatch.
	Kind() Kind
}

// MethodSetting is one entry of an API Gateway stage's method settings list.
type MethodSetting struct {
	// LoggingLevel is the execution logging level ("OFF", "ERROR", "INFO").
	LoggingLevel Value[string]

	// CachingEnabled reports whether responses are cached for this method scope.
	CachingEnabled Value[bool]

	// CacheDataEncrypted reports whether cached responses are encrypted.
	CacheDataEncrypted Value[bool]
}

// ApiGatewayStage is a deployed stage of a REST API.
type ApiGatewayStage struct {
	ID string

	// ClientCertificateID is the certificate API Gateway presents to the backend.
	ClientCertificateID Value[string]

	// TracingEnabled reports whether AWS X-Ray tracing is active for the stage.
	TracingEnabled Value[bool]

	// MethodSettings is the per-method-scope settings list. The list itself and
	// each entry may independently be Unresolved.
	MethodSettings Value[[]Value[MethodSetting]]
}

func (s *ApiGatewayStage) LogicalID() string { return s.ID }
func (s *ApiGatewayStage) Kind() Kind        { return KindApiGatewayStage }

// AutoScalingGroup is an EC2 Auto Scaling group.
type AutoScalingGroup struct {
	ID string

	// LoadBalancerNames lists attached classic load balancers.
	LoadBalancerNames []string

	// TargetGroupARNs lists attached ALB/NLB target groups.
	TargetGroupARNs []string

	// HealthCheckType is "EC2" or "ELB".
	HealthCheckType Value[string]

	// HealthCheckGracePeriodSeconds is the warm-up window before health checks count.
	HealthCheckGracePeriodSeconds Value[int]
}

func (g *AutoScalingGroup) LogicalID() string { return g.ID }
func (g *AutoScalingGroup) Kind() Kind        { return KindAutoScalingGroup }

// ScalingTarget is one registered application-autoscaling capacity dimension.
type ScalingTarget struct {
	MinCapacity Value[int]
	MaxCapacity Value[int]
}

// TableScaling groups the autoscaling targets registered against a table.
type TableScaling struct {
	Read  *ScalingTarget
	Write *ScalingTarget
}

// PointInTimeRecovery is the PITR specification block of a DynamoDB table.
type PointInTimeRecovery struct {
	Enabled Value[bool]
}

// DynamoTable is a DynamoDB table together with any autoscaling targets the
// loader associated with it.
type DynamoTable struct {
	ID string

	// BillingMode is "PROVISIONED" or "PAY_PER_REQUEST".
	BillingMode Value[string]

	// Scaling is nil when no autoscaling target references the table.
	Scaling *TableScaling

	// PointInTimeRecovery is the PITR specification, when declared.
	PointInTimeRecovery Value[PointInTimeRecovery]
}

func (t *DynamoTable) LogicalID() string { return t.ID }
func (t *DynamoTable) Kind() Kind        { return KindDynamoTable }

// PolicyStatement is one statement of an IAM policy document.
type PolicyStatement struct {
	// Effect is "Allow" or "Deny".
	Effect string

	// Actions lists the statement's action strings.
	Actions []string

	// Resources lists the statement's resource strings.
	Resources []string
}

// IamPolicy is an inline or customer managed IAM policy.
type IamPolicy struct {
	ID string

	// Managed distinguishes AWS::IAM::ManagedPolicy from an inline AWS::IAM::Policy.
	Managed bool

	// Statements is the policy document's statement list. May be empty on a
	// malformed declaration; rules handle that, not the dispatcher.
	Statements []PolicyStatement
}

func (p *IamPolicy) LogicalID() string { return p.ID }

func (p *IamPolicy) Kind() Kind {
	if p.Managed {
		return KindIamManagedPolicy
	}
	return KindIamPolicy
}

// LambdaFunction is a Lambda function declaration.
type LambdaFunction struct {
	ID string

	// Runtime is the runtime identifier (e.g. "python3.12").
	Runtime Value[string]
}

func (f *LambdaFunction) LogicalID() string { return f.ID }
func (f *LambdaFunction) Kind() Kind        { return KindLambdaFunction }

// RdsInstance is an RDS database instance. An instance that belongs to an
// Aurora cluster carries the cluster identifier in DBClusterIdentifier;
// several rules apply only to standalone instances.
type RdsInstance struct {
	ID string

	// Engine is the database engine name (e.g. "postgres", "sqlserver-ee").
	Engine Value[string]

	// DBClusterIdentifier is set when the instance is a cluster member.
	DBClusterIdentifier Value[string]

	PubliclyAccessible          Value[bool]
	StorageEncrypted            Value[bool]
	MultiAZ                     Value[bool]
	MonitoringIntervalSeconds   Value[int]
	DeletionProtection          Value[bool]
	IAMDatabaseAuthentication   Value[bool]
	AutoMinorVersionUpgrade     Value[bool]
	CopyTagsToSnapshot          Value[bool]
	EnabledCloudwatchLogExports []string
}

func (i *RdsInstance) LogicalID() string { return i.ID }
func (i *RdsInstance) Kind() Kind        { return KindRdsInstance }

// InCluster reports whether the instance declares a cluster membership.
// A deploy-time reference to a cluster still counts as membership.
func (i *RdsInstance) InCluster() bool {
	return !i.DBClusterIdentifier.IsAbsent()
}

// RdsCluster is an Aurora database cluster.
type RdsCluster struct {
	ID string

	Engine                      Value[string]
	DeletionProtection          Value[bool]
	IAMDatabaseAuthentication   Value[bool]
	CopyTagsToSnapshot          Value[bool]
	EnabledCloudwatchLogExports []string
}

func (c *RdsCluster) LogicalID() string { return c.ID }
func (c *RdsCluster) Kind() Kind        { return KindRdsCluster }

// DefaultEncryption is the ServerSideEncryptionByDefault block of an S3
// bucket encryption rule.
type DefaultEncryption struct {
	// SSEAlgorithm is "AES256" or "aws:kms".
	SSEAlgorithm Value[string]
}

// EncryptionRule is one entry of a bucket's server-side encryption
// configuration list.
type EncryptionRule struct {
	BucketKeyEnabled Value[bool]
	Default          Value[DefaultEncryption]
}

// BucketEncryption is the server-side encryption configuration of a bucket.
type BucketEncryption struct {
	// Rules is the ServerSideEncryptionConfiguration list.
	Rules Value[[]EncryptionRule]
}

// S3Bucket is an S3 bucket declaration.
type S3Bucket struct {
	ID string

	// Encryption is the bucket's server-side encryption configuration block.
	Encryption Value[BucketEncryption]
}

func (b *S3Bucket) LogicalID() string { return b.ID }
func (b *S3Bucket) Kind() Kind        { return KindS3Bucket }

// S3BucketPolicy is a bucket policy declaration. No rule group currently
// registers for it; the scanner skips it like any other unrecognized variant.
type S3BucketPolicy struct {
	ID string

	// Bucket names or references the bucket the policy attaches to.
	Bucket Value[string]

	// Statements is the policy document's statement list.
	Statements []PolicyStatement
}

func (p *S3BucketPolicy) LogicalID() string { return p.ID }
func (p *S3BucketPolicy) Kind() Kind        { return KindS3BucketPolicy }
