// Package template materializes resource nodes from CloudFormation templates.
// It fills the same slot in the pipeline that a live-API collector would:
// read the raw source, produce typed models, hand them to the rule engine.
package template

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opsaudit/stackscan/internal/resource"
)

// Load reads a template file (YAML or JSON; JSON is a YAML subset) and
// returns the resource nodes the scanner understands, ordered by logical ID.
// Resource types outside the recognized set are skipped, matching the
// scanner's own treatment of unrecognized variants.
func Load(path string) ([]resource.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nodes, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", path, err)
	}
	return nodes, nil
}

// Parse decodes template source and materializes nodes.
func Parse(data []byte) ([]resource.Node, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, err
	}
	if len(tpl.Resources) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(tpl.Resources))
	for id := range tpl.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var nodes []resource.Node
	tables := make(map[string]*resource.DynamoTable)

	for _, id := range ids {
		decl := tpl.Resources[id]
		switch decl.Type {
		case string(resource.KindApiGatewayStage):
			nodes = append(nodes, buildApiGatewayStage(id, decl.Properties))
		case string(resource.KindAutoScalingGroup):
			nodes = append(nodes, buildAutoScalingGroup(id, decl.Properties))
		case string(resource.KindDynamoTable):
			table := buildDynamoTable(id, decl.Properties)
			tables[id] = table
			nodes = append(nodes, table)
		case string(resource.KindIamPolicy):
			nodes = append(nodes, buildIamPolicy(id, decl.Properties, false))
		case string(resource.KindIamManagedPolicy):
			nodes = append(nodes, buildIamPolicy(id, decl.Properties, true))
		case string(resource.KindLambdaFunction):
			nodes = append(nodes, buildLambdaFunction(id, decl.Properties))
		case string(resource.KindRdsInstance):
			nodes = append(nodes, buildRdsInstance(id, decl.Properties))
		case string(resource.KindRdsCluster):
			nodes = append(nodes, buildRdsCluster(id, decl.Properties))
		case string(resource.KindS3Bucket):
			nodes = append(nodes, buildS3Bucket(id, decl.Properties))
		case string(resource.KindS3BucketPolicy):
			nodes = append(nodes, buildS3BucketPolicy(id, decl.Properties))
		}
	}

	// Second pass: attach application-autoscaling capacity targets to the
	// tables they reference.
	for _, id := range ids {
		decl := tpl.Resources[id]
		if decl.Type == "AWS::ApplicationAutoScaling::ScalableTarget" {
			attachScalableTarget(decl.Properties, tpl.Resources, tables)
		}
	}

	return nodes, nil
}

// isIntrinsic reports whether a raw property value is a deploy-time
// intrinsic: a single-key mapping whose key is "Ref" or starts with "Fn::".
//
// TODO: support short-form YAML intrinsic tags (!Ref, !GetAtt) via a custom
// yaml.Node unmarshaller; only long-form intrinsics are detected today.
func isIntrinsic(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	for key := range m {
		if key == "Ref" || strings.HasPrefix(key, "Fn::") {
			return true
		}
	}
	return false
}

// stringProp maps a raw property to a three-state string value.
func stringProp(props map[string]any, key string) resource.Value[string] {
	raw, ok := props[key]
	if !ok || raw == nil {
		return resource.Absent[string]()
	}
	if isIntrinsic(raw) {
		return resource.Unresolved[string]()
	}
	switch v := raw.(type) {
	case string:
		return resource.Known(v)
	case int, int64, float64, bool:
		return resource.Known(fmt.Sprint(v))
	default:
		return resource.Unresolved[string]()
	}
}

// boolProp maps a raw property to a three-state bool value. CloudFormation
// accepts "true"/"false" strings interchangeably with booleans.
func boolProp(props map[string]any, key string) resource.Value[bool] {
	raw, ok := props[key]
	if !ok || raw == nil {
		return resource.Absent[bool]()
	}
	if isIntrinsic(raw) {
		return resource.Unresolved[bool]()
	}
	switch v := raw.(type) {
	case bool:
		return resource.Known(v)
	case string:
		switch strings.ToLower(v) {
		case "true":
			return resource.Known(true)
		case "false":
			return resource.Known(false)
		}
	}
	return resource.Unresolved[bool]()
}

// intProp maps a raw property to a three-state int value.
func intProp(props map[string]any, key string) resource.Value[int] {
	raw, ok := props[key]
	if !ok || raw == nil {
		return resource.Absent[int]()
	}
	if isIntrinsic(raw) {
		return resource.Unresolved[int]()
	}
	switch v := raw.(type) {
	case int:
		return resource.Known(v)
	case int64:
		return resource.Known(int(v))
	case float64:
		return resource.Known(int(v))
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return resource.Known(n)
		}
	}
	return resource.Unresolved[int]()
}

// stringList collects the concrete string elements of a list property.
// Intrinsic elements are dropped: a value that is not known cannot
// participate in membership checks.
func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func childMap(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	return m, ok
}

func buildApiGatewayStage(id string, props map[string]any) *resource.ApiGatewayStage {
	stage := &resource.ApiGatewayStage{
		ID:                  id,
		ClientCertificateID: stringProp(props, "ClientCertificateId"),
		TracingEnabled:      boolProp(props, "TracingEnabled"),
	}

	raw, ok := props["MethodSettings"]
	switch {
	case !ok || raw == nil:
		stage.MethodSettings = resource.Absent[[]resource.Value[resource.MethodSetting]]()
	case isIntrinsic(raw):
		stage.MethodSettings = resource.Unresolved[[]resource.Value[resource.MethodSetting]]()
	default:
		items, ok := raw.([]any)
		if !ok {
			stage.MethodSettings = resource.Unresolved[[]resource.Value[resource.MethodSetting]]()
			break
		}
		entries := make([]resource.Value[resource.MethodSetting], 0, len(items))
		for _, item := range items {
			if isIntrinsic(item) {
				entries = append(entries, resource.Unresolved[resource.MethodSetting]())
				continue
			}
			entry, ok := childMap(item)
			if !ok {
				entries = append(entries, resource.Unresolved[resource.MethodSetting]())
				continue
			}
			entries = append(entries, resource.Known(resource.MethodSetting{
				LoggingLevel:       stringProp(entry, "LoggingLevel"),
				CachingEnabled:     boolProp(entry, "CachingEnabled"),
				CacheDataEncrypted: boolProp(entry, "CacheDataEncrypted"),
			}))
		}
		stage.MethodSettings = resource.Known(entries)
	}
	return stage
}

func buildAutoScalingGroup(id string, props map[string]any) *resource.AutoScalingGroup {
	return &resource.AutoScalingGroup{
		ID:                            id,
		LoadBalancerNames:             stringList(props["LoadBalancerNames"]),
		TargetGroupARNs:               stringList(props["TargetGroupARNs"]),
		HealthCheckType:               stringProp(props, "HealthCheckType"),
		HealthCheckGracePeriodSeconds: intProp(props, "HealthCheckGracePeriod"),
	}
}

func buildDynamoTable(id string, props map[string]any) *resource.DynamoTable {
	table := &resource.DynamoTable{
		ID:          id,
		BillingMode: stringProp(props, "BillingMode"),
	}

	raw, ok := props["PointInTimeRecoverySpecification"]
	switch {
	case !ok || raw == nil:
		table.PointInTimeRecovery = resource.Absent[resource.PointInTimeRecovery]()
	case isIntrinsic(raw):
		table.PointInTimeRecovery = resource.Unresolved[resource.PointInTimeRecovery]()
	default:
		spec, ok := childMap(raw)
		if !ok {
			table.PointInTimeRecovery = resource.Unresolved[resource.PointInTimeRecovery]()
			break
		}
		table.PointInTimeRecovery = resource.Known(resource.PointInTimeRecovery{
			Enabled: boolProp(spec, "PointInTimeRecoveryEnabled"),
		})
	}
	return table
}

func buildIamPolicy(id string, props map[string]any, managed bool) *resource.IamPolicy {
	pol := &resource.IamPolicy{ID: id, Managed: managed}
	doc, ok := childMap(props["PolicyDocument"])
	if !ok {
		return pol
	}
	items, ok := doc["Statement"].([]any)
	if !ok {
		return pol
	}
	for _, item := range items {
		stmt, ok := childMap(item)
		if !ok {
			continue
		}
		pol.Statements = append(pol.Statements, resource.PolicyStatement{
			Effect:    stringProp(stmt, "Effect").Or(""),
			Actions:   stringOrList(stmt["Action"]),
			Resources: stringOrList(stmt["Resource"]),
		})
	}
	return pol
}

// stringOrList handles the CloudFormation convention of a scalar-or-list
// property (e.g. a statement's Action).
func stringOrList(raw any) []string {
	if s, ok := raw.(string); ok {
		return []string{s}
	}
	return stringList(raw)
}

func buildLambdaFunction(id string, props map[string]any) *resource.LambdaFunction {
	return &resource.LambdaFunction{
		ID:      id,
		Runtime: stringProp(props, "Runtime"),
	}
}

func buildRdsInstance(id string, props map[string]any) *resource.RdsInstance {
	return &resource.RdsInstance{
		ID:                          id,
		Engine:                      stringProp(props, "Engine"),
		DBClusterIdentifier:         stringProp(props, "DBClusterIdentifier"),
		PubliclyAccessible:          boolProp(props, "PubliclyAccessible"),
		StorageEncrypted:            boolProp(props, "StorageEncrypted"),
		MultiAZ:                     boolProp(props, "MultiAZ"),
		MonitoringIntervalSeconds:   intProp(props, "MonitoringInterval"),
		DeletionProtection:          boolProp(props, "DeletionProtection"),
		IAMDatabaseAuthentication:   boolProp(props, "EnableIAMDatabaseAuthentication"),
		AutoMinorVersionUpgrade:     boolProp(props, "AutoMinorVersionUpgrade"),
		CopyTagsToSnapshot:          boolProp(props, "CopyTagsToSnapshot"),
		EnabledCloudwatchLogExports: stringList(props["EnableCloudwatchLogsExports"]),
	}
}

func buildRdsCluster(id string, props map[string]any) *resource.RdsCluster {
	return &resource.RdsCluster{
		ID:                          id,
		Engine:                      stringProp(props, "Engine"),
		DeletionProtection:          boolProp(props, "DeletionProtection"),
		IAMDatabaseAuthentication:   boolProp(props, "EnableIAMDatabaseAuthentication"),
		CopyTagsToSnapshot:          boolProp(props, "CopyTagsToSnapshot"),
		EnabledCloudwatchLogExports: stringList(props["EnableCloudwatchLogsExports"]),
	}
}

func buildS3Bucket(id string, props map[string]any) *resource.S3Bucket {
	bucket := &resource.S3Bucket{ID: id}

	raw, ok := props["BucketEncryption"]
	switch {
	case !ok || raw == nil:
		bucket.Encryption = resource.Absent[resource.BucketEncryption]()
		return bucket
	case isIntrinsic(raw):
		bucket.Encryption = resource.Unresolved[resource.BucketEncryption]()
		return bucket
	}

	encBlock, ok := childMap(raw)
	if !ok {
		bucket.Encryption = resource.Unresolved[resource.BucketEncryption]()
		return bucket
	}

	var enc resource.BucketEncryption
	rawRules, ok := encBlock["ServerSideEncryptionConfiguration"]
	switch {
	case !ok || rawRules == nil:
		enc.Rules = resource.Absent[[]resource.EncryptionRule]()
	case isIntrinsic(rawRules):
		enc.Rules = resource.Unresolved[[]resource.EncryptionRule]()
	default:
		items, ok := rawRules.([]any)
		if !ok {
			enc.Rules = resource.Unresolved[[]resource.EncryptionRule]()
			break
		}
		encRules := make([]resource.EncryptionRule, 0, len(items))
		for _, item := range items {
			entry, ok := childMap(item)
			if !ok {
				continue
			}
			er := resource.EncryptionRule{
				BucketKeyEnabled: boolProp(entry, "BucketKeyEnabled"),
			}
			rawDefault, present := entry["ServerSideEncryptionByDefault"]
			switch {
			case !present || rawDefault == nil:
				er.Default = resource.Absent[resource.DefaultEncryption]()
			case isIntrinsic(rawDefault):
				er.Default = resource.Unresolved[resource.DefaultEncryption]()
			default:
				if def, ok := childMap(rawDefault); ok {
					er.Default = resource.Known(resource.DefaultEncryption{
						SSEAlgorithm: stringProp(def, "SSEAlgorithm"),
					})
				} else {
					er.Default = resource.Unresolved[resource.DefaultEncryption]()
				}
			}
			encRules = append(encRules, er)
		}
		enc.Rules = resource.Known(encRules)
	}
	bucket.Encryption = resource.Known(enc)
	return bucket
}

func buildS3BucketPolicy(id string, props map[string]any) *resource.S3BucketPolicy {
	pol := &resource.S3BucketPolicy{
		ID:     id,
		Bucket: stringProp(props, "Bucket"),
	}
	doc, ok := childMap(props["PolicyDocument"])
	if !ok {
		return pol
	}
	items, ok := doc["Statement"].([]any)
	if !ok {
		return pol
	}
	for _, item := range items {
		stmt, ok := childMap(item)
		if !ok {
			continue
		}
		pol.Statements = append(pol.Statements, resource.PolicyStatement{
			Effect:    stringProp(stmt, "Effect").Or(""),
			Actions:   stringOrList(stmt["Action"]),
			Resources: stringOrList(stmt["Resource"]),
		})
	}
	return pol
}

// attachScalableTarget associates one ApplicationAutoScaling::ScalableTarget
// declaration with the DynamoDB table it targets, filling the table's
// Scaling sub-object. Targets for other services are ignored.
func attachScalableTarget(props map[string]any, decls map[string]Declaration, tables map[string]*resource.DynamoTable) {
	dimension := stringProp(props, "ScalableDimension").Or("")
	var read bool
	switch dimension {
	case "dynamodb:table:ReadCapacityUnits":
		read = true
	case "dynamodb:table:WriteCapacityUnits":
		read = false
	default:
		return
	}

	table := resolveTargetTable(props["ResourceId"], decls, tables)
	if table == nil {
		return
	}
	if table.Scaling == nil {
		table.Scaling = &resource.TableScaling{}
	}
	target := &resource.ScalingTarget{
		MinCapacity: intProp(props, "MinCapacity"),
		MaxCapacity: intProp(props, "MaxCapacity"),
	}
	if read {
		table.Scaling.Read = target
	} else {
		table.Scaling.Write = target
	}
}

// resolveTargetTable finds the table a scalable target's ResourceId points
// at, either via a concrete "table/<name>" string or via an intrinsic that
// mentions the table's logical ID or declared TableName.
func resolveTargetTable(rawResourceID any, decls map[string]Declaration, tables map[string]*resource.DynamoTable) *resource.DynamoTable {
	mentions := collectStrings(rawResourceID)
	for logicalID, table := range tables {
		name := logicalID
		if decl, ok := decls[logicalID]; ok {
			if tn := stringProp(decl.Properties, "TableName"); tn.IsKnown() {
				name = tn.Or(name)
			}
		}
		for _, s := range mentions {
			if strings.Contains(s, "table/"+name) || strings.Contains(s, logicalID) {
				return table
			}
		}
	}
	return nil
}

// collectStrings walks an arbitrary decoded value and gathers every string
// it contains, including strings nested inside intrinsic maps.
func collectStrings(raw any) []string {
	var out []string
	switch v := raw.(type) {
	case string:
		out = append(out, v)
	case []any:
		for _, item := range v {
			out = append(out, collectStrings(item)...)
		}
	case map[string]any:
		for _, item := range v {
			out = append(out, collectStrings(item)...)
		}
	}
	return out
}
