package template

// Template is the subset of a CloudFormation template the scanner reads.
// Both YAML and JSON templates decode into it.
type Template struct {
	AWSTemplateFormatVersion string                 `yaml:"AWSTemplateFormatVersion,omitempty"`
	Description              string                 `yaml:"Description,omitempty"`
	Resources                map[string]Declaration `yaml:"Resources"`
}

// Declaration is one resource declaration in a template.
type Declaration struct {
	Type       string         `yaml:"Type"`
	Properties map[string]any `yaml:"Properties"`
}
