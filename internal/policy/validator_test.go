package policy

import "testing"

var testRuleIDs = []string{"RDS.2", "RDS.3", "S3.4"}

func TestValidateNilConfig(t *testing.T) {
	errs := Validate(nil, testRuleIDs)
	if len(errs) != 1 {
		t.Fatalf("want 1 error for nil config, got %d", len(errs))
	}
}

func TestValidateCleanConfig(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Categories: map[string]CategoryConfig{
			"RDS": {Rules: map[string]RuleConfig{"RDS.2": {Enabled: boolPtr(false)}}},
		},
		Enforcement: EnforcementConfig{FailOnSeverity: "error"},
	}
	if errs := Validate(cfg, testRuleIDs); len(errs) != 0 {
		t.Errorf("want no errors, got %v", errs)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Version: 7,
		Categories: map[string]CategoryConfig{
			"Bogus": {Rules: map[string]RuleConfig{"Bogus.1": {}}},
			"RDS":   {Rules: map[string]RuleConfig{"S3.4": {}}},
		},
		Enforcement: EnforcementConfig{FailOnSeverity: "fatal"},
	}
	errs := Validate(cfg, testRuleIDs)
	// version + unknown category + unknown rule + misplaced rule + bad severity
	if len(errs) != 5 {
		t.Fatalf("want 5 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateMisplacedRule(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Categories: map[string]CategoryConfig{
			"RDS": {Rules: map[string]RuleConfig{"S3.4": {}}},
		},
	}
	errs := Validate(cfg, testRuleIDs)
	if len(errs) != 1 {
		t.Fatalf("want 1 error for misplaced rule, got %d: %v", len(errs), errs)
	}
}
