package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Confidence is how well a topic is known. Only the three constants below are
// valid values.
type Confidence string

const (
	ConfidenceNotConfident Confidence = "not-confident"
	ConfidenceSomewhat     Confidence = "somewhat"
	ConfidenceConfident    Confidence = "confident"
)

// ConfidenceLevels lists the levels in revision priority order: the topics
// that need the most attention come first.
var ConfidenceLevels = []Confidence{
	ConfidenceNotConfident,
	ConfidenceSomewhat,
	ConfidenceConfident,
}

// IsValid reports whether c is one of the defined levels.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceNotConfident, ConfidenceSomewhat, ConfidenceConfident:
		return true
	}
	return false
}

func (c Confidence) String() string {
	return string(c)
}

// ParseConfidence converts s to a Confidence, rejecting unknown values.
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid confidence level %q", s)
	}
	return c, nil
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseConfidence(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Confidence) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseConfidence(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
