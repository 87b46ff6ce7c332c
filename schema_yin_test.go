package yangmodel

import (
	"strings"
	"testing"
)

// sampleYIN is the YIN (XML) encoding of a leaf subset of sampleYANG, used
// to check the YIN front-end produces the same schema model the YANG text
// front-end does for an equivalent input (spec.md SS6).
const sampleYIN = `<?xml version="1.0" encoding="UTF-8"?>
<module name="yinsample" xmlns="urn:ietf:params:xml:ns:yang:yin:1">
  <namespace uri="urn:yangmodel:yinsample"/>
  <prefix value="yinsample"/>
  <container name="top">
    <leaf name="name">
      <type name="string"/>
    </leaf>
    <leaf name="num">
      <type name="uint32"/>
      <default value="0"/>
    </leaf>
  </container>
</module>
`

func TestParseYIN(t *testing.T) {
	yfile := writeSampleYANGFile(t)
	schema, err := Load([]string{yfile}, nil, nil)
	if err != nil {
		t.Fatalf("loading YANG-text sample: %v", err)
	}
	_ = schema

	ms := schema.Modules
	if err := ParseYIN(ms, []byte(sampleYIN), "yinsample.yin"); err != nil {
		t.Fatalf("ParseYIN: %v", err)
	}
	m, ok := ms.Modules["yinsample"]
	if !ok {
		t.Fatal("yinsample module not found after ParseYIN")
	}
	if m.Namespace == nil || m.Namespace.Name != "urn:yangmodel:yinsample" {
		t.Errorf("namespace = %v, want urn:yangmodel:yinsample", m.Namespace)
	}
	if len(m.Container) != 1 || m.Container[0].Name != "top" {
		t.Fatalf("expected one container %q, got %v", "top", m.Container)
	}
}

func TestPrintYIN(t *testing.T) {
	schema := loadSampleSchema(t)
	m := schema.Modules.Modules["sample"]
	if m == nil {
		t.Fatal("sample module not found")
	}
	out, err := PrintYIN(m)
	if err != nil {
		t.Fatalf("PrintYIN: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `<module name="sample"`) {
		t.Errorf("PrintYIN output missing module element: %s", s)
	}
	if !strings.Contains(s, `<container name="top">`) {
		t.Errorf("PrintYIN output missing top container: %s", s)
	}
}
