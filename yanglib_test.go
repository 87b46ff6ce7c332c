package yangmodel

import (
	"testing"
)

func TestYANGLibrary(t *testing.T) {
	moduleSetNum = 0
	yfile := writeSampleYANGFile(t)
	schema, err := Load([]string{yfile}, nil, nil, YANGTreeOption{YANGLibrary2019: true})
	if err != nil {
		t.Fatalf("error in loading: %v", err)
	}
	yanglib := schema.GetYangLibrary()
	if yanglib == nil {
		t.Fatalf("failed to get yang library")
	}
	y, err := yanglib.(*DataBranch).MarshalYAML_RFC7951()
	if err != nil {
		t.Fatalf("error in marshalling: %v", err)
	}
	if len(y) == 0 {
		t.Errorf("yang library marshalled to empty output")
	}
	modules, err := Find(yanglib, "module-set/module[name=sample]")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(modules) != 1 {
		t.Errorf("len(modules) = %d, want 1", len(modules))
	}
}

func TestCapability(t *testing.T) {
	got := Capability("urn:example:sample", "sample", "2021-01-01")
	want := "urn:example:sample?module=sample&revision=2021-01-01"
	if got != want {
		t.Errorf("Capability() = %q, want %q", got, want)
	}

	got = Capability("urn:example:sample", "sample", "2021-01-01", "foo", "bar")
	want = "urn:example:sample?module=sample&revision=2021-01-01&features=foo,bar"
	if got != want {
		t.Errorf("Capability() with features = %q, want %q", got, want)
	}
}
