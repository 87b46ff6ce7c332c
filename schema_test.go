package yangmodel

import (
	"testing"
)

func TestLoad(t *testing.T) {
	schema := loadSampleSchema(t)
	if schema == nil {
		t.Fatal("Load returned a nil schema")
	}
	top := schema.GetSchema("top")
	if top == nil {
		t.Fatal("top container schema not found")
	}
	if !top.IsContainer() {
		t.Errorf("top should be a container schema")
	}
}

func TestFindSchema(t *testing.T) {
	schema := loadSampleSchema(t)
	item := schema.FindSchema("/top/item")
	if item == nil {
		t.Fatal("FindSchema(/top/item) returned nil")
	}
	if !item.IsList() {
		t.Errorf("item schema should be a list")
	}
	value := schema.FindSchema("/top/item/value")
	if value == nil {
		t.Fatal("FindSchema(/top/item/value) returned nil")
	}
	if !value.IsLeaf() {
		t.Errorf("value schema should be a leaf")
	}
}

func TestGetQName(t *testing.T) {
	schema := loadSampleSchema(t)
	top := schema.GetSchema("top")
	name, boundary := top.GetQName(true)
	if name != "sample:top" {
		t.Errorf("GetQName(rfc7951=true) = %q, want %q", name, "sample:top")
	}
	if !boundary {
		t.Errorf("top is a module boundary node, GetQName should report boundary = true")
	}
}

func TestIsListHasKey(t *testing.T) {
	schema := loadSampleSchema(t)
	item := schema.GetSchema("top").GetSchema("item")
	if !item.IsListHasKey() {
		t.Errorf("item should report IsListHasKey() == true")
	}
	if item.Keyname[0] != "id" {
		t.Errorf("item key = %v, want [id]", item.Keyname)
	}
}

func TestYANGLibraryLoad(t *testing.T) {
	yfile := writeSampleYANGFile(t)
	schema, err := Load([]string{yfile}, nil, nil, YANGTreeOption{YANGLibrary2019: true})
	if err != nil {
		t.Fatalf("error in loading: %v", err)
	}
	yanglib := schema.GetYangLibrary()
	if yanglib == nil {
		t.Fatal("failed to get yang library")
	}
	modules, err := Find(yanglib, "module-set/module[name=sample]")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(modules) != 1 {
		t.Errorf("len(modules) = %d, want 1", len(modules))
	}
}
