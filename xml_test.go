package yangmodel

import (
	"strings"
	"testing"
)

func TestMarshalXML(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top")
	b, err := MarshalXML(top)
	if err != nil {
		t.Fatalf("MarshalXML failed: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "<top") {
		t.Errorf("marshalled XML missing <top> element: %s", s)
	}
	if !strings.Contains(s, "<name>box1</name>") {
		t.Errorf("marshalled XML missing name leaf: %s", s)
	}
}

func TestMarshalXMLIndent(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top")
	b, err := MarshalXMLIndent(top, "", "  ")
	if err != nil {
		t.Fatalf("MarshalXMLIndent failed: %v", err)
	}
	if len(b) == 0 {
		t.Errorf("MarshalXMLIndent returned empty output")
	}
}

func TestMarshalXMLConfigFilter(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top").(*DataBranch)
	if _, err := top.Create("state"); err != nil {
		t.Fatalf("Create(state) failed: %v", err)
	}
	b, err := MarshalXML(top, ConfigOnly{})
	if err != nil {
		t.Fatalf("MarshalXML(ConfigOnly) failed: %v", err)
	}
	if strings.Contains(string(b), "<state>") {
		t.Errorf("ConfigOnly marshal leaked the state container: %s", b)
	}
}

func TestUnmarshalXMLLeaf(t *testing.T) {
	schema := loadSampleSchema(t)
	nameSchema := schema.GetSchema("top").GetSchema("name")
	leaf, err := NewDataNode(nameSchema, "box1")
	if err != nil {
		t.Fatalf("NewDataNode failed: %v", err)
	}
	b, err := MarshalXML(leaf, RepresentItself{})
	if err != nil {
		t.Fatalf("MarshalXML failed: %v", err)
	}
	fresh, err := NewDataNode(nameSchema)
	if err != nil {
		t.Fatalf("NewDataNode failed: %v", err)
	}
	if err := UnmarshalXML(fresh, b, RepresentItself{}); err != nil {
		t.Fatalf("UnmarshalXML failed: %v", err)
	}
	if fresh.ValueString() != "box1" {
		t.Errorf("ValueString() = %q, want %q", fresh.ValueString(), "box1")
	}
}

func TestUnmarshalXMLBranch(t *testing.T) {
	schema := loadSampleSchema(t)
	root, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode(root) failed: %v", err)
	}
	doc := `<top>
  <name>box1</name>
  <num>7</num>
  <tag>a</tag>
  <tag>b</tag>
  <item><id>x</id><value>v-x</value></item>
</top>`
	if err := UnmarshalXML(root, []byte(doc), Strict); err != nil {
		t.Fatalf("UnmarshalXML failed: %v", err)
	}
	top := root.(*DataBranch).Get("top")
	if top == nil {
		t.Fatalf("top not created")
	}
	if v := top.GetValueString("name"); v != "box1" {
		t.Errorf("name = %q, want %q", v, "box1")
	}
	tags := top.GetAll("tag")
	if len(tags) != 2 {
		t.Errorf("len(tags) = %d, want 2", len(tags))
	}
	if item := top.Get("item[id=x]"); item == nil {
		t.Errorf("item[id=x] not created")
	}
}

func TestUnmarshalXMLStrictRejectsUnknownElement(t *testing.T) {
	schema := loadSampleSchema(t)
	root, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode(root) failed: %v", err)
	}
	doc := `<top><bogus>x</bogus></top>`
	if err := UnmarshalXML(root, []byte(doc), Strict); err == nil {
		t.Errorf("UnmarshalXML with unknown element under Strict should fail")
	}
}

func TestUnmarshalXMLEditRejectsStateData(t *testing.T) {
	schema := loadSampleSchema(t)
	root, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode(root) failed: %v", err)
	}
	doc := `<top><state><counter>1</counter></state></top>`
	if err := UnmarshalXML(root, []byte(doc), Strict|Edit); err == nil {
		t.Errorf("UnmarshalXML of state data under Edit should fail")
	}
}
