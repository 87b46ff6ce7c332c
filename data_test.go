package yangmodel

import (
	"testing"
)

func buildSampleTree(t *testing.T) (DataNode, *SchemaNode) {
	t.Helper()
	schema := loadSampleSchema(t)
	root, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode(root) failed: %v", err)
	}
	top, err := root.(*DataBranch).Create("top")
	if err != nil {
		t.Fatalf("Create(top) failed: %v", err)
	}
	topb := top.(*DataBranch)
	if _, err := topb.Create("name", "box1"); err != nil {
		t.Fatalf("Create(name) failed: %v", err)
	}
	if _, err := topb.Create("num", "42"); err != nil {
		t.Fatalf("Create(num) failed: %v", err)
	}
	for _, tag := range []string{"a", "b", "c"} {
		tagSchema := topb.schema.GetSchema("tag")
		tagNode, err := NewDataNode(tagSchema, tag)
		if err != nil {
			t.Fatalf("NewDataNode(tag) failed: %v", err)
		}
		if _, err := topb.Insert(tagNode, nil); err != nil {
			t.Fatalf("Insert(tag) failed: %v", err)
		}
	}
	for _, id := range []string{"x", "y"} {
		item, err := topb.Create("item[id=" + id + "]")
		if err != nil {
			t.Fatalf("Create(item) failed: %v", err)
		}
		if _, err := item.(*DataBranch).Create("value", "v-"+id); err != nil {
			t.Fatalf("Create(item/value) failed: %v", err)
		}
	}
	return root, schema
}

func TestNewDataNode(t *testing.T) {
	root, _ := buildSampleTree(t)
	topNode := root.(*DataBranch).Get("top")
	if topNode == nil {
		t.Fatalf("top container not found")
	}
	top := topNode.(*DataBranch)
	if got := top.GetValueString("name"); got != "box1" {
		t.Errorf("name = %q, want %q", got, "box1")
	}
	if got := top.GetValueString("num"); got != "42" {
		t.Errorf("num = %q, want %q", got, "42")
	}
	tags := top.GetAll("tag")
	if len(tags) != 3 {
		t.Fatalf("len(tags) = %d, want 3", len(tags))
	}
	items := top.GetAll("item")
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
}

func TestGetOrNew(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top").(*DataBranch)
	n, created, err := top.GetOrNew("item[id=x]", nil)
	if err != nil {
		t.Fatalf("GetOrNew(existing) failed: %v", err)
	}
	if created {
		t.Errorf("GetOrNew(existing) reported created, want found")
	}
	if n.GetValueString("value") != "v-x" {
		t.Errorf("value = %q, want %q", n.GetValueString("value"), "v-x")
	}
	n, created, err = top.GetOrNew("item[id=z]", nil)
	if err != nil {
		t.Fatalf("GetOrNew(new) failed: %v", err)
	}
	if !created {
		t.Errorf("GetOrNew(new) reported found, want created")
	}
	if n.ID() != "item[id=z]" {
		t.Errorf("ID() = %q, want %q", n.ID(), "item[id=z]")
	}
}

func TestDelete(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top").(*DataBranch)
	item := top.Get("item[id=x]")
	if item == nil {
		t.Fatalf("item[id=x] not found")
	}
	if err := top.Delete(item); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if top.Get("item[id=x]") != nil {
		t.Errorf("item[id=x] still present after Delete")
	}
	if len(top.GetAll("item")) != 1 {
		t.Errorf("len(items) = %d, want 1", len(top.GetAll("item")))
	}
}

func TestCloneAndEqual(t *testing.T) {
	root, _ := buildSampleTree(t)
	clone := Clone(root)
	if clone == nil {
		t.Fatalf("Clone returned nil")
	}
	if !Equal(root, clone) {
		t.Errorf("Clone() is not Equal() to the source tree")
	}
	top := clone.(*DataBranch).Get("top").(*DataBranch)
	if err := top.Get("name").(*DataLeaf).Set("box2"); err != nil {
		t.Fatalf("Set(name) failed: %v", err)
	}
	if Equal(root, clone) {
		t.Errorf("mutated clone still reports Equal() to the source tree")
	}
}

func TestReplace(t *testing.T) {
	root, schema := buildSampleTree(t)
	top := root.(*DataBranch).Get("top").(*DataBranch)

	other, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode failed: %v", err)
	}
	otherTop, err := other.(*DataBranch).Create("top")
	if err != nil {
		t.Fatalf("Create(top) failed: %v", err)
	}
	if _, err := otherTop.(*DataBranch).Create("name", "replaced"); err != nil {
		t.Fatalf("Create(name) failed: %v", err)
	}
	if err := top.Replace(otherTop); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got := top.GetValueString("name"); got != "replaced" {
		t.Errorf("name after Replace = %q, want %q", got, "replaced")
	}
	if top.Get("num") != nil {
		t.Errorf("num should be gone after Replace, still present")
	}
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	root, schema := buildSampleTree(t)
	jbytes, err := MarshalJSON(root)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	fresh, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode failed: %v", err)
	}
	if err := UnmarshalJSON(fresh, jbytes); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if !Equal(root, fresh) {
		t.Errorf("round-tripped JSON tree is not Equal() to the source")
	}
}

func TestMarshalJSONRFC7951(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top").(*DataBranch)
	jbytes, err := top.MarshalJSON_RFC7951()
	if err != nil {
		t.Fatalf("MarshalJSON_RFC7951 failed: %v", err)
	}
	if len(jbytes) == 0 {
		t.Errorf("MarshalJSON_RFC7951 returned empty output")
	}
}

func TestMarshalYAML(t *testing.T) {
	root, schema := buildSampleTree(t)
	ybytes, err := root.(*DataBranch).MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML failed: %v", err)
	}
	fresh, err := NewDataNode(schema)
	if err != nil {
		t.Fatalf("NewDataNode failed: %v", err)
	}
	if err := fresh.(*DataBranch).UnmarshalYAML(ybytes); err != nil {
		t.Fatalf("UnmarshalYAML failed: %v", err)
	}
	if !Equal(root, fresh) {
		t.Errorf("round-tripped YAML tree is not Equal() to the source")
	}
}

func TestFind(t *testing.T) {
	root, _ := buildSampleTree(t)
	nodes, err := Find(root, "/top/item")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("len(nodes) = %d, want 2", len(nodes))
	}
	nodes, err = Find(root, "/top/name")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ValueString() != "box1" {
		t.Errorf("Find(/top/name) = %v, want [box1]", nodes)
	}
}

func TestCreatedWithDefault(t *testing.T) {
	schema := loadSampleSchema(t)
	numSchema := schema.GetSchema("top").GetSchema("num")
	if numSchema.Default == "" {
		t.Fatalf("num schema has no default configured")
	}
	leaf, err := NewDataNode(numSchema)
	if err != nil {
		t.Fatalf("NewDataNode failed: %v", err)
	}
	if got := leaf.ValueString(); got != "0" {
		t.Errorf("default value = %q, want %q", got, "0")
	}
}

func TestStateNode(t *testing.T) {
	root, _ := buildSampleTree(t)
	top := root.(*DataBranch).Get("top").(*DataBranch)
	state, err := top.Create("state")
	if err != nil {
		t.Fatalf("Create(state) failed: %v", err)
	}
	if !state.IsStateNode() {
		t.Errorf("state container should report IsStateNode() == true")
	}
	jbytes, err := MarshalJSON(root, ConfigOnly{})
	if err != nil {
		t.Fatalf("MarshalJSON(ConfigOnly) failed: %v", err)
	}
	if containsBytes(jbytes, "state") {
		t.Errorf("ConfigOnly marshal leaked the state container: %s", jbytes)
	}
}

func containsBytes(b []byte, substr string) bool {
	return len(b) > 0 && (func() bool {
		for i := 0; i+len(substr) <= len(b); i++ {
			if string(b[i:i+len(substr)]) == substr {
				return true
			}
		}
		return false
	})()
}
