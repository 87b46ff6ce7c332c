package yangmodel

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

// sampleYANG is a small self-contained module used across the test suite so
// tests don't depend on an external YANG corpus being checked out alongside
// this module.
const sampleYANG = `
module sample {
  namespace "urn:yangmodel:sample";
  prefix "sample";

  container top {
    leaf name {
      type string;
    }
    leaf num {
      type uint32;
      default 0;
    }
    leaf-list tag {
      type string;
    }
    list item {
      key "id";
      leaf id {
        type string;
      }
      leaf value {
        type string;
      }
    }
    container state {
      config false;
      leaf counter {
        type uint64;
      }
    }
  }
}
`

// writeSampleYANGFile writes sampleYANG to a temp file and returns its path.
func writeSampleYANGFile(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "yangmodel-sample")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	yfile := filepath.Join(dir, "sample.yang")
	if err := ioutil.WriteFile(yfile, []byte(sampleYANG), 0644); err != nil {
		t.Fatal(err)
	}
	return yfile
}

// loadSampleSchema writes sampleYANG to a temp file and loads it, returning
// the root schema node.
func loadSampleSchema(t *testing.T) *SchemaNode {
	t.Helper()
	schema, err := Load([]string{writeSampleYANGFile(t)}, nil, nil)
	if err != nil {
		t.Fatalf("error loading sample schema: %v", err)
	}
	return schema
}
