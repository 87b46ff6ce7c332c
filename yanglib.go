package yangmodel

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

func (schema *SchemaNode) GetYangLibrary() DataNode {
	schema = schema.GetRootSchema()
	n, ok := schema.Annotation["ietf-yang-libary"]
	if ok {
		return n.(DataNode)
	}
	return nil
}

// Capability builds a single module capability URI of the form a NETCONF
// <hello> capabilities list carries, per RFC 6020 appendix B / RFC 7895:
//   {namespace}?module={modulename}&revision={revision}
//   {namespace}?module={modulename}&revision={revision}&features={feature},{feature},..
func Capability(namespace, modulename, revision string, features ...string) string {
	uri := fmt.Sprintf("%s?module=%s&revision=%s", namespace, modulename, revision)
	if len(features) > 0 {
		uri += "&features=" + strings.Join(features, ",")
	}
	return uri
}

func checkAccessableObjects(p yang.Node, nodelist interface{}) bool {
	v := reflect.ValueOf(nodelist)
	for i := 0; i < v.Len(); i++ {
		vv := v.Index(i)
		node := vv.Interface()
		if p == node.(yang.Node).ParentNode() {
			return true
		}
	}
	return false
}

func getConformanceType(m *yang.Module, excluded []string) (conformancetype string) {
	for i := range excluded {
		if excluded[i] == m.Name {
			return "import"
		}
	}
	// check the module has protocol-accessible objects.
	implement := false
	if len(m.Augment) > 0 {
		implement = true
	}
	if len(m.Deviation) > 0 {
		implement = true
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Anydata)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Anyxml)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Container)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Choice)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.List)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Uses)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Leaf)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.LeafList)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.RPC)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Notification)
	}
	if !implement {
		implement = checkAccessableObjects(m, m.Anydata)
	}

	if implement {
		conformancetype = "implement"
	} else {
		conformancetype = "import"
	}
	return
}

// Module set ID
var moduleSetNum int

func loadYanglibrary(rootschema *SchemaNode, excluded []string) error {
	modulemap := rootschema.Modules.Modules
	moduleSetNum++
	ylib := modulemap["ietf-yang-library"]
	if ylib == nil {
		if rootschema.Option.YANGLibrary2016 ||
			rootschema.Option.YANGLibrary2019 {
			return fmt.Errorf("yanglib: ietf-yang-library is not loaded")
		}
		return nil
	}
	var err error
	var top DataNode
	switch ylib.Current() {
	case "2019-01-04":
		moduleSetName := fmt.Sprintf("set-%d", moduleSetNum)
		// load the previous module set
		if rootschema.Option != nil && rootschema.Option.SchemaSetName != "" {
			moduleSetName = rootschema.Option.SchemaSetName
		}
		top, err = NewDataNode(rootschema.GetSchema("yang-library"))
		if err != nil {
			return fmt.Errorf(`yanglib: %q not found`, "yang-library")
		}
		var mods []*yang.Module
		for _, m := range modulemap {
			mods = append(mods, m)
		}
		sort.Slice(mods, func(i, j int) bool {
			if mods[i].Name < mods[j].Name {
				return true
			} else if mods[i].Name == mods[j].Name {
				return mods[i].Current() < mods[j].Current()
			}
			return true
		})
		for _, m := range modulemap {
			if m.BelongsTo != nil {
				continue
			}
			name, revision, namespace := m.Name, m.Current(), ""
			if m.Namespace != nil {
				namespace = m.Namespace.Name
			}

			// module
			listname := "module"
			isImport := getConformanceType(m, excluded)
			if isImport == "import" {
				listname = "import-only-module"
				err := Set(top, fmt.Sprintf(
					"module-set[name=%s]/%s[name=%s][revision=%s]",
					moduleSetName, listname, name, revision),
					fmt.Sprintf(`{"namespace":%q}`, namespace))
				if err != nil {
					return fmt.Errorf("yanglib: unable to add module %q: %v", name, err)
				}
			} else {
				err := Set(top, fmt.Sprintf(
					"module-set[name=%s]/%s[name=%s][revision=%s]",
					moduleSetName, listname, name, revision),
					fmt.Sprintf(`{"namespace":%q}`, namespace))
				if err != nil {
					return fmt.Errorf("yanglib: unable to add module %q: %v", name, err)
				}
				// feature
				for i := range m.Feature {
					p := fmt.Sprintf(
						"module-set[name=%s]/%s[name=%s][revision=%s]/feature[.=%s]",
						moduleSetName, listname, name, revision, m.Feature[i].Name)
					err = Set(top, p, m.Feature[i].Name)
					if err != nil {
						return fmt.Errorf("yanglib: unable to add module %q: %v", name, err)
					}
				}
				// deviation
				for i := range m.Deviation {
					// fmt.Println(m.Name, m.Deviation[i].Name)
					pathnode, err := ParsePath(&m.Deviation[i].Name)
					if err != nil || len(pathnode) == 0 {
						return fmt.Errorf("yanglib: can not find target node %q to deviate", m.Deviation[i].Name)
					}
					prefix := pathnode[len(pathnode)-1].Prefix
					target := yang.FindModuleByPrefix(m, prefix)
					if target == nil {
						target = modulemap[prefix]
						if target == nil {
							return fmt.Errorf("yanglib: deviation schema %q not found", m.Deviation[i].Name)
						}
					}
					p := fmt.Sprintf("module-set[name=%s]/%s[name=%s][revision=%s]/deviation[.=%s]",
						moduleSetName, listname, target.Name, target.Current(), name)
					if n, err := Find(top, p); err == nil && len(n) == 0 {
						err = Set(top, p, name)
						if err != nil {
							return fmt.Errorf("yanglib: unable to add deviation module to %q: %v", name, err)
						}
					}
				}
			}

			// submodule
			for i := range m.Include {
				sm := m.Include[i].Module
				if sm != nil {
					subname, subrevision := sm.Name, sm.Current()
					err := Set(top, fmt.Sprintf(
						"module-set[name=%s]/%s[name=%s]/submodule[name=%s][revision=%s]",
						moduleSetName, listname, name, subname, subrevision), "")
					if err != nil {
						return fmt.Errorf("yanglib: unable to add submodule %q: %v", name, err)
					}
				}
			}
		}
		var contentId strings.Builder
		b, _ := MarshalYAML(top, InternalFormat{})
		// fmt.Println(string(b))
		h := sha1.New()
		io.WriteString(h, string(b))
		b = h.Sum(nil)
		encoder := base64.NewEncoder(base64.StdEncoding, &contentId)
		encoder.Write(b)
		encoder.Close()
		// fmt.Println(contentId.String())
		if err := Set(top, "content-id", contentId.String()); err != nil {
			return fmt.Errorf("yanglib: content-id generation error: %v", err)
		}
	case "2016-06-21":
		top, err = NewDataNode(rootschema.GetSchema("modules-state"))
		if err != nil {
			return fmt.Errorf(`yanglib: %q not found`, "modules-state")
		}
		for _, m := range modulemap {
			name, revision, namespace := m.Name, m.Current(), ""
			if m.Namespace != nil {
				namespace = m.Namespace.Name
			}
			// module
			if m.BelongsTo == nil {
				err := Set(top, fmt.Sprintf("module[name=%s][revision=%s]", name, revision),
					fmt.Sprintf(`{"namespace":%q,"conformance-type":%q}`, namespace, getConformanceType(m, excluded)))
				if err != nil {
					return fmt.Errorf("yanglib: unable to add module %q: %v", name, err)
				}
			}
			// feature
			for i := range m.Feature {
				p := fmt.Sprintf("module[name=%s][revision=%s]/feature[.=%s]", name, revision, m.Feature[i].Name)
				if n, err := Find(top, p); err == nil && len(n) == 0 {
					err = Set(top, p, m.Feature[i].Name)
					if err != nil {
						return fmt.Errorf("yanglib: unable to add deviation module to %q: %v", name, err)
					}
				}
			}
			// deviation
			for i := range m.Deviation {
				pathnode, err := ParsePath(&m.Deviation[i].Name)
				if err != nil || len(pathnode) == 0 {
					return fmt.Errorf("yanglib: can not find target node %q to deviate", m.Deviation[i].Name)
				}
				prefix := pathnode[len(pathnode)-1].Prefix
				target := yang.FindModuleByPrefix(m, prefix)
				if target == nil {
					target = modulemap[prefix]
					if target == nil {
						return fmt.Errorf("yanglib: deviation schema %q not found", m.Deviation[i].Name)
					}
				}
				err = Set(top, fmt.Sprintf("module[name=%s][revision=%s]/deviation[name=%s][revision=%s]",
					target.Name, target.Current(), name, revision), "")
				if err != nil {
					return fmt.Errorf("yanglib: unable to add deviation module to %q: %v", name, err)
				}
			}
			// submodule
			for i := range m.Include {
				sm := m.Include[i].Module
				if sm != nil {
					subname, subrevision := sm.Name, sm.Current()
					err := Set(top, fmt.Sprintf("module[name=%s][revision=%s]/submodule[name=%s][revision=%s]",
						name, revision, subname, subrevision), "")
					if err != nil {
						return fmt.Errorf("yanglib: unable to add submodule %q: %v", name, err)
					}
				}
			}
		}
		var moduleSetId strings.Builder
		b, _ := MarshalYAML(top, InternalFormat{})
		// fmt.Println(string(b))
		h := sha1.New()
		io.WriteString(h, string(b))
		b = h.Sum(nil)
		encoder := base64.NewEncoder(base64.StdEncoding, &moduleSetId)
		encoder.Write(b)
		encoder.Close()
		// fmt.Println(moduleSetId.String())
		if err := Set(top, "module-set-id", moduleSetId.String()); err != nil {
			return fmt.Errorf("yanglib: module-set-id generation error: %v", err)
		}
	}
	if top != nil {
		if rootschema.Annotation == nil {
			rootschema.Annotation = make(map[string]interface{})
		}
		rootschema.Annotation["ietf-yang-libary"] = top
	}
	return nil
}
