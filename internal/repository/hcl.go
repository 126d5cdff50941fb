package repository

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nsoverlay/internal/ctyconv"
	"github.com/zclconf/go-cty/cty"
)

type hclFile struct {
	Namespaces []*hclNamespace `hcl:"namespace,block"`
}

type hclNamespace struct {
	Name       string      `hcl:"name,label"`
	Attributes *cty.Value  `hcl:"attributes,optional"`
	Functions  []string    `hcl:"functions,optional"`
	Classes    []*hclClass `hcl:"class,block"`
}

type hclClass struct {
	Name string  `hcl:"name,label"`
	Base *string `hcl:"base,optional"`
}

func decodeHCL(path string) ([]namespaceDump, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	dumps := make([]namespaceDump, 0, len(root.Namespaces))
	for _, ns := range root.Namespaces {
		dump := namespaceDump{Name: ns.Name, Functions: ns.Functions}
		if ns.Attributes != nil {
			attrs, err := ctyconv.ObjectToNative(*ns.Attributes)
			if err != nil {
				return nil, fmt.Errorf("namespace '%s' in %s: attributes: %w", ns.Name, path, err)
			}
			dump.Attributes = attrs
		}
		for _, c := range ns.Classes {
			cls := classDump{Name: c.Name}
			if c.Base != nil {
				cls.Base = *c.Base
			}
			dump.Classes = append(dump.Classes, cls)
		}
		dumps = append(dumps, dump)
	}
	return dumps, nil
}
