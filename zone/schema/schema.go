// Package schema runs a structural pre-check of ED-318 documents against the
// embedded JSON Schema of their GeoJSON skeleton.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonreference"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed ed318.json
var document []byte

// Schema definition IDs within the embedded document.
const (
	IDFeatureCollection = "ed318.json#/definitions/FeatureCollection"
	IDFeature           = "ed318.json#/definitions/Feature"
	IDGeometry          = "ed318.json#/definitions/Geometry"
)

// Issue is a schema violation.
type Issue struct {
	// Path holds object keys (string) and array indexes (int).
	Path        []interface{}
	Type        string
	Description string
}

// Checker holds the compiled schema of each top-level object type.
type Checker struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the embedded schema.
func New() (*Checker, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(document, &root); err != nil {
		return nil, fmt.Errorf("error decoding embedded schema: %v", err)
	}
	c := &Checker{schemas: make(map[string]*gojsonschema.Schema, 3)}
	for kind, id := range map[string]string{
		"FeatureCollection": IDFeatureCollection,
		"Feature":           IDFeature,
		"Geometry":          IDGeometry,
	} {
		s, err := compile(root, id)
		if err != nil {
			return nil, fmt.Errorf("error compiling schema %s: %v", id, err)
		}
		c.schemas[kind] = s
	}
	return c, nil
}

// compile builds a schema whose root points at one of the definitions of the
// embedded document.
func compile(root map[string]interface{}, id string) (*gojsonschema.Schema, error) {
	ref, err := gojsonreference.NewJsonReference(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := ref.GetPointer().Get(root); err != nil {
		return nil, fmt.Errorf("definition not found: %v", err)
	}
	doc := make(map[string]interface{}, len(root)+1)
	for k, v := range root {
		doc[k] = v
	}
	doc["$ref"] = "#" + ref.GetUrl().Fragment
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
}

// Check validates a generic JSON tree. The schema is chosen after the
// top-level type member; anything that is not a Feature or FeatureCollection
// is checked as a geometry.
func (c *Checker) Check(doc interface{}) ([]Issue, error) {
	kind := "Geometry"
	if m, ok := doc.(map[string]interface{}); ok {
		if t, ok := m["type"].(string); ok && (t == "FeatureCollection" || t == "Feature") {
			kind = t
		}
	}
	res, err := c.schemas[kind].Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	issues := make([]Issue, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		path := splitField(e.Context().String())
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok && (len(path) == 0 || path[len(path)-1] != prop) {
				path = append(path, prop)
			}
		}
		issues = append(issues, Issue{Path: path, Type: e.Type(), Description: e.Description()})
	}
	return issues, nil
}

// splitField converts a gojsonschema context such as (root).features.0.geometry.
func splitField(field string) []interface{} {
	if field == "" || field == "(root)" {
		return nil
	}
	field = strings.TrimPrefix(field, "(root).")
	var path []interface{}
	for _, part := range strings.Split(field, ".") {
		if i, err := strconv.Atoi(part); err == nil {
			path = append(path, i)
			continue
		}
		path = append(path, part)
	}
	return path
}
