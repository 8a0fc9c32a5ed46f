package handlers

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"packaging_cell/internal/service"

	"github.com/swaggo/swag"
)

var ginParam = regexp.MustCompile(`:([A-Za-z_]+)`)

func TestSwaggerCoversRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("swagger template is not valid JSON: %v", err)
	}

	r := newTestRouter(&service.Service{})
	for _, rt := range r.Routes() {
		if strings.HasPrefix(rt.Path, "/swagger/") {
			continue
		}
		path := ginParam.ReplaceAllString(rt.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("route %s %s missing from swagger paths", rt.Method, path)
			continue
		}
		if _, ok := ops[strings.ToLower(rt.Method)]; !ok {
			t.Errorf("route %s %s missing its method in swagger", rt.Method, path)
		}
	}
}
