package resolver

import (
	"errors"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

func TestApplyTag_BuiltinPassesThrough(t *testing.T) {
	mod := newTestModule(t, "a: 1\n", nil)
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int"}
	got := mod.applyTag(n, float64(1))
	if got != float64(1) {
		t.Errorf("applyTag(builtin) = %v, want value unchanged", got)
	}
}

func TestApplyTag_IgnoreTagsPassesThrough(t *testing.T) {
	mod := newTestModule(t, "a: 1\n", &state.Options{IgnoreTags: true})
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!custom"}
	got := mod.applyTag(n, "raw")
	if got != "raw" {
		t.Errorf("applyTag(IgnoreTags) = %v, want raw passed through", got)
	}
	if len(mod.Errors) != 0 {
		t.Errorf("expected no errors, got %v", mod.Errors)
	}
}

func TestApplyTag_NoSchemaConfigured(t *testing.T) {
	mod := newTestModule(t, "a: 1\n", nil)
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!custom"}
	mod.applyTag(n, "raw")

	found := false
	for _, e := range mod.Errors {
		if e.Code == "resolve.no_schema" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected resolve.no_schema, got %v", mod.Errors)
	}
}

func TestApplyTag_UnknownTag(t *testing.T) {
	opts := &state.Options{Schema: []state.TagDef{
		{Tag: "!known", Kind: "scalar", Resolve: func(data interface{}, onError func(string), o map[string]interface{}) (interface{}, error) {
			return data, nil
		}},
	}}
	mod := newTestModule(t, "a: 1\n", opts)
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!unknown"}
	mod.applyTag(n, "raw")

	found := false
	for _, e := range mod.Errors {
		if e.Code == "resolve.unknown_tag" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected resolve.unknown_tag, got %v", mod.Errors)
	}
}

func TestApplyTag_ResolverSuccess(t *testing.T) {
	opts := &state.Options{Schema: []state.TagDef{
		{Tag: "!upper", Kind: "scalar", Resolve: func(data interface{}, onError func(string), o map[string]interface{}) (interface{}, error) {
			return "UPPERED", nil
		}},
	}}
	mod := newTestModule(t, "a: 1\n", opts)
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!upper"}
	got := mod.applyTag(n, "raw")
	if got != "UPPERED" {
		t.Errorf("applyTag = %v, want UPPERED", got)
	}
	if len(mod.Errors) != 0 {
		t.Errorf("expected no errors on success, got %v", mod.Errors)
	}
}

func TestApplyTag_ResolverReturnsError(t *testing.T) {
	opts := &state.Options{Schema: []state.TagDef{
		{Tag: "!boom", Kind: "scalar", Resolve: func(data interface{}, onError func(string), o map[string]interface{}) (interface{}, error) {
			return nil, errors.New("kaboom")
		}},
	}}
	mod := newTestModule(t, "a: 1\n", opts)
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!boom"}
	mod.applyTag(n, "raw")

	found := false
	for _, e := range mod.Errors {
		if e.Code == "resolve.tag_error" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected resolve.tag_error from a returned error, got %v", mod.Errors)
	}
}

func TestApplyTag_ResolverCallsOnError(t *testing.T) {
	opts := &state.Options{Schema: []state.TagDef{
		{Tag: "!maybe", Kind: "scalar", Resolve: func(data interface{}, onError func(string), o map[string]interface{}) (interface{}, error) {
			onError("not valid here")
			return data, nil
		}},
	}}
	mod := newTestModule(t, "a: 1\n", opts)
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!maybe"}
	mod.applyTag(n, "raw")

	found := false
	for _, e := range mod.Errors {
		if e.Code == "resolve.tag_error" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected resolve.tag_error from onError callback, got %v", mod.Errors)
	}
}

func TestKindName(t *testing.T) {
	cases := map[yaml.Kind]string{
		yaml.ScalarNode:   "scalar",
		yaml.MappingNode:  "map",
		yaml.SequenceNode: "seq",
		yaml.AliasNode:    "",
	}
	for k, want := range cases {
		if got := kindName(k); got != want {
			t.Errorf("kindName(%v) = %q, want %q", k, got, want)
		}
	}
}
