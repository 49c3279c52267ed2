package message

import (
	"testing"
)

func TestExtractMethodName(t *testing.T) {
	cases := []struct {
		msg  string
		want string
		ok   bool
	}{
		{"invoke virtual method 'int java.lang.String.length()'", "length", true},
		{"Attempt to invoke virtual method 'void android.widget.TextView.setText(java.lang.CharSequence)' on a null object reference", "setText", true},
		{"Attempt to invoke interface method 'int java.util.List.size()' on a null object reference", "size", true},
		{"invoke virtual method on something", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractMethodName(tc.msg)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ExtractMethodName(%q) = (%q, %v), want (%q, %v)", tc.msg, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractFieldName(t *testing.T) {
	cases := []struct {
		msg  string
		want string
		ok   bool
	}{
		{"read from field 'java.lang.String Main.userName'", "userName", true},
		{"Attempt to write to field 'int com.example.Counter.count' on a null object reference", "count", true},
		{"Attempt to read from field 'int[] com.example.Grid.cells' on a null object reference", "cells", true},
		{"read from field userName", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractFieldName(tc.msg)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ExtractFieldName(%q) = (%q, %v), want (%q, %v)", tc.msg, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractClassCastTypes(t *testing.T) {
	cases := []struct {
		msg      string
		from, to string
		ok       bool
	}{
		{"java.lang.String cannot be cast to java.lang.Integer", "String", "Integer", true},
		{"class java.lang.String cannot be cast to class java.lang.Integer (java.lang.String and java.lang.Integer are in module java.base of loader 'bootstrap')", "String", "Integer", true},
		{"android.widget.TextView cannot be cast to android.widget.Button", "TextView", "Button", true},
		{"interface conversion: interface {} is string, not int", "string", "int", true},
		{"Type mismatch", "", "", false},
	}
	for _, tc := range cases {
		from, to, ok := ExtractClassCastTypes(tc.msg)
		if from != tc.from || to != tc.to || ok != tc.ok {
			t.Errorf("ExtractClassCastTypes(%q) = (%q, %q, %v), want (%q, %q, %v)", tc.msg, from, to, ok, tc.from, tc.to, tc.ok)
		}
	}
}

func TestExtractIndexAndSize(t *testing.T) {
	cases := []struct {
		msg         string
		index, size int
		ok          bool
	}{
		{"Index: 5, Size: 3", 5, 3, true},
		{"index:5 size:3", 5, 3, true},
		{"Index 10 out of bounds for length 5", 10, 5, true},
		{"length=3; index=5", 5, 3, true},
		{"runtime error: index out of range [5] with length 3", 5, 3, true},
		{"Index -1 out of bounds for length 0", -1, 0, true},
		{"Index: 99999999999999999999, Size: 3", 0, 0, false},
		{"Invalid index", 0, 0, false},
	}
	for _, tc := range cases {
		index, size, ok := ExtractIndexAndSize(tc.msg)
		if index != tc.index || size != tc.size || ok != tc.ok {
			t.Errorf("ExtractIndexAndSize(%q) = (%d, %d, %v), want (%d, %d, %v)", tc.msg, index, size, ok, tc.index, tc.size, tc.ok)
		}
	}
}

func TestGrammarsMatchTheirSamples(t *testing.T) {
	all := append([]grammar{methodGrammar, fieldGrammar}, castGrammars...)
	all = append(all, indexGrammars...)
	for _, g := range all {
		if !g.pattern.MatchString(g.sample) {
			t.Errorf("grammar %s does not match its pinned sample %q", g.name, g.sample)
		}
	}
}

func TestSimplifyTypeName(t *testing.T) {
	cases := map[string]string{
		"java.lang.String":    "String",
		"String":              "String",
		"com.example.Outer$1": "Outer$1",
		"":                    "",
	}
	for in, want := range cases {
		if got := SimplifyTypeName(in); got != want {
			t.Errorf("SimplifyTypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"\ufeffIndex: 1, Size: 0": "Index: 1, Size: 0",
		"line one\r\nline two\r":  "line one\nline two\n",
		"cafe\u0301":              "caf\u00e9",
		"bad \xff byte":           "bad \ufffd byte",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}

	raw := NewNormalizerWithOptions(false, false, false)
	if got := raw.Normalize("a\r\nb"); got != "a\r\nb" {
		t.Errorf("disabled normalizer changed input: %q", got)
	}
}
