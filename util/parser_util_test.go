package util

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseExtensionIDsPlainList(t *testing.T) {
	got := ParseExtensionIDs("id1\nid2\nid3")
	want := []string{"id1", "id2", "id3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n\t\n"} {
		got := ParseExtensionIDs(input)
		if len(got) != 0 {
			t.Errorf("ParseExtensionIDs(%q) = %v, want empty", input, got)
		}
	}
}

func TestParseExtensionIDsHeaderDetection(t *testing.T) {
	got := ParseExtensionIDs("extension_id,name\nabc,Foo\n")
	want := []string{"abc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsHeaderColumnNotFirst(t *testing.T) {
	got := ParseExtensionIDs("name,extension_id,users\nFoo,abc,100\nBar,def,200")
	want := []string{"abc", "def"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsHeaderAliases(t *testing.T) {
	for _, col := range []string{"extension_id", "extensionid", "id", "ext_id", "extid", "ID", "Extension_ID"} {
		input := col + ",name\nabc,Foo"
		got := ParseExtensionIDs(input)
		if !reflect.DeepEqual(got, []string{"abc"}) {
			t.Errorf("header %q: got %v, want [abc]", col, got)
		}
	}
}

func TestParseExtensionIDsNoHeaderFirstColumn(t *testing.T) {
	// 首行没有可识别的列名时按无表头处理，所有行取第一列
	got := ParseExtensionIDs("id1,Foo\nid2,Bar")
	want := []string{"id1", "id2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsDelimiters(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"tab", "extension_id\tname\nabc\tFoo\ndef\tBar"},
		{"pipe", "extension_id|name\nabc|Foo\ndef|Bar"},
		{"semicolon", "extension_id;name\nabc;Foo\ndef;Bar"},
	}

	want := []string{"abc", "def"}
	for _, tc := range cases {
		got := ParseExtensionIDs(tc.input)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, want)
		}
	}
}

func TestParseExtensionIDsFirstDelimiterWins(t *testing.T) {
	// 首行同时含逗号和分号时，候选顺序在前的逗号生效，分号留在字段内
	got := ParseExtensionIDs("id1,x;y\nid2,a;b")
	want := []string{"id1", "id2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsHeaderDelimiterFallthrough(t *testing.T) {
	// 逗号切分识别不出ID列时继续尝试后面的候选分隔符
	got := ParseExtensionIDs("extension_id;name,extra\nabc;Foo,x\ndef;Bar,y")
	want := []string{"abc", "def"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsQuotedFields(t *testing.T) {
	got := ParseExtensionIDs("extension_id,name\n\"abc\",\"Foo, Inc.\"\ndef,Bar")
	want := []string{"abc", "def"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsCRLFAndBlankLines(t *testing.T) {
	got := ParseExtensionIDs("id1\r\n\r\nid2\r\n   \r\nid3\r\n")
	want := []string{"id1", "id2", "id3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsSkipsShortRows(t *testing.T) {
	// ID列越界的行跳过，空ID字段丢弃
	got := ParseExtensionIDs("name,extension_id\nFoo,abc\nonlyonefield\nBar,\nBaz,def")
	want := []string{"abc", "def"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseExtensionIDsHeaderOnly(t *testing.T) {
	got := ParseExtensionIDs("extension_id,name")
	if len(got) != 0 {
		t.Errorf("header-only input: got %v, want empty", got)
	}
}

func TestSplitDelimitedQuotes(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hi""",b`, []string{`say "hi"`, "b"}},
		{`a,,c`, []string{"a", "", "c"}},
	}

	for _, tc := range cases {
		got := splitDelimited(tc.line, ',')
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitDelimited(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestParseExtensionIDsLargePlainList(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("extensionid")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteByte('\n')
	}
	got := ParseExtensionIDs(sb.String())
	if len(got) != 200 {
		t.Errorf("got %d ids, want 200", len(got))
	}
}
