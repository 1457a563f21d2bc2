package util

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateJobID(t *testing.T) {
	if !ValidateJobID(uuid.NewString()) {
		t.Error("freshly generated uuid rejected")
	}

	bad := []string{
		"",
		"not-a-uuid",
		"123e4567e89b12d3a456426614174000",                     // 无连字符
		"123e4567-e89b-12d3-a456-42661417400",                  // 少一位
		"123e4567-e89b-12d3-a456-4266141740000",                // 多一位
		"zzze4567-e89b-12d3-a456-426614174000",                 // 非法字符
		"123e4567-e89b-12d3-a456-426614174000/../other",        // 路径注入
		"123e4567-e89b-12d3-a456-426614174000\n",
	}
	for _, id := range bad {
		if ValidateJobID(id) {
			t.Errorf("ValidateJobID(%q) = true, want false", id)
		}
	}
}

func TestValidateExtensionIDChrome(t *testing.T) {
	if !ValidateExtensionID("aapbdbdomjkkjkaonfhkkikfgjllcleb", "chrome") {
		t.Error("valid chrome id rejected")
	}

	bad := []string{
		"",
		"short",
		strings.Repeat("a", 31),
		strings.Repeat("a", 33),
		"AAPBDBDOMJKKJKAONFHKKIKFGJLLCLEB", // 大写
		"aapbdbdomjkkjkaonfhkkikfgjllcle1", // 含数字
	}
	for _, id := range bad {
		if ValidateExtensionID(id, "chrome") {
			t.Errorf("chrome id %q accepted, want rejected", id)
		}
	}
}

func TestValidateExtensionIDEdge(t *testing.T) {
	good := []string{
		"ABCDEFabcdef0123456789ABCDEF0123",
		strings.Repeat("a", 32),
		strings.Repeat("A", 32),
		strings.Repeat("0", 32),
	}
	for _, id := range good {
		if !ValidateExtensionID(id, "edge") {
			t.Errorf("edge id %q rejected, want accepted", id)
		}
	}

	if ValidateExtensionID(strings.Repeat("a", 31), "edge") {
		t.Error("31-char edge id accepted")
	}
	if ValidateExtensionID(strings.Repeat("a", 31)+"-", "edge") {
		t.Error("edge id with hyphen accepted")
	}
}

func TestValidateExtensionIDFirefoxSafari(t *testing.T) {
	for _, store := range []string{"firefox", "safari"} {
		if !ValidateExtensionID("translate-helper@example.org", store) {
			t.Errorf("%s slug rejected", store)
		}
		if ValidateExtensionID("x", store) {
			t.Errorf("%s single-char id accepted", store)
		}
		if ValidateExtensionID("", store) {
			t.Errorf("%s empty id accepted", store)
		}
	}
}

func TestValidateExtensionIDUnknownStore(t *testing.T) {
	if ValidateExtensionID("aapbdbdomjkkjkaonfhkkikfgjllcleb", "opera") {
		t.Error("unknown store should reject all ids")
	}
}

func TestValidExtensionIDForAnyStore(t *testing.T) {
	stores := []string{"chrome", "edge"}

	if !ValidExtensionIDForAnyStore("aapbdbdomjkkjkaonfhkkikfgjllcleb", stores) {
		t.Error("chrome-shaped id rejected for [chrome edge]")
	}
	if !ValidExtensionIDForAnyStore("ABCDEFabcdef0123456789ABCDEF0123", stores) {
		t.Error("edge-shaped id rejected for [chrome edge]")
	}
	if ValidExtensionIDForAnyStore("not-a-real-id", stores) {
		t.Error("arbitrary slug accepted for [chrome edge]")
	}

	// firefox在集合中时slug放行
	if !ValidExtensionIDForAnyStore("not-a-real-id", []string{"chrome", "firefox"}) {
		t.Error("slug rejected although firefox accepts it")
	}

	// 两端空白在校验前剔除
	if !ValidExtensionIDForAnyStore("  aapbdbdomjkkjkaonfhkkikfgjllcleb  ", stores) {
		t.Error("whitespace-padded id rejected")
	}
}
