package risk

import (
	"testing"

	"crxsou/model"
)

func TestClassifyKnownPermissions(t *testing.T) {
	cases := []struct {
		perm string
		want model.RiskLevel
	}{
		{"debugger", model.RiskCritical},
		{"nativeMessaging", model.RiskCritical},
		{"webRequest", model.RiskHigh},
		{"cookies", model.RiskHigh},
		{"tabs", model.RiskHigh},
		{"notifications", model.RiskMedium},
		{"clipboardWrite", model.RiskMedium},
		{"storage", model.RiskLow},
		{"activeTab", model.RiskLow},
	}

	for _, tc := range cases {
		info := Classify(tc.perm)
		if info.Risk != tc.want {
			t.Errorf("Classify(%q).Risk = %q, want %q", tc.perm, info.Risk, tc.want)
		}
		if info.Description == "" {
			t.Errorf("Classify(%q) has empty description", tc.perm)
		}
	}
}

func TestClassifyHostPatterns(t *testing.T) {
	for _, broad := range []string{"<all_urls>", "http://*/*", "https://*/*", "*://*/*"} {
		info := Classify(broad)
		if info.Risk != model.RiskCritical {
			t.Errorf("Classify(%q).Risk = %q, want critical", broad, info.Risk)
		}
		if info.Description != "Read and change data on all websites" {
			t.Errorf("Classify(%q).Description = %q", broad, info.Description)
		}
	}

	info := Classify("https://example.com/*")
	if info.Risk != model.RiskHigh {
		t.Errorf("specific host pattern risk = %q, want high", info.Risk)
	}
	if info.Description != "Read and change data on example.com" {
		t.Errorf("specific host pattern description = %q", info.Description)
	}

	info = Classify("*://*.google.com/*")
	if info.Risk != model.RiskHigh {
		t.Errorf("wildcard subdomain pattern risk = %q, want high", info.Risk)
	}
	if info.Description != "Read and change data on *.google.com" {
		t.Errorf("wildcard subdomain description = %q", info.Description)
	}
}

func TestClassifyUnknownPermission(t *testing.T) {
	info := Classify("totallyMadeUpPermission")
	if info.Risk != model.RiskMedium {
		t.Errorf("unknown permission risk = %q, want medium", info.Risk)
	}
	if info.Description != "Unrecognized permission, treat as suspicious" {
		t.Errorf("unknown permission description = %q", info.Description)
	}
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	info := Classify("  debugger  ")
	if info.Risk != model.RiskCritical {
		t.Errorf("whitespace-padded token risk = %q, want critical", info.Risk)
	}
	if info.Permission != "debugger" {
		t.Errorf("whitespace-padded token normalized to %q", info.Permission)
	}
}

func TestClassifyAllOrdering(t *testing.T) {
	infos := ClassifyAll([]string{"storage", "debugger", "notifications", "cookies"})
	if len(infos) != 4 {
		t.Fatalf("got %d infos, want 4", len(infos))
	}

	// 按风险降序
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Risk.Rank() < infos[i].Risk.Rank() {
			t.Errorf("infos not sorted descending at %d: %q before %q", i, infos[i-1].Risk, infos[i].Risk)
		}
	}
	if infos[0].Permission != "debugger" {
		t.Errorf("highest risk first = %q, want debugger", infos[0].Permission)
	}
}

func TestClassifyAllStableWithinLevel(t *testing.T) {
	// 同级权限保持输入顺序
	infos := ClassifyAll([]string{"cookies", "tabs", "webRequest"})
	want := []string{"cookies", "tabs", "webRequest"}
	for i, w := range want {
		if infos[i].Permission != w {
			t.Errorf("infos[%d] = %q, want %q", i, infos[i].Permission, w)
		}
	}
}

func TestAggregateRisk(t *testing.T) {
	cases := []struct {
		name  string
		perms []string
		want  model.RiskLevel
	}{
		{"empty is low", nil, model.RiskLow},
		{"single low", []string{"storage"}, model.RiskLow},
		{"max wins", []string{"storage", "cookies"}, model.RiskHigh},
		{"critical dominates", []string{"storage", "cookies", "debugger"}, model.RiskCritical},
		{"unknown lifts to medium", []string{"storage", "mystery"}, model.RiskMedium},
	}

	for _, tc := range cases {
		if got := AggregateRisk(tc.perms); got != tc.want {
			t.Errorf("%s: AggregateRisk = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestAggregateRiskMonotonic(t *testing.T) {
	// 追加权限不会降低聚合等级
	perms := []string{}
	prev := AggregateRisk(perms)
	for _, p := range []string{"storage", "notifications", "cookies", "debugger", "alarms"} {
		perms = append(perms, p)
		cur := AggregateRisk(perms)
		if cur.Rank() < prev.Rank() {
			t.Errorf("aggregate dropped from %q to %q after adding %q", prev, cur, p)
		}
		prev = cur
	}
}
