package mockapi

import (
	"crxsou/model"
)

func boolPtr(b bool) *bool { return &b }

// DefaultFixtures 内置的扩展样本数据，按 store → extension_id 索引
// 覆盖各风险档位，便于演示模式和测试直接使用
func DefaultFixtures() map[string]map[string]model.ExtensionRecord {
	return map[string]map[string]model.ExtensionRecord{
		"chrome": {
			"aapbdbdomjkkjkaonfhkkikfgjllcleb": {
				Found:       boolPtr(true),
				StoreSource: "chrome",
				ExtensionID: "aapbdbdomjkkjkaonfhkkikfgjllcleb",
				Name:        "Translate Helper",
				Publisher:   "translate-helper.example",
				Version:     "2.0.13",
				UserCount:   "10,000,000+ users",
				Rating:      "4.5",
				LastUpdated: "2026-07-01",
				Permissions: []string{"storage", "activeTab", "contextMenus"},
			},
			"cfhdojbkjhnklbpkdaibdccddilifddb": {
				Found:       boolPtr(true),
				StoreSource: "chrome",
				ExtensionID: "cfhdojbkjhnklbpkdaibdccddilifddb",
				Name:        "Ad Shield",
				Publisher:   "adshield.example",
				Version:     "3.25.0",
				UserCount:   "60,000,000+ users",
				Rating:      "4.7",
				LastUpdated: "2026-06-15",
				Permissions: []string{"webRequest", "webRequestBlocking", "storage", "<all_urls>"},
			},
			"mmnbenehknklpbendgmgngeaignppnbe": {
				Found:       boolPtr(true),
				StoreSource: "chrome",
				ExtensionID: "mmnbenehknklpbendgmgngeaignppnbe",
				Name:        "Screen Grabber Pro",
				Publisher:   "unknown",
				Version:     "1.2.2",
				UserCount:   "523 users",
				Rating:      "2.1",
				LastUpdated: "March 5, 2023",
				Permissions: []string{"debugger", "tabCapture", "nativeMessaging", "<all_urls>"},
				BlocklistMatches: []model.BlocklistMatch{
					{Source: "mallory-extensions", URL: "https://example.com/blocklist", Name: "Screen Grabber Pro"},
				},
			},
			"dfllgcgkdmmbxnfcmdfrmplbphkkvjkb": {
				Found:       boolPtr(true),
				StoreSource: "chrome",
				ExtensionID: "dfllgcgkdmmbxnfcmdfrmplbphkkvjkb",
				Name:        "Coupon Clipper",
				Publisher:   "coupons.example",
				Version:     "0.9.1",
				UserCount:   "1,204 users",
				Rating:      "3.8",
				LastUpdated: "2021-11-02",
				Permissions: []string{"cookies", "tabs", "storage"},
				Delisted:    true,
			},
		},
		"edge": {
			"ABCDEFabcdef0123456789ABCDEF0123": {
				Found:       boolPtr(true),
				StoreSource: "edge",
				ExtensionID: "ABCDEFabcdef0123456789ABCDEF0123",
				Name:        "Ad Shield",
				Publisher:   "adshield.example",
				Version:     "3.24.1",
				UserCount:   "1,200,000",
				Rating:      "4.6",
				LastUpdated: "2026-05-30",
				Permissions: []string{"webRequest", "storage"},
			},
		},
		"firefox": {
			"translate-helper@example.org": {
				Found:       boolPtr(true),
				StoreSource: "firefox",
				ExtensionID: "translate-helper@example.org",
				Name:        "Translate Helper",
				Publisher:   "translate-helper.example",
				Version:     "2.0.12",
				UserCount:   "850,000",
				Rating:      "4.4",
				LastUpdated: "2026-06-20",
				Permissions: []string{"storage", "activeTab"},
			},
		},
	}
}

// notFoundRecord 未收录扩展的占位记录，found显式为false
func notFoundRecord(store, extensionID string) model.ExtensionRecord {
	return model.ExtensionRecord{
		Found:       boolPtr(false),
		StoreSource: store,
		ExtensionID: extensionID,
	}
}

// manualSearchStores 只能人工检索的商店及其深链接模板
var manualSearchStores = map[string]string{
	"safari": "https://apps.apple.com/search?term=",
}
