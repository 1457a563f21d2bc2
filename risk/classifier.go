package risk

import (
	"sort"
	"strings"

	"crxsou/model"
)

// 权限分级静态表：权限token → 描述
// 分级口径面向安全审查，宁可偏高不可偏低
var criticalPermissions = map[string]string{
	"debugger":               "Attach to the browser debugger and inspect or modify any page",
	"proxy":                  "Control browser proxy settings and route all traffic",
	"nativeMessaging":        "Exchange messages with native applications outside the browser",
	"desktopCapture":         "Capture screen, window and tab content",
	"tabCapture":             "Capture the media stream of browser tabs",
	"pageCapture":            "Save complete pages as MHTML including their content",
	"webAuthenticationProxy": "Intercept and forward WebAuthn security key requests",
	"declarativeNetRequestWithHostAccess": "Rewrite network requests on all permitted hosts",
}

var highPermissions = map[string]string{
	"webRequest":         "Observe network requests made by the browser",
	"webRequestBlocking": "Intercept and block network requests in flight",
	"cookies":            "Read and modify browser cookies",
	"history":            "Read and modify browsing history",
	"tabs":               "Access the URL and title of every open tab",
	"scripting":          "Inject scripts into web pages",
	"management":         "List, enable and disable other installed extensions",
	"browsingData":       "Clear browsing data such as history and cookies",
	"clipboardRead":      "Read data from the system clipboard",
	"geolocation":        "Access the device's physical location",
	"privacy":            "Change privacy-related browser settings",
	"contentSettings":    "Change per-site content settings such as scripts and plugins",
	"downloads":          "Manage downloads and open downloaded files",
	"webNavigation":      "Observe navigation events across all frames",
	"declarativeNetRequest": "Modify network requests with declarative rules",
}

var mediumPermissions = map[string]string{
	"clipboardWrite":   "Write data to the system clipboard",
	"notifications":    "Show desktop notifications",
	"identity":         "Access OAuth2 identity tokens for the signed-in user",
	"bookmarks":        "Read and modify bookmarks",
	"topSites":         "Read the list of most visited sites",
	"sessions":         "Query and restore recently closed tabs and sessions",
	"unlimitedStorage": "Store unlimited amounts of client-side data",
	"background":       "Keep running in the background after the browser closes",
	"system.storage":   "Query attached storage device information",
}

var lowPermissions = map[string]string{
	"storage":      "Store small amounts of extension settings",
	"alarms":       "Schedule code to run periodically",
	"contextMenus": "Add items to the browser context menu",
	"activeTab":    "Temporary access to the active tab after a user gesture",
	"idle":         "Detect when the machine goes idle",
	"offscreen":    "Create offscreen documents for background work",
	"fontSettings": "Manage browser font settings",
	"tts":          "Use the text-to-speech engine",
	"power":        "Prevent the system from sleeping",
}

// 覆盖全部源的宽泛host pattern，一律视为critical
var broadHostPatterns = map[string]bool{
	"<all_urls>": true,
	"http://*/*": true,
	"https://*/*": true,
	"*://*/*":    true,
}

// Classify 对单个权限字符串做风险分级
// 对任意输入都是全函数：未识别的token按medium处理（当作可疑未知，
// 避免安全审查中漏报），不会返回错误
func Classify(perm string) model.PermissionInfo {
	token := strings.TrimSpace(perm)

	if desc, ok := criticalPermissions[token]; ok {
		return model.PermissionInfo{Permission: token, Risk: model.RiskCritical, Description: desc}
	}
	if desc, ok := highPermissions[token]; ok {
		return model.PermissionInfo{Permission: token, Risk: model.RiskHigh, Description: desc}
	}
	if desc, ok := mediumPermissions[token]; ok {
		return model.PermissionInfo{Permission: token, Risk: model.RiskMedium, Description: desc}
	}
	if desc, ok := lowPermissions[token]; ok {
		return model.PermissionInfo{Permission: token, Risk: model.RiskLow, Description: desc}
	}

	// host pattern：宽泛通配为critical，指向特定源的为high
	if isHostPattern(token) {
		if broadHostPatterns[token] {
			return model.PermissionInfo{
				Permission:  token,
				Risk:        model.RiskCritical,
				Description: "Read and change data on all websites",
			}
		}
		return model.PermissionInfo{
			Permission:  token,
			Risk:        model.RiskHigh,
			Description: "Read and change data on " + hostOfPattern(token),
		}
	}

	return model.PermissionInfo{
		Permission:  token,
		Risk:        model.RiskMedium,
		Description: "Unrecognized permission, treat as suspicious",
	}
}

// isHostPattern 判断token是否为URL匹配模式
func isHostPattern(token string) bool {
	if token == "<all_urls>" {
		return true
	}
	return strings.Contains(token, "://")
}

// hostOfPattern 提取host pattern中的主机部分用于描述
func hostOfPattern(token string) string {
	rest := token
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "" {
		return token
	}
	return rest
}

// ClassifyAll 对权限列表做分级并按风险从高到低稳定排序
// 同级权限保持输入中的相对顺序
func ClassifyAll(perms []string) []model.PermissionInfo {
	infos := make([]model.PermissionInfo, 0, len(perms))
	for _, p := range perms {
		infos = append(infos, Classify(p))
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Risk.Rank() > infos[j].Risk.Rank()
	})

	return infos
}

// AggregateRisk 把权限集合归约为单一风险等级
// 空列表为low，否则取集合中的最高等级
func AggregateRisk(perms []string) model.RiskLevel {
	level := model.RiskLow
	for _, p := range perms {
		info := Classify(p)
		if info.Risk.Rank() > level.Rank() {
			level = info.Risk
		}
	}
	return level
}
