package risk

import (
	"strings"
	"time"

	"crxsou/model"
	"crxsou/util"
)

// 各等级对应的固定结论文案
var verdictMessages = map[model.RiskLevel]string{
	model.RiskCritical: "CRITICAL RISK",
	model.RiskHigh:     "HIGH RISK",
	model.RiskMedium:   "MODERATE RISK",
	model.RiskLow:      "Low Risk",
}

// 低用户量信号的阈值：安装量在(0,1000)区间
const lowUserThreshold = 1000

// 陈旧性信号的阈值：超过24个月未更新
const staleMonths = 24

// last_updated字段在各商店的常见格式
var lastUpdatedLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// CalculateVerdict 把一条扩展记录归约为多信号风险结论
// 每条信号独立评估，全部命中的信号都会列出（而不是只留最高的一条）；
// 整体等级取信号中的最高严重度，无信号命中时Level为空、Message为空
func CalculateVerdict(rec *model.ExtensionRecord) model.RiskVerdict {
	verdict := model.RiskVerdict{Signals: []model.RiskSignal{}}
	if rec == nil {
		return verdict
	}

	aggregate := AggregateRisk(rec.Permissions)

	if len(rec.BlocklistMatches) > 0 {
		verdict.Signals = append(verdict.Signals, model.RiskSignal{
			Severity: model.RiskCritical,
			Label:    "On malicious blocklist",
		})
	}

	// 仅当记录确实带有权限数据时才评估权限信号，
	// 避免把"未采集权限"的记录误报为low
	if len(rec.Permissions) > 0 {
		switch aggregate {
		case model.RiskCritical:
			verdict.Signals = append(verdict.Signals, model.RiskSignal{
				Severity: model.RiskCritical,
				Label:    "Critical permissions",
			})
		case model.RiskHigh:
			verdict.Signals = append(verdict.Signals, model.RiskSignal{
				Severity: model.RiskHigh,
				Label:    "High-risk permissions",
			})
		}
	}

	if rec.Delisted {
		verdict.Signals = append(verdict.Signals, model.RiskSignal{
			Severity: model.RiskHigh,
			Label:    "Delisted from store",
		})
	}

	// 低安装量+critical权限的组合信号
	// 阈值刻意只对critical生效，不外推到high
	users := util.ParseUserCount(rec.UserCount)
	if users > 0 && users < lowUserThreshold && aggregate == model.RiskCritical {
		verdict.Signals = append(verdict.Signals, model.RiskSignal{
			Severity: model.RiskMedium,
			Label:    "Low users + critical perms",
		})
	}

	if isStale(rec.LastUpdated) {
		verdict.Signals = append(verdict.Signals, model.RiskSignal{
			Severity: model.RiskLow,
			Label:    "Not updated in 2+ years",
		})
	}

	for _, sig := range verdict.Signals {
		if sig.Severity.Rank() > verdict.Level.Rank() {
			verdict.Level = sig.Severity
		}
	}
	if verdict.Level != "" {
		verdict.Message = verdictMessages[verdict.Level]
	}

	return verdict
}

// isStale 判断last_updated是否早于24个月前
// 无法解析的日期不触发信号
func isStale(lastUpdated string) bool {
	lastUpdated = strings.TrimSpace(lastUpdated)
	if lastUpdated == "" {
		return false
	}

	var updated time.Time
	for _, layout := range lastUpdatedLayouts {
		t, err := time.Parse(layout, lastUpdated)
		if err == nil {
			updated = t
			break
		}
	}
	if updated.IsZero() {
		return false
	}

	cutoff := time.Now().AddDate(0, -staleMonths, 0)
	return updated.Before(cutoff)
}
