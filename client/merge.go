package client

import (
	"encoding/json"
	"sort"

	"crxsou/model"
	jsonutil "crxsou/util/json"
)

// FlattenResults 把任务结果容器拍平成一个有序记录列表
//
// 后端同一个逻辑端点返回过两种容器形态：
//   - 键 → 记录数组（同步批量、按名称搜索）
//   - 键 → (子键 → 单条记录)（异步批量按 extension_id→store→record 嵌套）
//
// 在这个合并边界上把两种形态都解析掉，后续代码只面对扁平列表。
// found字段显式为false的记录丢弃（字段缺失视为已找到）。
// 遍历顺序：外层键排序后依次展开，嵌套形态的子键同样排序，
// 数组形态保持数组内原始顺序，保证多次合并结果顺序一致
func FlattenResults(raw map[string]json.RawMessage) []model.ExtensionRecord {
	records := make([]model.ExtensionRecord, 0, len(raw))
	if len(raw) == 0 {
		return records
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		records = append(records, flattenContainer(raw[key])...)
	}

	return records
}

// flattenContainer 解析单个结果容器，先按数组尝试，再按嵌套映射尝试
func flattenContainer(raw json.RawMessage) []model.ExtensionRecord {
	if len(raw) == 0 {
		return nil
	}

	var list []model.ExtensionRecord
	if err := jsonutil.Unmarshal(raw, &list); err == nil {
		found := make([]model.ExtensionRecord, 0, len(list))
		for _, rec := range list {
			if rec.IsFound() {
				found = append(found, rec)
			}
		}
		return found
	}

	var nested map[string]model.ExtensionRecord
	if err := jsonutil.Unmarshal(raw, &nested); err == nil {
		subKeys := make([]string, 0, len(nested))
		for k := range nested {
			subKeys = append(subKeys, k)
		}
		sort.Strings(subKeys)

		found := make([]model.ExtensionRecord, 0, len(nested))
		for _, k := range subKeys {
			rec := nested[k]
			if rec.IsFound() {
				found = append(found, rec)
			}
		}
		return found
	}

	// 两种已知形态都不匹配，按无记录处理
	return nil
}
