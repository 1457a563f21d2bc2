package util

import (
	"strings"
)

// 批量导入文件支持的候选分隔符，按优先级排列
var candidateDelimiters = []rune{',', '\t', '|', ';'}

// 可识别的扩展ID列名集合
var idColumnNames = map[string]bool{
	"extension_id": true,
	"extensionid":  true,
	"id":           true,
	"ext_id":       true,
	"extid":        true,
}

// ParseExtensionIDs 从用户提供的文本中提取扩展ID列表
// 纯函数，不做任何I/O；自动识别三种输入形态：
//  1. 带表头的分隔符文件：按候选分隔符逐个尝试，第一个能在首行
//     识别出ID列名的分隔符生效（刻意的首个命中策略，不做全局评分，
//     避免改变既有导入文件的可观测解析行为），其余行按该列提取；
//  2. 无表头的分隔符文件：首行含有某个候选分隔符时，所有行都按
//     数据行处理，取第一列；
//  3. 纯列表：每行一个ID
//
// 空行与纯空白行一律丢弃，空输入返回空列表
func ParseExtensionIDs(text string) []string {
	lines := splitNonEmptyLines(text)
	if len(lines) == 0 {
		return []string{}
	}

	// 形态1：带表头的分隔符文件
	for _, delim := range candidateDelimiters {
		col := headerIDColumn(lines[0], delim)
		if col < 0 {
			continue
		}

		ids := make([]string, 0, len(lines)-1)
		for _, line := range lines[1:] {
			fields := splitDelimited(line, delim)
			if col >= len(fields) {
				continue
			}
			id := strings.TrimSpace(stripQuotes(fields[col]))
			if id != "" {
				ids = append(ids, id)
			}
		}
		return ids
	}

	// 形态2：无表头的分隔符文件，所有行（包括首行）都是数据行
	for _, delim := range candidateDelimiters {
		if !strings.ContainsRune(lines[0], delim) {
			continue
		}

		ids := make([]string, 0, len(lines))
		for _, line := range lines {
			fields := splitDelimited(line, delim)
			if len(fields) == 0 {
				continue
			}
			id := strings.TrimSpace(stripQuotes(fields[0]))
			if id != "" {
				ids = append(ids, id)
			}
		}
		return ids
	}

	// 形态3：每行一个ID
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line)
	}
	return ids
}

// splitNonEmptyLines 按CRLF/LF切分并丢弃空白行，每行预先trim
func splitNonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// headerIDColumn 检查首行按给定分隔符切分后是否存在可识别的ID列名，
// 返回列下标，未识别返回-1
func headerIDColumn(header string, delim rune) int {
	if !strings.ContainsRune(header, delim) {
		return -1
	}

	for i, field := range strings.Split(header, string(delim)) {
		name := strings.ToLower(strings.TrimSpace(stripQuotes(strings.TrimSpace(field))))
		if idColumnNames[name] {
			return i
		}
	}
	return -1
}

// splitDelimited 按分隔符切分一行数据，支持双引号包裹字段，
// 字段内的""转义为单个双引号
func splitDelimited(line string, delim rune) []string {
	fields := make([]string, 0, 4)
	var field strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				// 双写引号是转义
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delim && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, field.String())

	return fields
}

// stripQuotes 去掉字段两端成对的双引号
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
