package utils

import (
	"strings"
	"unicode/utf16"
)

// InputState 输入框的值和选区
// 选区偏移与浏览器一致,按UTF-16编码单元计数
type InputState struct {
	Value          string `json:"value"`
	SelectionStart int    `json:"selectionStart"`
	SelectionEnd   int    `json:"selectionEnd"`
}

// SplitTokens 按空白拆分,丢弃空项
func SplitTokens(text string) []string {
	return strings.Fields(text)
}

// Paste 粘贴: 选区替换为按空白拆分后逐行排列的内容,光标移到插入内容之后
func Paste(state InputState, pasted string) InputState {
	units := utf16.Encode([]rune(state.Value))
	start := clamp(state.SelectionStart, 0, len(units))
	end := clamp(state.SelectionEnd, start, len(units))

	inserted := strings.Join(SplitTokens(pasted), "\n")
	before := string(utf16.Decode(units[:start]))
	after := string(utf16.Decode(units[end:]))

	cursor := start + len(utf16.Encode([]rune(inserted)))
	return InputState{
		Value:          before + inserted + after,
		SelectionStart: cursor,
		SelectionEnd:   cursor,
	}
}

// Drop 拖放: 已有内容去除首尾空白后追加拖入的链接,每行一个,末尾换行
func Drop(current, dropped string) string {
	if dropped == "" {
		return current
	}
	return Append(current, SplitTokens(dropped))
}

// Space 空格键: 光标前最后一个词是http(s)链接时改为换行
// 返回是否处理了按键
func Space(state InputState) (InputState, bool) {
	units := utf16.Encode([]rune(state.Value))
	cursor := clamp(state.SelectionStart, 0, len(units))
	before := string(utf16.Decode(units[:cursor]))

	// 以空白结尾时最后一个词为空
	if before == "" || strings.TrimRightFunc(before, isSpace) != before {
		return state, false
	}
	words := strings.Fields(before)
	last := words[len(words)-1]
	if !strings.HasPrefix(last, "http://") && !strings.HasPrefix(last, "https://") {
		return state, false
	}

	value := strings.TrimRightFunc(state.Value, isSpace) + "\n"
	end := len(utf16.Encode([]rune(value)))
	return InputState{Value: value, SelectionStart: end, SelectionEnd: end}, true
}

// Append 添加链接: 已有内容去除首尾空白,非空时补换行,链接逐行追加并以换行结尾
func Append(current string, urls []string) string {
	existing := strings.TrimSpace(current)
	separator := ""
	if existing != "" {
		separator = "\n"
	}
	return existing + separator + strings.Join(urls, "\n") + "\n"
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v' ||
		r == 0x85 || r == 0xA0 || r == 0x2028 || r == 0x2029 || r == 0xFEFF
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
