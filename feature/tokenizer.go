package feature

import (
	"strings"
	"unicode"
)

// Tokenizer 把一段文本切分成词项。实现必须是确定性的。
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer 是默认分词器：
//   - 按 Unicode 规则转小写
//   - 词项是连续的字母、数字、下划线（含组合附加符号）
//   - 长度（按 rune 计）小于 MinLen 的词项丢弃
//
// 例如 "Cat-video: 4K_HDR a" 切分为 ["cat", "video", "4k_hdr"]。
type WordTokenizer struct {
	// MinLen 最短词长，<= 0 时使用 2
	MinLen int
}

// NewWordTokenizer 创建分词器。
func NewWordTokenizer(minLen int) *WordTokenizer {
	return &WordTokenizer{MinLen: minLen}
}

func (t *WordTokenizer) Tokenize(text string) []string {
	minLen := t.MinLen
	if minLen <= 0 {
		minLen = 2
	}

	var (
		tokens []string
		buf    strings.Builder
		runes  int
	)
	flush := func() {
		if runes >= minLen {
			tokens = append(tokens, buf.String())
		}
		buf.Reset()
		runes = 0
	}

	for _, r := range text {
		if isWordRune(r) {
			buf.WriteRune(unicode.ToLower(r))
			runes++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
