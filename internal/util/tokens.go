package util

import (
	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "o200k_base"

// TruncateTokens cuts text down to at most budget tokens under the o200k_base
// encoding. A budget <= 0 returns the text unchanged, as does any encoder
// failure.
func TruncateTokens(text string, budget int) string {
	if budget <= 0 || text == "" {
		return text
	}
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return enc.Decode(tokens[:budget])
}

// CountTokens returns the o200k_base token count of text, or an estimate of
// len/4 if the encoder is unavailable.
func CountTokens(text string) int {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
