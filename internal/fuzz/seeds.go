package fuzztests

import (
	"testing"
)

const (
	maxFuzzInput = 64 << 10 // 64 KiB
)

var plainSeeds = []string{
	"",
	"Teh cat sat.\n",
	"one  two\tthree\n\n\nfour",
	"line\r\nwith crlf\r\n",
	"unicode: naïve café 日本語 ü\n",
	"   \n \t \n",
}

var markdownSeeds = []string{
	"# Title\n\nSome *emph* and `code` text.\n",
	"- item one\n- item [link](https://example.com) two\n",
	"```go\nfunc main() {}\n```\n\nAfter the fence.\n",
	"> quoted Teh text\n\n| a | b |\n|---|---|\n| c | d |\n",
	"<div>inline html</div>\n\ntext with <b>tags</b>\n",
}

func addSeeds(f *testing.F, seeds []string) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
