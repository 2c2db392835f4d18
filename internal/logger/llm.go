package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

// 中文说明：
// 独立的 LLM 日志通道：完整记录每次决策请求的提示词与模型原始输出，
// 与常规运行日志分开存放，便于离线回放与排查提示词问题。

var (
	llmMu  sync.Mutex
	llmLog *log.Logger
)

func SetLLMWriter(w io.Writer) {
	llmMu.Lock()
	defer llmMu.Unlock()
	if w == nil {
		llmLog = nil
		return
	}
	llmLog = log.New(w, "", log.LstdFlags)
}

func logLLM(kind, model string, sections ...[2]string) {
	llmMu.Lock()
	l := llmLog
	llmMu.Unlock()
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[LLM][")
	b.WriteString(kind)
	b.WriteString("]")
	if model != "" {
		b.WriteString("[")
		b.WriteString(model)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("--- ")
		b.WriteString(sec[0])
		b.WriteString(" ---\n")
		b.WriteString(sec[1])
		if !strings.HasSuffix(sec[1], "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

func LogLLMRequest(model, systemPrompt, userPrompt string) {
	logLLM("request", model, [2]string{"SYSTEM", systemPrompt}, [2]string{"USER", userPrompt})
}

func LogLLMResponse(model, raw string) {
	logLLM("response", model, [2]string{"RAW", raw})
}
