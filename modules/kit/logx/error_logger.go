package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

type codeTextProvider interface {
	CodeText() string
}

type msgProvider interface {
	Msg() string
}

type dataProvider interface {
	Data() map[string]any
}

type stackProvider interface {
	Stack() []uintptr
}

type reasonProvider interface {
	Reason() string
}

type bizProvider interface {
	IsBiz() bool
}

// ErrorLog 是从错误链里提取出的可读结构，接口层统一打印用。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Biz        bool
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 提取错误码、文案、上下文、cause 链和发生处栈。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}

	out := ErrorLog{Error: err.Error()}

	var cp codeTextProvider
	if errors.As(err, &cp) {
		out.Code = cp.CodeText()
	}
	var mp msgProvider
	if errors.As(err, &mp) {
		out.Msg = mp.Msg()
	}
	var dp dataProvider
	if errors.As(err, &dp) {
		out.Data = dp.Data()
	}
	var rp reasonProvider
	if errors.As(err, &rp) {
		out.Reason = rp.Reason()
	}
	var bp bizProvider
	if errors.As(err, &bp) {
		out.Biz = bp.IsBiz()
	}
	var sp stackProvider
	if errors.As(err, &sp) {
		out.Origin, out.Stack = formatStack(sp.Stack(), 32)
	}
	out.CauseChain = buildCauseChain(err, 20)
	return out
}

// Fields 转成 zap 字段，空值不输出。
func (m ErrorLog) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 6)
	if m.Code != "" {
		fields = append(fields, zap.String("error_code", m.Code))
	}
	if len(m.CauseChain) != 0 {
		fields = append(fields, zap.Strings("cause_chain", m.CauseChain))
	}
	if len(m.Data) != 0 {
		fields = append(fields, zap.Any("error_data", m.Data))
	}
	if m.Origin != "" {
		fields = append(fields, zap.String("origin_caller", m.Origin))
	}
	if m.Stack != "" {
		fields = append(fields, zap.String("stack_origin", m.Stack))
	}
	return fields
}

func buildCauseChain(err error, maxDepth int) []string {
	if err == nil || maxDepth <= 0 {
		return nil
	}
	out := make([]string, 0, 4)
	cur := errors.Unwrap(err)
	for i := 0; i < maxDepth && cur != nil; i++ {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
		cur = errors.Unwrap(cur)
	}
	return out
}

func formatStack(pcs []uintptr, maxFrames int) (originCaller string, stack string) {
	if len(pcs) == 0 || maxFrames <= 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for i := 0; i < maxFrames; i++ {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" && f.Line == 0 {
			break
		}
		line := fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
		if originCaller == "" {
			originCaller = line
		}
		lines = append(lines, line)
		if !more {
			break
		}
	}
	return originCaller, strings.Join(lines, "\n")
}
