package errs

import "fmt"

type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindInfra      Kind = "infra"
	KindDependency Kind = "dependency"
	KindCodec      Kind = "codec"
)

// Error 记录基础设施失败的位置与关键参数，根因保留在 Cause。
type Error struct {
	Op    string         // repo.sqlite.Load / codec.Decode
	Kind  Kind           // 粗分类
	Meta  map[string]any // save、version 等
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap cause 为 nil 时返回 nil。
func Wrap(op string, kind Kind, cause error, meta map[string]any) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause, Meta: meta}
}
