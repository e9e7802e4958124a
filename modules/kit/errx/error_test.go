package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("GAME_CONFLICT", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("GAME_CONFLICT", "x2").WithData("k2", "v2")
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true，e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, NewBiz("GAME_OTHER", "x")) {
		t.Fatalf("期望不同 code 不匹配")
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("db down")
	err := NewBiz("GAME_REJECT", "insufficient resources").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := NewSys("SYS_STORE", "存档库不可用").WithCause(errors.New("io timeout"))
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("期望系统错误捕获栈，got=%v", got)
	}
	sys2 := NewSys("SYS_RUNTIME", "运行时异常").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层不重复捕获栈，got=%v", got)
	}
}

func TestError_Data_防止外部map污染(t *testing.T) {
	m := map[string]any{"k": "v"}
	err := NewBiz("BIZ_X", "").WithDataMap(m)
	m["k"] = "mutated"
	if got := err.Data()["k"]; got != "v" {
		t.Fatalf("期望构造时复制 data，got=%v", got)
	}
}

func TestError_WithMsg_不影响哨兵(t *testing.T) {
	base := NewBiz("GAME_INSUFFICIENT_RESOURCES", "insufficient resources")
	derived := base.WithMsgf("insufficient resources: %s", "food")
	if base.Msg() != "insufficient resources" {
		t.Fatalf("期望哨兵文案不变，got=%q", base.Msg())
	}
	if derived.Msg() != "insufficient resources: food" {
		t.Fatalf("期望派生文案，got=%q", derived.Msg())
	}
	if !errors.Is(derived, base) {
		t.Fatalf("期望派生错误仍按 code 匹配")
	}
}

func TestCodeOf_沿错误链取码(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", ErrNotFound.WithData("save", "s1"))
	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Fatalf("期望 CodeNotFound，got=%s", got)
	}
	if !IsBiz(wrapped) {
		t.Fatalf("期望识别为业务错误")
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("期望非 errx 错误归为 CodeInternal，got=%s", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Fatalf("期望 nil 无错误码，got=%s", got)
	}
}
