package errs

import (
	"errors"
	"testing"
)

func TestWrap_保留根因与操作名(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap("repo.sqlite.Save", KindInfra, cause, map[string]any{"save": "alpha"})
	if !errors.Is(err, cause) {
		t.Fatalf("期望能沿链找到根因")
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "repo.sqlite.Save" || e.Meta["save"] != "alpha" {
		t.Fatalf("期望保留 op 与 meta，got=%+v", e)
	}
	if Wrap("x", KindInfra, nil, nil) != nil {
		t.Fatalf("期望 nil cause 返回 nil")
	}
}
