package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogValidate_内置目录通过校验(t *testing.T) {
	out, err := run(t, "catalog", "validate")
	if err != nil {
		t.Fatalf("期望校验通过，err=%v", err)
	}
	if !strings.Contains(out, "digest:") {
		t.Fatalf("期望输出 digest，got=%s", out)
	}
}

func TestCatalogValidate_目录不存在报错(t *testing.T) {
	if _, err := run(t, "catalog", "validate", "--dir", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("期望目录不存在时报错")
	}
}

func TestSaveList_空库(t *testing.T) {
	db := filepath.Join(t.TempDir(), "saves.sqlite")
	out, err := run(t, "save", "list", "--db", db)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(out, "no saves") {
		t.Fatalf("期望提示没有存档，got=%s", out)
	}
}

func TestSaveShow_不存在的存档报错(t *testing.T) {
	db := filepath.Join(t.TempDir(), "saves.sqlite")
	if _, err := run(t, "save", "show", "ghost", "--db", db); err == nil {
		t.Fatalf("期望找不到存档时报错")
	}
}
