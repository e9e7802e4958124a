package app

import (
	"regexp"

	"Dawnforge/modules/kit/errx"
)

const (
	CodeSaveExists      errx.Code = "SAVE_EXISTS"
	CodeInvalidSaveName errx.Code = "SAVE_INVALID_NAME"
)

var (
	ErrSaveNotFound    = errx.ErrNotFound.WithMsg("save not found")
	ErrSaveExists      = errx.NewBiz(CodeSaveExists, "save already exists")
	ErrInvalidSaveName = errx.NewBiz(CodeInvalidSaveName, "save name must be 1-64 letters, digits, '-' or '_'")
)

var saveNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidSaveName 存档名也会出现在 url 与 sqlite 主键里。
func ValidSaveName(name string) bool {
	return saveNamePattern.MatchString(name)
}
