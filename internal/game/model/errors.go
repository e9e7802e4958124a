package model

import (
	"fmt"
	"strings"

	"Dawnforge/internal/game/resource"
	"Dawnforge/modules/kit/errx"
)

// 玩法拒绝码。全部是业务错误：可预期、可恢复，状态保持不变。
const (
	CodeInvalidTarget          errx.Code = "GAME_INVALID_TARGET"
	CodeConflict               errx.Code = "GAME_CONFLICT"
	CodeMissingPrerequisite    errx.Code = "GAME_MISSING_PREREQUISITE"
	CodeInsufficientPopulation errx.Code = "GAME_INSUFFICIENT_POPULATION"
	CodeInsufficientResources  errx.Code = "GAME_INSUFFICIENT_RESOURCES"
	CodeRuleViolation          errx.Code = "GAME_RULE_VIOLATION"
	CodeUnknownAction          errx.Code = "GAME_UNKNOWN_ACTION"
	CodeItemNotUsable          errx.Code = "GAME_ITEM_NOT_USABLE"
)

var (
	ErrInvalidTarget          = errx.NewBiz(CodeInvalidTarget, "invalid target")
	ErrConflict               = errx.NewBiz(CodeConflict, "conflicting task already active")
	ErrMissingPrerequisite    = errx.NewBiz(CodeMissingPrerequisite, "missing prerequisite")
	ErrInsufficientPopulation = errx.NewBiz(CodeInsufficientPopulation, "not enough housing")
	ErrInsufficientResources  = errx.NewBiz(CodeInsufficientResources, "insufficient resources")
	ErrRuleViolation          = errx.NewBiz(CodeRuleViolation, "rule violation")
	ErrUnknownAction          = errx.NewBiz(CodeUnknownAction, "unknown action")
	ErrItemNotUsable          = errx.NewBiz(CodeItemNotUsable, "item cannot be used now")
)

func InvalidTarget(format string, args ...any) *errx.Error {
	return ErrInvalidTarget.WithMsgf(format, args...)
}

func Conflict(format string, args ...any) *errx.Error {
	return ErrConflict.WithMsgf(format, args...)
}

func RuleViolation(format string, args ...any) *errx.Error {
	return ErrRuleViolation.WithMsgf(format, args...)
}

// MissingPrerequisite 文案列出缺少的建筑/研究名称。
func MissingPrerequisite(names []string) *errx.Error {
	return ErrMissingPrerequisite.
		WithMsgf("missing prerequisite: %s", strings.Join(names, ", ")).
		WithData("missing", names)
}

// InsufficientPopulation need 是还差多少个住房位。
func InsufficientPopulation(need int) *errx.Error {
	return ErrInsufficientPopulation.
		WithMsgf("not enough housing: need %d more slot(s)", need).
		WithData("need", need)
}

// InsufficientResources 文案形如 "insufficient resources: food, gold"。
func InsufficientResources(missing []resource.Kind) *errx.Error {
	names := make([]string, len(missing))
	for i, k := range missing {
		names[i] = string(k)
	}
	return ErrInsufficientResources.
		WithMsgf("insufficient resources: %s", strings.Join(names, ", ")).
		WithData("missing", names)
}

func UnknownAction(kind string) *errx.Error {
	return ErrUnknownAction.WithMsg(fmt.Sprintf("unknown action: %q", kind)).WithData("type", kind)
}

func ItemNotUsable(name string) *errx.Error {
	return ErrItemNotUsable.WithMsgf("%s cannot be used now", name)
}

// IsRejection 判断错误是否为玩法拒绝（而不是系统故障）。
func IsRejection(err error) bool {
	return errx.IsBiz(err)
}
